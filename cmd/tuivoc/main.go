// Package main provides the CLI entrypoint for tuivoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/logging"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/review"
	"github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/tui"
)

const (
	defaultUser           = "Alex"
	defaultDeck           = "Vocab par défaut"
	defaultShuffle        = true
	defaultMatch          = "exact"
	defaultAdvanceDelayMs = 500
	defaultWeakTop        = 10
	defaultCurveWindow    = 5
)

var (
	reviewDeck           string
	reviewUser           string
	reviewShuffle        bool
	reviewTraining       bool
	reviewMatch          string
	reviewAdvanceDelayMs int
	reviewFocusWeak      bool
	reviewWeakTop        int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuivoc",
		Short:         "TUI vocabulary drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadEnv(config.DefaultEnvPath(), ".env")
		},
		RunE: runReviewCmd,
	}

	rootCmd.Flags().StringVar(&reviewDeck, "deck", "", "deck to review (default: "+defaultDeck+")")
	rootCmd.Flags().StringVar(&reviewUser, "user", "", "user answering (default: "+defaultUser+")")
	rootCmd.Flags().BoolVar(&reviewShuffle, "shuffle", defaultShuffle, "shuffle questions in every round")
	rootCmd.Flags().BoolVar(&reviewTraining, "training", false, "repeat each word until answered correctly")
	rootCmd.Flags().StringVar(&reviewMatch, "match", defaultMatch, "answer matching: exact or lenient")
	rootCmd.Flags().IntVar(&reviewAdvanceDelayMs, "advance-delay-ms", defaultAdvanceDelayMs, "pause after a correct answer")
	rootCmd.Flags().BoolVar(&reviewFocusWeak, "focus-weak", false, "review only the words you miss most")
	rootCmd.Flags().IntVar(&reviewWeakTop, "weak-top", defaultWeakTop, "number of weak words to review with --focus-weak")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDeckCmd())
	rootCmd.AddCommand(newWordCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "deck", &reviewDeck, fileCfg.Review.Deck)
	applyStringConfig(cmd, "user", &reviewUser, fileCfg.Review.User)
	applyBoolConfig(cmd, "shuffle", &reviewShuffle, fileCfg.Review.Shuffle)
	applyBoolConfig(cmd, "training", &reviewTraining, fileCfg.Review.Training)
	applyStringConfig(cmd, "match", &reviewMatch, fileCfg.Review.Match)
	applyIntConfig(cmd, "advance-delay-ms", &reviewAdvanceDelayMs, fileCfg.Review.AdvanceDelayMs)
	applyBoolConfig(cmd, "focus-weak", &reviewFocusWeak, fileCfg.Review.FocusWeak)
	applyIntConfig(cmd, "weak-top", &reviewWeakTop, fileCfg.Review.WeakTop)

	cfg := model.Config{
		Deck:         reviewDeck,
		User:         reviewUser,
		Shuffle:      reviewShuffle,
		Training:     reviewTraining,
		Match:        reviewMatch,
		AdvanceDelay: time.Duration(reviewAdvanceDelayMs) * time.Millisecond,
		FocusWeak:    reviewFocusWeak,
		WeakTop:      reviewWeakTop,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	policy, err := review.ParseMatchPolicy(cfg.Match)
	if err != nil {
		return fmt.Errorf("--match: %w", err)
	}

	level, err := logging.ParseLevel(config.LogLevel(fileCfg.Log.Level))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fileLogger, logFile, err := logging.OpenFile(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
	} else {
		logger = fileLogger
		defer func() {
			if cerr := logFile.Close(); cerr != nil {
				// Best-effort close of the log file.
				_ = cerr
			}
		}()
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	deck, err := resolveDeck(ctx, st, cfg.Deck)
	if err != nil {
		return err
	}
	user, err := resolveUser(ctx, st, cfg.User)
	if err != nil {
		return err
	}

	if cfg.FocusWeak {
		words, err := st.ListWords(ctx, deck.ID)
		if err != nil {
			return fmt.Errorf("failed to list words: %w", err)
		}
		if len(words) > 0 && len(stats.SelectWeakWords(words, user.ID, cfg.WeakTop)) == 0 {
			logErrln("no errors recorded for this user yet; reviewing the whole deck")
		}
	}

	m := tui.NewModel(tui.Config{
		Engine: review.Options{
			Source:  st,
			Errors:  st,
			History: st,
			Policy:  policy,
			Logger:  logger,
		},
		Session: review.SessionConfig{
			DeckID:   deck.ID,
			UserID:   user.ID,
			Shuffle:  cfg.Shuffle,
			Training: cfg.Training,
		},
		LoadWords:    wordLoader(st, deck.ID, user.ID, cfg, logger),
		History:      st,
		DeckName:     deck.Name,
		UserName:     user.Name,
		AdvanceDelay: cfg.AdvanceDelay,
		Logger:       logger,
	})
	logger.Info("review started", "deck", deck.Name, "user", user.Name, "training", cfg.Training, "match", policy.String())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// wordLoader returns the words of a session. With focus-weak it narrows the
// deck to the user's most missed words, falling back to the whole deck.
func wordLoader(st *store.Store, deckID, userID string, cfg model.Config, logger *slog.Logger) func(context.Context) ([]model.Word, error) {
	return func(ctx context.Context) ([]model.Word, error) {
		words, err := st.ListWords(ctx, deckID)
		if err != nil {
			return nil, err
		}
		if !cfg.FocusWeak {
			return words, nil
		}
		weak := stats.SelectWeakWords(words, userID, cfg.WeakTop)
		if len(weak) == 0 {
			logger.Info("no weak words yet, using the whole deck", "deck", deckID, "user", userID)
			return words, nil
		}
		logger.Debug("focusing on weak words", "count", len(weak))
		return weak, nil
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.AdvanceDelay < 0 {
		return fmt.Errorf("--advance-delay-ms must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// resolveDeck finds a deck by name. An empty name selects the default deck,
// which is created on first use.
func resolveDeck(ctx context.Context, st *store.Store, name string) (model.Deck, error) {
	if strings.TrimSpace(name) == "" {
		deck, err := st.EnsureDeck(ctx, defaultDeck)
		if err != nil {
			return model.Deck{}, fmt.Errorf("failed to create default deck: %w", err)
		}
		return deck, nil
	}
	deck, err := st.FindDeckByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return model.Deck{}, fmt.Errorf("deck %q not found (create it with: tuivoc deck add %q)", name, name)
	}
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to find deck: %w", err)
	}
	return deck, nil
}

// resolveUser finds a user by name. An empty name selects the default user,
// which is created on first use.
func resolveUser(ctx context.Context, st *store.Store, name string) (model.User, error) {
	if strings.TrimSpace(name) == "" {
		user, err := st.EnsureUser(ctx, defaultUser)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to create default user: %w", err)
		}
		return user, nil
	}
	user, err := st.FindUserByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, fmt.Errorf("user %q not found (create it with: tuivoc user add %q)", name, name)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// cliLogger logs to stderr for commands that do not own the terminal.
func cliLogger() *slog.Logger {
	var fileLevel *string
	if fileCfg, err := config.LoadConfig(config.DefaultConfigPath()); err == nil {
		fileLevel = fileCfg.Log.Level
	}
	level, err := logging.ParseLevel(config.LogLevel(fileLevel))
	if err != nil {
		logErrf("%v, using info\n", err)
	}
	return logging.New(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd())))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuivoc configuration
# Uncomment a value to enable it. CLI flags override config values.
# TUIVOC_DB and TUIVOC_LOG_LEVEL may also be set in %s.

[review]
# deck = %q               # Deck reviewed by default
# user = %q               # User answering by default
# shuffle = %t            # Shuffle questions in every round
# training = false        # Repeat each word until answered correctly
# match = %q              # Answer matching: exact or lenient
# advance-delay-ms = %d   # Pause after a correct answer
# focus-weak = false      # Review only the most missed words
# weak-top = %d           # Number of weak words to review

[stats]
# last = 0                # Limit to last N sessions (0 = all)
# curve-window = %d       # Moving average window
# include-training = false

[log]
# level = "info"          # debug, info, warn or error
`,
		config.DefaultEnvPath(),
		defaultDeck,
		defaultUser,
		defaultShuffle,
		defaultMatch,
		defaultAdvanceDelayMs,
		defaultWeakTop,
		defaultCurveWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
