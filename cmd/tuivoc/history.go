package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/statsui"
)

const defaultTopWords = 10

var (
	historyDeck    string
	historyUser    string
	historyLast    int
	historyDetails bool
	historyClear   bool

	statsDeck            string
	statsUser            string
	statsSince           string
	statsLast            int
	statsCurveWindow     int
	statsIncludeTraining bool
	statsPlain           bool
	statsTop             int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent review sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDeck, "deck", "", "deck name (default: "+defaultDeck+")")
	cmd.Flags().StringVar(&historyUser, "user", "", "user name (default: "+defaultUser+")")
	cmd.Flags().IntVar(&historyLast, "last", stats.HistoryTableLimit, "number of sessions to list")
	cmd.Flags().BoolVar(&historyDetails, "details", false, "show per-word results of every session")
	cmd.Flags().BoolVar(&historyClear, "clear", false, "delete the history of the deck and user")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast <= 0 {
		return fmt.Errorf("--last must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, historyDeck)
	if err != nil {
		return err
	}
	user, err := resolveUser(ctx, st, historyUser)
	if err != nil {
		return err
	}

	if historyClear {
		n, err := st.ClearRecords(ctx, deck.ID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		cliLogger().Debug("history cleared", "deck", deck.ID, "user", user.ID, "sessions", n)
		return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Deleted %d session(s) of %s in %s", n, user.Name, deck.Name))
	}

	records, err := st.QueryRecords(ctx, deck.ID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	records = stats.FilterRecords(records, model.StatsConfig{IncludeTraining: true})
	w := cmd.OutOrStdout()
	if err := writeOut(w, fmt.Sprintf("%s · %s", deck.Name, user.Name)); err != nil {
		return err
	}
	return stats.RenderHistoryTable(w, records, historyLast, historyDetails)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck name (default: "+defaultDeck+")")
	cmd.Flags().StringVar(&statsUser, "user", "", "user name (default: "+defaultUser+")")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsIncludeTraining, "include-training", false, "include training sessions")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats instead of opening the browser")
	cmd.Flags().IntVar(&statsTop, "top", defaultTopWords, "number of most missed words printed with --plain")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	applyBoolConfig(cmd, "include-training", &statsIncludeTraining, fileCfg.Stats.IncludeTraining)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, statsDeck)
	if err != nil {
		return err
	}
	user, err := resolveUser(ctx, st, statsUser)
	if err != nil {
		return err
	}

	cfg := model.StatsConfig{
		DeckID:          deck.ID,
		UserID:          user.ID,
		Since:           sinceTime,
		Last:            statsLast,
		CurveWindow:     statsCurveWindow,
		IncludeTraining: statsIncludeTraining,
	}

	if statsPlain {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return renderPlainStats(cmd.OutOrStdout(), report, cfg.CurveWindow, statsTop)
	}

	title := fmt.Sprintf("%s · %s", deck.Name, user.Name)
	m := statsui.NewModel(st, cfg, title)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report, window, top int) error {
	if err := stats.RenderSummary(w, report.Records); err != nil {
		return err
	}
	if len(report.Records) == 0 {
		return nil
	}
	if err := stats.RenderCurvesWithSize(w, report.Records, window, 0, 0, false); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderWordTable(w, stats.TopWordsByErrors(report.WordsAll, top))
}
