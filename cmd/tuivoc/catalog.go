package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/wordlist"
)

var (
	deckClearHistory bool

	wordDeck string
	wordUser string
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE:  runDeckListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Create a deck",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeckAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a deck with its words and history",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeckRmCmd,
	})
	clearCmd := &cobra.Command{
		Use:   "clear NAME",
		Short: "Remove all words of a deck",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeckClearCmd,
	}
	clearCmd.Flags().BoolVar(&deckClearHistory, "history", false, "also delete the deck's review history")
	cmd.AddCommand(clearCmd)
	return cmd
}

func runDeckListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	decks, err := st.ListDecks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list decks: %w", err)
	}
	if len(decks) == 0 {
		return writeOut(cmd.OutOrStdout(), "No decks yet. Create one with: tuivoc deck add NAME")
	}
	rows := make([][]string, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, []string{d.Name, strconv.Itoa(d.Words), d.CreatedAt.Local().Format("2006-01-02")})
	}
	return stats.RenderTable(cmd.OutOrStdout(), []string{"Deck", "Words", "Created"}, rows, map[int]bool{1: true})
}

func runDeckAddCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	deck, err := st.CreateDeck(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNameExists) {
		return fmt.Errorf("deck %q already exists", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Created deck %s", deck.Name))
}

func runDeckRmCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteDeck(ctx, deck.ID); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	cliLogger().Debug("deck deleted", "deck", deck.ID)
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Deleted deck %s", deck.Name))
}

func runDeckClearCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, args[0])
	if err != nil {
		return err
	}
	n, err := st.ClearWords(ctx, deck.ID)
	if err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}
	msg := fmt.Sprintf("Removed %d word(s) from %s", n, deck.Name)
	if deckClearHistory {
		r, err := st.ClearRecords(ctx, deck.ID, "")
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		msg += fmt.Sprintf(" and %d session(s) of history", r)
	}
	return writeOut(cmd.OutOrStdout(), msg)
}

func newWordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Manage the words of a deck",
	}
	cmd.PersistentFlags().StringVar(&wordDeck, "deck", "", "deck name (default: "+defaultDeck+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List words with the user's error counts",
		Args:  cobra.NoArgs,
		RunE:  runWordListCmd,
	}
	listCmd.Flags().StringVar(&wordUser, "user", "", "user whose errors are shown (default: "+defaultUser+")")
	cmd.AddCommand(listCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "add PROMPT ANSWER[,ANSWER...]",
		Short: "Add a word with one or more accepted answers",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runWordAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: `Add words from a file of "prompt = answer, answer" lines`,
		Args:  cobra.ExactArgs(1),
		RunE:  runWordImportCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm PROMPT",
		Short: "Remove words by prompt",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordRmCmd,
	})
	return cmd
}

func runWordListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, wordDeck)
	if err != nil {
		return err
	}
	user, err := resolveUser(ctx, st, wordUser)
	if err != nil {
		return err
	}
	words, err := st.ListWords(ctx, deck.ID)
	if err != nil {
		return fmt.Errorf("failed to list words: %w", err)
	}
	if len(words) == 0 {
		return writeOut(cmd.OutOrStdout(), fmt.Sprintf("No words in %s. Add one with: tuivoc word add PROMPT ANSWER", deck.Name))
	}
	rows := make([][]string, 0, len(words))
	for _, w := range words {
		rows = append(rows, []string{w.Prompt, wordlist.FormatAnswers(w.Answers), strconv.Itoa(w.ErrorsByUser[user.ID])})
	}
	return stats.RenderTable(cmd.OutOrStdout(), []string{"Prompt", "Answers", "Errors"}, rows, map[int]bool{2: true})
}

func runWordAddCmd(cmd *cobra.Command, args []string) error {
	answers := wordlist.ParseAnswers(strings.Join(args[1:], ","))
	if len(answers) == 0 {
		return fmt.Errorf("at least one non-empty answer is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, wordDeck)
	if err != nil {
		return err
	}
	w, err := st.AddWord(ctx, deck.ID, args[0], answers)
	if err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Added %s = %s to %s", w.Prompt, wordlist.FormatAnswers(w.Answers), deck.Name))
}

func runWordImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open word file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, wordDeck)
	if err != nil {
		return err
	}
	n, err := importWords(ctx, st, deck.ID, f)
	if err != nil {
		return err
	}
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Imported %d word(s) into %s", n, deck.Name))
}

// importWords adds every "prompt = answers" line of r. Blank lines and lines
// starting with # are skipped.
func importWords(ctx context.Context, st *store.Store, deckID string, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompt, answers, err := wordlist.ParseEntry(line)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, err := st.AddWord(ctx, deckID, prompt, answers); err != nil {
			return added, fmt.Errorf("line %d: failed to add word: %w", lineNo, err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("failed to read word file: %w", err)
	}
	return added, nil
}

func runWordRmCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	deck, err := resolveDeck(ctx, st, wordDeck)
	if err != nil {
		return err
	}
	n, err := removeWordsByPrompt(ctx, st, deck.ID, args[0])
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no word %q in %s", args[0], deck.Name)
	}
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Removed %d word(s) from %s", n, deck.Name))
}

func removeWordsByPrompt(ctx context.Context, st *store.Store, deckID, prompt string) (int, error) {
	words, err := st.ListWords(ctx, deckID)
	if err != nil {
		return 0, fmt.Errorf("failed to list words: %w", err)
	}
	prompt = strings.TrimSpace(prompt)
	removed := 0
	for _, w := range words {
		if w.Prompt != prompt {
			continue
		}
		if err := st.DeleteWord(ctx, w.ID); err != nil {
			return removed, fmt.Errorf("failed to delete word: %w", err)
		}
		removed++
	}
	return removed, nil
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE:  runUserListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a user with their error counts and history",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserRmCmd,
	})
	return cmd
}

func runUserListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	users, err := st.ListUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return writeOut(cmd.OutOrStdout(), "No users yet. Create one with: tuivoc user add NAME")
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Name, u.CreatedAt.Local().Format("2006-01-02")})
	}
	return stats.RenderTable(cmd.OutOrStdout(), []string{"User", "Created"}, rows, nil)
}

func runUserAddCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := st.CreateUser(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNameExists) {
		return fmt.Errorf("user %q already exists", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Created user %s", user.Name))
}

func runUserRmCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	user, err := resolveUser(ctx, st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	cliLogger().Debug("user deleted", "user", user.ID)
	return writeOut(cmd.OutOrStdout(), fmt.Sprintf("Deleted user %s", user.Name))
}

func writeOut(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
