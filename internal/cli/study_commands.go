package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/search"
	"codeberg.org/snonux/flashdeck/internal/study"
	"codeberg.org/snonux/flashdeck/internal/wallet"
)

func (r *runner) searchCommand() *cobra.Command {
	var topicID int64

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the flashcards visible to you by word or definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.application(cmd)
			if err != nil {
				return err
			}

			pool, err := app.Client.ListFlashcards(cmd.Context(), topicID)
			if err != nil {
				return fmt.Errorf("failed to load flashcards: %w", err)
			}

			filter := search.NewFilter(app.Config.UserID)
			filter.SetPool(pool)
			filter.SetQuery(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if len([]rune(strings.TrimSpace(filter.Query()))) < search.MinQueryLength {
				fmt.Fprintf(out, "Query must be at least %d characters\n", search.MinQueryLength)
				return nil
			}

			results := filter.Results()
			if len(results) == 0 {
				fmt.Fprintln(out, "No matching flashcards")
				return nil
			}
			for _, c := range results {
				fmt.Fprintf(out, "%6d  %s: %s\n", c.ID, c.Word, c.Definition)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "Search only this topic (default: all)")
	return cmd
}

func (r *runner) studyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Step through a deck of flashcards interactively",
		Long: `Step through a deck of flashcards interactively.

The deck is a topic (--topic), your wallet (--wallet, optionally with
--status) or the results of --search. It starts at --start if that card
is in the deck, otherwise at a random card.

Commands (Latin or Cyrillic layout):
  n / н   next card          b / б   previous card
  p / п   play pronunciation
  l / л   mark learned       i / и   mark in progress
  h / х   hide card
  a / а   add to wallet      r / р   remove from wallet
  ?       help               q / ч   quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runStudy(cmd)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&r.flags.TopicID, "topic", 0, "Study the flashcards of a topic")
	f.BoolVar(&r.flags.Wallet, "wallet", false, "Study the flashcards in your wallet")
	f.StringVar(&r.flags.Status, "status", "", "With --wallet, only cards with this status")
	f.Int64Var(&r.flags.StartID, "start", 0, "Flashcard id to start at")
	f.StringVar(&r.flags.Query, "search", "", "Only study cards matching this query")
	f.BoolVar(&r.flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback (auto-play is enabled by default)")
	return cmd
}

func (r *runner) runStudy(cmd *cobra.Command) error {
	app, err := r.application(cmd)
	if err != nil {
		return err
	}
	userID, err := app.Config.RequireUser()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var pool []models.Flashcard
	if r.flags.Wallet {
		filter, err := parseStatusFilter(r.flags.Status)
		if err != nil {
			return err
		}
		cards, err := app.Wallet.Hydrate(ctx, userID, filter)
		if err != nil {
			return err
		}
		for _, c := range cards {
			pool = append(pool, c.Flashcard)
		}
	} else {
		pool, err = app.Client.ListFlashcards(ctx, r.flags.TopicID)
		if err != nil {
			return fmt.Errorf("failed to load flashcards: %w", err)
		}
		// Statuses are shown per card; a failure only hides them
		if _, err := app.Wallet.Hydrate(ctx, userID, nil); err != nil {
			app.Log.Warn(ctx, "wallet not loaded", "error", err)
		}
	}

	if r.flags.Query != "" {
		pool = search.Search(pool, userID, r.flags.Query)
	} else {
		visible := pool[:0:0]
		for _, c := range pool {
			if c.VisibleTo(userID) {
				visible = append(visible, c)
			}
		}
		pool = visible
	}

	if len(pool) == 0 {
		fmt.Fprintln(out, "No flashcards available")
		return nil
	}

	var startID *int64
	if r.flags.StartID != 0 {
		startID = &r.flags.StartID
	}
	d, err := deck.Load(pool, startID, nil)
	if err != nil {
		return err
	}

	autoPlay := app.Config.AutoPlay && !r.flags.NoAutoPlay
	session, err := study.NewSession(d, userID, app.Coordinator, app.Player, app.Wallet,
		study.Options{AutoPlay: autoPlay, Log: app.Log})
	if err != nil {
		return err
	}
	defer app.Player.Stop()

	fmt.Fprintf(out, "Studying %d flashcards. Type ? for help.\n", d.Len())
	showCard(out, session)
	if err := session.Start(ctx); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	return studyLoop(cmd, session, cmd.InOrStdin(), out)
}

func studyLoop(cmd *cobra.Command, session *study.Session, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch action(scanner.Text()) {
		case "next":
			_, err = session.Next(ctx)
			showCard(out, session)
		case "prev":
			_, err = session.Prev(ctx)
			showCard(out, session)
		case "play":
			err = session.Play(ctx)
		case "learned":
			err = mark(ctx, out, session, models.Learned)
		case "in-progress":
			err = mark(ctx, out, session, models.InProgress)
		case "hidden":
			err = mark(ctx, out, session, models.Hidden)
		case "add":
			if err = session.AddCurrent(ctx); err == nil {
				fmt.Fprintln(out, "Added to your wallet")
			}
		case "remove":
			if err = session.RemoveCurrent(ctx); err == nil {
				fmt.Fprintln(out, "Removed from your wallet")
			}
		case "help":
			fmt.Fprintln(out, cmd.Long)
		case "quit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(out, "Unknown command. Type ? for help.")
		}

		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", describe(err))
		}
	}
}

// action maps a typed line onto a study action. Cyrillic keys sit where
// their Latin counterparts are on a phonetic layout.
func action(line string) string {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "n", "н", "next":
		return "next"
	case "b", "б", "prev":
		return "prev"
	case "p", "п", "play":
		return "play"
	case "l", "л":
		return "learned"
	case "i", "и":
		return "in-progress"
	case "h", "х":
		return "hidden"
	case "a", "а":
		return "add"
	case "r", "р":
		return "remove"
	case "?", "help":
		return "help"
	case "q", "ч", "quit", "exit":
		return "quit"
	case "":
		return ""
	}
	return "unknown"
}

func mark(ctx context.Context, out io.Writer, session *study.Session, status models.Status) error {
	result, err := session.Mark(ctx, status)
	if err != nil {
		return err
	}
	printResult(out, session.Current().ID, result)
	return nil
}

func showCard(out io.Writer, session *study.Session) {
	card := session.Current()
	pos, total := session.Position()

	state := "not in wallet"
	if s, ok := session.Status(); ok {
		state = s.String()
	}

	fmt.Fprintf(out, "\n[%d/%d] %s", pos, total, card.Word)
	if card.Phonetic != "" {
		fmt.Fprintf(out, " [%s]", card.Phonetic)
	}
	fmt.Fprintf(out, "  (%s)\n", state)
	if card.Definition != "" {
		fmt.Fprintf(out, "  %s\n", card.Definition)
	}
	if card.Example != "" {
		fmt.Fprintf(out, "  e.g. %s\n", card.Example)
	}
	if len(card.Synonyms) > 0 {
		fmt.Fprintf(out, "  synonyms: %s\n", strings.Join(card.Synonyms, ", "))
	}
}

// describe turns wallet errors into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, wallet.ErrAlreadyWalleted):
		return "this card is already in your wallet"
	case errors.Is(err, wallet.ErrNotFound):
		return "this card is not in your wallet"
	default:
		return err.Error()
	}
}
