package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/wallet"
)

func (r *runner) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <flashcard-id> <in-progress|learned|hidden>",
		Short: "Change the study status of a walleted flashcard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			userID, err := app.Config.RequireUser()
			if err != nil {
				return err
			}

			result, err := app.Wallet.Transition(cmd.Context(), userID, id, status)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), id, result)
			return nil
		},
	}
}

func printResult(out io.Writer, id int64, result wallet.Result) {
	if !result.Changed {
		fmt.Fprintf(out, "Flashcard %d is already %s\n", id, result.Status)
		return
	}
	fmt.Fprintf(out, "Flashcard %d is now %s\n", id, result.Status)
	if result.Message != "" {
		fmt.Fprintf(out, "Server: %s\n", result.Message)
	}
	if result.SentenceGenerated {
		fmt.Fprintln(out, "An example sentence was generated for this card.")
	}
}

func (r *runner) walletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the flashcards in your wallet",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <flashcard-id>",
		Short: "Add a flashcard to the wallet as in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withCard(cmd, args[0], func(app *App, userID, id int64) error {
				if err := app.Wallet.AddToWallet(cmd.Context(), userID, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added flashcard %d to your wallet\n", id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <flashcard-id>",
		Short: "Remove a flashcard from the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withCard(cmd, args[0], func(app *App, userID, id int64) error {
				if err := app.Wallet.Remove(cmd.Context(), userID, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed flashcard %d from your wallet\n", id)
				return nil
			})
		},
	})

	var statusFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the flashcards in the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseStatusFilter(statusFilter)
			if err != nil {
				return err
			}
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			userID, err := app.Config.RequireUser()
			if err != nil {
				return err
			}

			cards, err := app.Wallet.Hydrate(cmd.Context(), userID, filter)
			if err != nil {
				return err
			}
			printWallet(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	list.Flags().StringVar(&statusFilter, "status", "", "Only list cards with this status")
	cmd.AddCommand(list)

	return cmd
}

func (r *runner) withCard(cmd *cobra.Command, arg string, fn func(app *App, userID, id int64) error) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	app, err := r.application(cmd)
	if err != nil {
		return err
	}
	userID, err := app.Config.RequireUser()
	if err != nil {
		return err
	}
	return fn(app, userID, id)
}

func parseStatusFilter(text string) (*models.Status, error) {
	if text == "" {
		return nil, nil
	}
	status, err := models.ParseStatus(text)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func printWallet(out io.Writer, cards []api.WalletCard) {
	if len(cards) == 0 {
		fmt.Fprintln(out, "Your wallet is empty")
		return
	}
	for _, c := range cards {
		fmt.Fprintf(out, "%6d  %-11s  %s\n", c.ID, c.Status, c.Word)
	}
	fmt.Fprintf(out, "\n%d flashcards\n", len(cards))
}
