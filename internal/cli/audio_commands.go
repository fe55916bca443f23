package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/flashdeck/internal/archive"
	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/batch"
)

// prefetchWorkers bounds concurrent clip downloads.
const prefetchWorkers = 4

func (r *runner) playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play <flashcard-id>...",
		Short: "Play flashcard pronunciations, fetching uncached clips once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			app, err := r.application(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintf(out, "Playing flashcard %d...\n", id)
				if err := app.Coordinator.PlayPronunciation(ctx, id); err != nil {
					return err
				}
				if err := app.Player.Wait(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (r *runner) prefetchCommand() *cobra.Command {
	var topicID int64
	var batchFile string

	cmd := &cobra.Command{
		Use:   "prefetch [flashcard-id]...",
		Short: "Download pronunciation clips into the cache without playing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if batchFile != "" {
				entries, err := batch.ReadBatchFile(batchFile)
				if err != nil {
					return err
				}
				ids = append(ids, batch.IDs(entries)...)
			}

			app, err := r.application(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cmd.Flags().Changed("topic") {
				cards, err := app.Client.ListFlashcards(ctx, topicID)
				if err != nil {
					return fmt.Errorf("failed to load topic %d: %w", topicID, err)
				}
				for _, c := range cards {
					ids = append(ids, c.ID)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("nothing to prefetch: pass flashcard ids, --topic or --batch")
			}

			return prefetch(cmd, app.Coordinator, ids)
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "Prefetch every flashcard of a topic")
	cmd.Flags().StringVar(&batchFile, "batch", "", "Prefetch flashcard ids from file (one per line)")
	return cmd
}

func prefetch(cmd *cobra.Command, coordinator *audio.Coordinator, ids []int64) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start := time.Now()

	var mu sync.Mutex
	var failed []int64

	var g errgroup.Group
	g.SetLimit(prefetchWorkers)
	for _, id := range ids {
		g.Go(func() error {
			if err := coordinator.Prefetch(ctx, id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: flashcard %d: %v\n", id, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	fmt.Fprintf(out, "Cached %d of %d clips in %s\n", len(ids)-len(failed), len(ids), elapsed(start))
	if len(failed) > 0 {
		return fmt.Errorf("%d clips could not be cached", len(failed))
	}
	return nil
}

func (r *runner) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the pronunciation cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			count, size, err := app.Cache.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s\nClips: %d\nSize:  %s\n", app.Cache.Root(), count, formatSize(size))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path [flashcard-id]",
		Short: "Print the cache root, or where a flashcard's clip is stored",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Cache.Root())
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cached, err := app.Cache.Exists(id)
			if err != nil {
				return err
			}
			state := "not cached"
			if cached {
				state = "cached"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", app.Cache.PathFor(id), state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "archive",
		Short: "Move all cached clips aside so they are fetched again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			archivedPath, err := archive.ArchiveDir(app.Cache.Root())
			if err != nil {
				return fmt.Errorf("failed to archive cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache archived to: %s\n", archivedPath)
			return nil
		},
	})

	return cmd
}

func (r *runner) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tts-models",
		Short: "List OpenAI speech models usable as the TTS fallback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return err
			}

			models, err := audio.ListSpeechModels(cmd.Context(), config.Audio)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available speech models:")
			for _, m := range models {
				marker := ""
				if m == config.Audio.OpenAIModel {
					marker = " (configured)"
				}
				fmt.Fprintf(out, "  - %s%s\n", m, marker)
			}
			return nil
		},
	}
}
