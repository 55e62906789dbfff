package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixsync/internal/formatter"
	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/desertthunder/mixsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun fetches the feed and reconciles every entry against Spotify.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	dryRun := cmd.Bool("dry-run")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	reportPath := cmd.String("report")
	reportFormat := cmd.String("format")

	if err := r.ensureAuthed(ctx); err != nil {
		return err
	}

	feedURL := r.config.Feed.URL
	if feedURL == "" {
		return fmt.Errorf("%w: no feed url configured", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching feed", "url", feedURL)
	entries, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	if dryRun {
		r.writePlain("Dry run: no playlists will be created or modified.\n")
	}
	r.writePlain("Syncing %d feed entries...\n\n", len(entries))

	r.engine.SetDryRun(dryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := r.streamProgress(progressCh)

	result, err := r.engine.Run(ctx, entries, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if reportPath != "" {
		if err := formatter.WriteReport(result, reportFormat, reportPath); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n\n", reportPath)
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainHeader("Sync Complete")
	r.writePlain("Entries: %d\n", len(result.Entries))
	r.writePlain("Published: %d\n", result.Published)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Failed: %d\n", result.Failed)

	if result.Failed > 0 {
		r.writePlain("\nFailed entries:\n")
		for _, res := range result.Entries {
			if res.Err != nil {
				r.writePlain("  - %s: %v\n", res.Title, res.Err)
			}
		}
	}

	return nil
}

// streamProgress prints engine progress updates until the channel closes.
// The returned channel is closed once the last update has been written, so
// callers can join before printing the summary to the same writer.
func (r *Runner) streamProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for update := range progress {
			switch update.Phase {
			case tasks.ResolveIdentity:
				r.writePlain("→ %s\n", update.Message)
			case tasks.ParseListing, tasks.CreatePlaylist, tasks.AddTracks, tasks.Publish:
				r.writePlain("  %s\n", update.Message)
			case tasks.EntryDone:
				if res, ok := update.Data.(tasks.EntryResult); ok {
					r.writePlain("  [%s]\n\n", res.State)
				}
			}
		}
	}()

	return drained
}
