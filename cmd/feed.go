package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/desertthunder/mixsync/internal/tracklist"
	"github.com/urfave/cli/v3"
)

// FeedShow fetches the configured feed and previews its entries with parsed
// track counts so queries can be inspected before a sync.
func (r *Runner) FeedShow(ctx context.Context, cmd *cli.Command) error {
	feedURL := cmd.String("url")
	if feedURL == "" {
		feedURL = r.config.Feed.URL
	}
	if feedURL == "" {
		return fmt.Errorf("%w: no feed url configured", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	showTracks := cmd.Bool("tracks")

	r.logger.Info("fetching feed", "url", feedURL)

	entries, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	if useJSON {
		type entryPreview struct {
			Title       string   `json:"title"`
			GUID        string   `json:"guid,omitempty"`
			PublishedAt string   `json:"published_at,omitempty"`
			Queries     []string `json:"queries"`
		}
		previews := make([]entryPreview, 0, len(entries))
		for _, entry := range entries {
			p := entryPreview{Title: entry.Title, GUID: entry.GUID, Queries: []string{}}
			if entry.PublishedAt != nil {
				p.PublishedAt = entry.PublishedAt.Format(time.RFC3339)
			}
			for _, q := range tracklist.Parse(entry.Description) {
				p.Queries = append(p.Queries, q.Query())
			}
			previews = append(previews, p)
		}
		return r.writeJSON(previews, pretty)
	}

	r.writePlain("Found %d entries:\n\n", len(entries))
	for i, entry := range entries {
		queries := tracklist.Parse(entry.Description)
		r.writePlain("%d. %s\n", i+1, entry.Title)
		if entry.PublishedAt != nil {
			r.writePlain("   Published: %s\n", entry.PublishedAt.Format(time.RFC1123))
		}
		r.writePlain("   Tracks: %d\n", len(queries))
		if showTracks {
			for j, q := range queries {
				r.writePlain("   %d. %s - %s\n", j+1, q.Artist, q.Title)
			}
		}
		r.writePlain("\n")
	}

	return nil
}
