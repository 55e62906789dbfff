// Package feed retrieves and normalizes the mixtape RSS feed.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/mmcdole/gofeed"
)

// Entry is one published mixtape, read-only and sourced once per run.
type Entry struct {
	Title       string
	Description string
	GUID        string
	PublishedAt *time.Time
}

// Fetcher wraps a [gofeed.Parser] for retrieving the feed over HTTP.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher creates a feed Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{parser: gofeed.NewParser()}
}

// Fetch retrieves and parses the feed at url, preserving item order.
//
// A fetch or parse failure is fatal to the whole run.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFeedUnavailable, err)
	}
	return normalize(parsed), nil
}

// ParseBytes parses raw feed data, preserving item order.
func (f *Fetcher) ParseBytes(data []byte) ([]Entry, error) {
	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFeedUnavailable, err)
	}
	return normalize(parsed), nil
}

func normalize(parsed *gofeed.Feed) []Entry {
	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := Entry{
			Title:       item.Title,
			Description: item.Description,
			GUID:        coalesce(item.GUID, item.Link),
			PublishedAt: item.PublishedParsed,
		}
		entries = append(entries, entry)
	}
	return entries
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
