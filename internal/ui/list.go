package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixsync/internal/feed"
)

var _ list.Item = entryItem{}

// entryItem wraps a [feed.Entry] plus its parsed track count to implement [list.Item].
type entryItem struct {
	entry      feed.Entry
	queryCount int
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.queryCount)
	if i.entry.PublishedAt != nil {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.PublishedAt.Format(time.DateOnly))
	}
	return desc
}
