package tasks

import (
	"time"

	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/services"
)

// Descriptor is the reconciled target state for one feed entry. DisplayTitle
// is the sole identity key against existing playlists.
type Descriptor struct {
	DisplayTitle    string
	DescriptionText string
}

// NewDescriptor derives the playlist descriptor from a feed entry.
//
// The description is a pure function of (GUID, PublishedAt): empty when both
// are absent, "Posted at {date}" when only a publish date exists, and the
// source URL otherwise. The URL takes precedence when both are present.
func NewDescriptor(entry feed.Entry) Descriptor {
	return Descriptor{
		DisplayTitle:    entry.Title,
		DescriptionText: deriveDescription(entry.GUID, entry.PublishedAt),
	}
}

func deriveDescription(sourceURL string, publishedAt *time.Time) string {
	switch {
	case sourceURL != "":
		return sourceURL
	case publishedAt != nil:
		return "Posted at " + publishedAt.Format(time.RFC1123)
	default:
		return ""
	}
}

// Decision is the outcome of identity resolution for one entry.
type Decision int

const (
	// DecisionCreate indicates no playlist matches the entry title.
	DecisionCreate Decision = iota
	// DecisionUseExisting indicates a non-public match whose metadata should
	// be synced before population.
	DecisionUseExisting
	// DecisionSkipPublic indicates the matched playlist is already public,
	// the terminal marker that the entry was fully synchronized earlier.
	DecisionSkipPublic
)

func (d Decision) String() string {
	switch d {
	case DecisionCreate:
		return "create"
	case DecisionUseExisting:
		return "use_existing"
	case DecisionSkipPublic:
		return "skip_public"
	default:
		return ""
	}
}

// matchPlaylist scans the snapshot for the first record whose name equals the
// descriptor's display title. Duplicate names are not deduplicated; first
// match wins.
func matchPlaylist(snapshot []services.PlaylistRecord, d Descriptor) (Decision, string) {
	for _, record := range snapshot {
		if record.Name != d.DisplayTitle {
			continue
		}
		if record.IsPublic() {
			return DecisionSkipPublic, record.ID
		}
		return DecisionUseExisting, record.ID
	}
	return DecisionCreate, ""
}
