package tasks

import "fmt"

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveIdentity Phase = iota
	ParseListing
	SearchTracks
	CreatePlaylist
	AddTracks
	Publish
	EntryDone
)

func (p Phase) String() string {
	switch p {
	case ResolveIdentity:
		return "resolve_identity"
	case ParseListing:
		return "parse_listing"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case Publish:
		return "publish"
	case EntryDone:
		return "entry_done"
	default:
		return ""
	}
}

func resolveIdentityUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveIdentity,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving playlist for %q...", title),
	}
}

func parseListingUpdate(step, total, queries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Parsed %d listing lines", queries),
	}
}

func searchTracksUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching: %s", query),
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func addTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}

func publishUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Publishing %q...", name),
	}
}

func entryDoneUpdate(step, total int, result EntryResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EntryDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: %s", result.Title, result.State),
		Data:    result,
	}
}
