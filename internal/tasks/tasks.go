// package tasks implements the feed-to-playlist reconciliation engine.
//
// The core abstraction is SyncEngine, which drives one full run over an
// ordered sequence of feed entries. Entries are processed strictly one at a
// time; within an entry, track queries resolve in listing order. Operations
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/services"
	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/desertthunder/mixsync/internal/tracklist"
)

// EntryState tags the reconciliation state machine for one feed entry.
//
// Published is terminal: a later run short-circuits at identity resolution
// because the playlist's public flag marks the entry as done.
type EntryState int

const (
	StatePending EntryState = iota
	StateSkipped
	StateCreated
	StateExistingPrivate
	StatePopulated
	StatePublished
	StateFailed
)

func (s EntryState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSkipped:
		return "skipped"
	case StateCreated:
		return "created"
	case StateExistingPrivate:
		return "existing_private"
	case StatePopulated:
		return "populated"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// EntryResult records the outcome of reconciling one feed entry.
type EntryResult struct {
	Title         string     // Feed entry title (playlist identity key)
	State         EntryState // Final state reached
	Decision      Decision   // Identity resolution outcome
	PlaylistID    string     // Target playlist, empty when skipped before resolution
	QueryCount    int        // Listing lines parsed from the description
	ResolvedCount int        // Queries that resolved to a catalog track
	Warnings      []string   // Non-fatal problems (e.g. description sync failure)
	Err           error      // Entry-fatal error, nil unless State == StateFailed
}

// SyncRunResult is the structured summary of a full reconciliation run.
type SyncRunResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Entries    []EntryResult
	Published  int
	Skipped    int
	Failed     int
}

// SyncEngine defines the reconciliation run operation.
type SyncEngine interface {
	// Run reconciles each feed entry against the playlist catalog in order.
	// Entry failures are recorded and do not stop the run; only auth-level
	// failures abort it.
	Run(ctx context.Context, entries []feed.Entry, progress chan<- ProgressUpdate) (*SyncRunResult, error)
}

// ReconcileEngine implements SyncEngine against a [services.Catalog].
type ReconcileEngine struct {
	catalog services.Catalog
	logger  *log.Logger
	dryRun  bool
}

var _ SyncEngine = (*ReconcileEngine)(nil)

// NewReconcileEngine creates an engine bound to the given catalog.
func NewReconcileEngine(catalog services.Catalog, logger *log.Logger) *ReconcileEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ReconcileEngine{catalog: catalog, logger: logger}
}

// SetDryRun toggles mutation-free mode: identity resolution, parsing, and
// search still run, but no playlist is created, updated, or published.
func (e *ReconcileEngine) SetDryRun(on bool) {
	e.dryRun = on
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ReconcileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run reconciles the ordered entries one at a time.
func (e *ReconcileEngine) Run(ctx context.Context, entries []feed.Entry, progress chan<- ProgressUpdate) (*SyncRunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	userID, err := e.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	result := &SyncRunResult{
		RunID:     shared.GenerateID(),
		StartedAt: time.Now(),
		Entries:   make([]EntryResult, 0, len(entries)),
	}

	total := len(entries)
	for i, entry := range entries {
		res := e.reconcileEntry(ctx, userID, entry, i+1, total, progress)

		switch res.State {
		case StatePublished:
			result.Published++
		case StateSkipped:
			result.Skipped++
		case StateFailed:
			result.Failed++
			e.logger.Error("entry failed", "title", res.Title, "error", res.Err)
		}

		result.Entries = append(result.Entries, res)
		e.sendProgress(progress, entryDoneUpdate(i+1, total, res))
	}

	result.FinishedAt = time.Now()
	return result, nil
}

// reconcileEntry walks one entry through the state machine:
// Pending -> {Skipped | Created|ExistingPrivate -> Populated -> Published | Failed}.
func (e *ReconcileEngine) reconcileEntry(ctx context.Context, userID string, entry feed.Entry, step, total int, progress chan<- ProgressUpdate) EntryResult {
	res := EntryResult{Title: entry.Title, State: StatePending}

	if entry.Title == "" {
		res.State = StateSkipped
		res.Warnings = append(res.Warnings, "entry has no title")
		e.logger.Warn("skipping untitled entry")
		return res
	}

	d := NewDescriptor(entry)

	e.sendProgress(progress, resolveIdentityUpdate(step, total, d.DisplayTitle))

	// The snapshot is re-fetched per entry; a concurrent external change
	// between entries is accepted rather than mitigated.
	snapshot, err := e.catalog.Playlists(ctx)
	if err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("%w: listing playlists: %v", shared.ErrAPIRequest, err)
		return res
	}

	decision, playlistID := matchPlaylist(snapshot, d)
	res.Decision = decision

	switch decision {
	case DecisionSkipPublic:
		// Already synchronized by an earlier run; no parsing or search.
		res.State = StateSkipped
		res.PlaylistID = playlistID
		e.logger.Info("playlist already public, skipping", "title", d.DisplayTitle)
		return res

	case DecisionUseExisting:
		res.State = StateExistingPrivate
		res.PlaylistID = playlistID
		if !e.dryRun {
			// Description sync failure is reported but does not abort the entry.
			details := services.PlaylistDetails{Description: &d.DescriptionText}
			if err := e.catalog.UpdatePlaylistDetails(ctx, playlistID, details); err != nil {
				warning := fmt.Sprintf("description sync failed: %v", err)
				res.Warnings = append(res.Warnings, warning)
				e.logger.Warn("description sync failed", "title", d.DisplayTitle, "error", err)
			}
		}

	case DecisionCreate:
		e.sendProgress(progress, createPlaylistUpdate(step, total, d.DisplayTitle))
		res.State = StateCreated
		if !e.dryRun {
			created, err := e.catalog.CreatePlaylist(ctx, userID, d.DisplayTitle, false)
			if err != nil {
				res.State = StateFailed
				res.Err = fmt.Errorf("%w: creating playlist: %v", shared.ErrAPIRequest, err)
				return res
			}
			res.PlaylistID = created.ID
		}
	}

	queries := tracklist.Parse(entry.Description)
	res.QueryCount = len(queries)
	e.sendProgress(progress, parseListingUpdate(step, total, len(queries)))

	trackIDs := e.resolveTracks(ctx, queries, progress)
	res.ResolvedCount = len(trackIDs)

	if e.dryRun {
		res.Warnings = append(res.Warnings, "dry run: no tracks added, playlist not published")
		return res
	}

	e.sendProgress(progress, addTracksUpdate(step, total, len(trackIDs)))
	if err := e.catalog.AddTracks(ctx, res.PlaylistID, trackIDs); err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("%w: adding tracks: %v", shared.ErrAPIRequest, err)
		return res
	}
	res.State = StatePopulated

	e.sendProgress(progress, publishUpdate(step, total, d.DisplayTitle))
	public := true
	if err := e.catalog.UpdatePlaylistDetails(ctx, res.PlaylistID, services.PlaylistDetails{Public: &public}); err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("%w: publishing playlist: %v", shared.ErrAPIRequest, err)
		return res
	}
	res.State = StatePublished

	return res
}

// resolveTracks maps queries to catalog track ids in listing order.
//
// A failed or empty search drops the query; duplicates are preserved.
func (e *ReconcileEngine) resolveTracks(ctx context.Context, queries []tracklist.TrackQuery, progress chan<- ProgressUpdate) []string {
	var trackIDs []string

	total := len(queries)
	for i, q := range queries {
		e.sendProgress(progress, searchTracksUpdate(i+1, total, q.Query()))

		results, err := e.catalog.SearchTrack(ctx, q.Query())
		if err != nil {
			e.logger.Debug("search failed, dropping query", "query", q.Query(), "error", err)
			continue
		}
		if len(results) == 0 {
			e.logger.Debug("no match for query", "query", q.Query())
			continue
		}

		trackIDs = append(trackIDs, results[0].ID)
	}

	return trackIDs
}
