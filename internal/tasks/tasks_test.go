package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/services"
	"github.com/desertthunder/mixsync/internal/shared"
)

type updateCall struct {
	playlistID string
	details    services.PlaylistDetails
}

// mockCatalog is a stateful test double: created playlists join the snapshot
// and publish calls flip their visibility, so repeated runs observe the
// previous run's terminal state.
type mockCatalog struct {
	userID        string
	userErr       error
	playlists     []services.PlaylistRecord
	playlistsErr  error
	searchResults map[string][]services.TrackResult
	searchErr     error
	createErr     error
	updateErr     error
	addErr        error

	searchCalls []string
	createCalls int
	addCalls    [][]string
	updateCalls []updateCall
}

func (m *mockCatalog) CurrentUser(ctx context.Context) (string, error) {
	if m.userErr != nil {
		return "", m.userErr
	}
	if m.userID == "" {
		return "user1", nil
	}
	return m.userID, nil
}

func (m *mockCatalog) Playlists(ctx context.Context) ([]services.PlaylistRecord, error) {
	if m.playlistsErr != nil {
		return nil, m.playlistsErr
	}
	snapshot := make([]services.PlaylistRecord, len(m.playlists))
	copy(snapshot, m.playlists)
	return snapshot, nil
}

func (m *mockCatalog) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*services.PlaylistRecord, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	record := services.PlaylistRecord{
		ID:     fmt.Sprintf("pl-%d", m.createCalls),
		Name:   name,
		Public: &public,
	}
	m.playlists = append(m.playlists, record)
	return &record, nil
}

func (m *mockCatalog) UpdatePlaylistDetails(ctx context.Context, playlistID string, details services.PlaylistDetails) error {
	m.updateCalls = append(m.updateCalls, updateCall{playlistID: playlistID, details: details})
	if m.updateErr != nil {
		return m.updateErr
	}
	if details.Public != nil {
		for i := range m.playlists {
			if m.playlists[i].ID == playlistID {
				public := *details.Public
				m.playlists[i].Public = &public
			}
		}
	}
	return nil
}

func (m *mockCatalog) SearchTrack(ctx context.Context, query string) ([]services.TrackResult, error) {
	m.searchCalls = append(m.searchCalls, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults[query], nil
}

func (m *mockCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.addCalls = append(m.addCalls, trackIDs)
	return m.addErr
}

func drainProgress(ch chan ProgressUpdate) {
	go func() {
		for range ch {
			// Drain progress channel
		}
	}()
}

const twoLineListing = "intro text\n1 A -- X (2000)\n2 B -- Y (2001)\noutro"

func TestReconcileEngine_Run_CreatePath(t *testing.T) {
	catalog := &mockCatalog{
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1", Name: "X"}},
			"B Y": {{ID: "t2", Name: "Y"}},
		},
	}
	engine := NewReconcileEngine(catalog, nil)

	progressCh := make(chan ProgressUpdate, 100)
	drainProgress(progressCh)

	entries := []feed.Entry{{Title: "Show 2020-01-01", Description: twoLineListing}}
	result, err := engine.Run(context.Background(), entries, progressCh)
	close(progressCh)

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if catalog.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", catalog.createCalls)
	}
	if len(catalog.searchCalls) != 2 || catalog.searchCalls[0] != "A X" || catalog.searchCalls[1] != "B Y" {
		t.Errorf("search calls = %v, want [A X, B Y] in order", catalog.searchCalls)
	}
	if len(catalog.addCalls) != 1 {
		t.Fatalf("add calls = %d, want 1", len(catalog.addCalls))
	}
	if len(catalog.addCalls[0]) != 2 || catalog.addCalls[0][0] != "t1" || catalog.addCalls[0][1] != "t2" {
		t.Errorf("added ids = %v, want [t1 t2]", catalog.addCalls[0])
	}

	// Creation sends no description; the only update is the publish.
	if len(catalog.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want 1 (publish only)", len(catalog.updateCalls))
	}
	publish := catalog.updateCalls[0]
	if publish.details.Public == nil || !*publish.details.Public {
		t.Error("publish call should set public = true")
	}
	if publish.details.Description != nil {
		t.Error("publish call should not carry a description")
	}

	entry := result.Entries[0]
	if entry.State != StatePublished {
		t.Errorf("entry state = %v, want published", entry.State)
	}
	if entry.QueryCount != 2 || entry.ResolvedCount != 2 {
		t.Errorf("entry counts = %d/%d, want 2/2", entry.ResolvedCount, entry.QueryCount)
	}
	if result.Published != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("run counts = %d/%d/%d", result.Published, result.Skipped, result.Failed)
	}
}

func TestReconcileEngine_Run_Idempotent(t *testing.T) {
	catalog := &mockCatalog{
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1"}},
			"B Y": {{ID: "t2"}},
		},
	}
	engine := NewReconcileEngine(catalog, nil)
	entries := []feed.Entry{{Title: "Show 2020-01-01", Description: twoLineListing}}

	if _, err := engine.Run(context.Background(), entries, nil); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	searchesAfterFirst := len(catalog.searchCalls)
	addsAfterFirst := len(catalog.addCalls)

	result, err := engine.Run(context.Background(), entries, nil)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if len(catalog.searchCalls) != searchesAfterFirst {
		t.Errorf("second run issued %d extra searches", len(catalog.searchCalls)-searchesAfterFirst)
	}
	if len(catalog.addCalls) != addsAfterFirst {
		t.Errorf("second run issued %d extra add calls", len(catalog.addCalls)-addsAfterFirst)
	}
	if result.Entries[0].State != StateSkipped {
		t.Errorf("second run entry state = %v, want skipped", result.Entries[0].State)
	}
	if result.Entries[0].Decision != DecisionSkipPublic {
		t.Errorf("second run decision = %v, want skip_public", result.Entries[0].Decision)
	}
}

func TestReconcileEngine_Run_SkipAlreadyPublic(t *testing.T) {
	public := true
	catalog := &mockCatalog{
		playlists: []services.PlaylistRecord{{ID: "p1", Name: "X", Public: &public}},
	}
	engine := NewReconcileEngine(catalog, nil)

	result, err := engine.Run(context.Background(), []feed.Entry{{Title: "X", Description: "1 A -- B (2000)"}}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(catalog.updateCalls) != 0 {
		t.Errorf("skip path issued %d update calls, want 0", len(catalog.updateCalls))
	}
	if len(catalog.searchCalls) != 0 {
		t.Errorf("skip path issued %d searches, want 0", len(catalog.searchCalls))
	}
	if result.Entries[0].State != StateSkipped {
		t.Errorf("entry state = %v, want skipped", result.Entries[0].State)
	}
	if result.Entries[0].QueryCount != 0 {
		t.Error("skip path should short-circuit before parsing")
	}
}

func TestReconcileEngine_Run_UseExisting(t *testing.T) {
	private := false
	catalog := &mockCatalog{
		playlists: []services.PlaylistRecord{{ID: "p1", Name: "X", Public: &private}},
	}
	engine := NewReconcileEngine(catalog, nil)

	entries := []feed.Entry{{Title: "X", GUID: "https://example.com/x", Description: ""}}
	result, err := engine.Run(context.Background(), entries, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if catalog.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", catalog.createCalls)
	}
	// Exactly one description sync (with the derived text) plus the publish.
	if len(catalog.updateCalls) != 2 {
		t.Fatalf("update calls = %d, want 2", len(catalog.updateCalls))
	}
	sync := catalog.updateCalls[0]
	if sync.playlistID != "p1" {
		t.Errorf("description sync target = %q, want p1", sync.playlistID)
	}
	if sync.details.Description == nil || *sync.details.Description != "https://example.com/x" {
		t.Errorf("description sync payload = %v", sync.details.Description)
	}

	// Empty listing: the bulk add still happens and carries no ids.
	if len(catalog.addCalls) != 1 || len(catalog.addCalls[0]) != 0 {
		t.Errorf("add calls = %v, want one empty call", catalog.addCalls)
	}
	if result.Entries[0].State != StatePublished {
		t.Errorf("entry state = %v, want published", result.Entries[0].State)
	}
}

func TestReconcileEngine_Run_DescriptionSyncFailureIsNonFatal(t *testing.T) {
	private := false
	catalog := &mockCatalog{
		playlists: []services.PlaylistRecord{{ID: "p1", Name: "X", Public: &private}},
		updateErr: errors.New("boom"),
	}
	engine := NewReconcileEngine(catalog, nil)

	result, err := engine.Run(context.Background(), []feed.Entry{{Title: "X"}}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entry := result.Entries[0]
	// The publish update also fails here, so the entry ends Failed; the
	// description warning must still be recorded as non-fatal.
	if len(entry.Warnings) == 0 {
		t.Error("description sync failure should be recorded as a warning")
	}
	if entry.State != StateFailed {
		t.Errorf("entry state = %v, want failed (publish error)", entry.State)
	}
}

func TestReconcileEngine_Run_EntryFailureDoesNotStopRun(t *testing.T) {
	catalog := &mockCatalog{
		addErr: errors.New("add failed"),
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1"}},
		},
	}
	engine := NewReconcileEngine(catalog, nil)

	entries := []feed.Entry{
		{Title: "First", Description: "1 A -- X (2000)"},
		{Title: "Second", Description: "1 A -- X (2000)"},
	}
	result, err := engine.Run(context.Background(), entries, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Failed != 2 {
		t.Errorf("failed count = %d, want 2", result.Failed)
	}
	// Both entries were attempted: the first failure did not stop the loop.
	if catalog.createCalls != 2 {
		t.Errorf("create calls = %d, want 2", catalog.createCalls)
	}
	for _, entry := range result.Entries {
		if entry.State != StateFailed || entry.Err == nil {
			t.Errorf("entry %q state = %v err = %v", entry.Title, entry.State, entry.Err)
		}
	}
}

func TestReconcileEngine_Run_MissingTitleSkipped(t *testing.T) {
	catalog := &mockCatalog{}
	engine := NewReconcileEngine(catalog, nil)

	result, err := engine.Run(context.Background(), []feed.Entry{{Description: "1 A -- X (2000)"}}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("skipped count = %d, want 1", result.Skipped)
	}
	if len(result.Entries[0].Warnings) == 0 {
		t.Error("untitled entry should carry a diagnostic warning")
	}
	if catalog.createCalls != 0 || len(catalog.searchCalls) != 0 {
		t.Error("untitled entry should not touch the catalog")
	}
}

func TestReconcileEngine_Run_SearchFailureDropsQuery(t *testing.T) {
	catalog := &mockCatalog{
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1"}},
			// "B Y" has no results
		},
	}
	engine := NewReconcileEngine(catalog, nil)

	result, err := engine.Run(context.Background(), []feed.Entry{{Title: "Show", Description: twoLineListing}}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entry := result.Entries[0]
	if entry.State != StatePublished {
		t.Errorf("entry state = %v, want published", entry.State)
	}
	if entry.QueryCount != 2 || entry.ResolvedCount != 1 {
		t.Errorf("counts = %d/%d, want 1/2", entry.ResolvedCount, entry.QueryCount)
	}
	if len(catalog.addCalls) != 1 || len(catalog.addCalls[0]) != 1 {
		t.Errorf("add calls = %v, want one call with one id", catalog.addCalls)
	}
}

func TestReconcileEngine_Run_DryRun(t *testing.T) {
	catalog := &mockCatalog{
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1"}},
		},
	}
	engine := NewReconcileEngine(catalog, nil)
	engine.SetDryRun(true)

	result, err := engine.Run(context.Background(), []feed.Entry{{Title: "Show", Description: "1 A -- X (2000)"}}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if catalog.createCalls != 0 || len(catalog.updateCalls) != 0 || len(catalog.addCalls) != 0 {
		t.Error("dry run must not mutate the catalog")
	}
	if len(catalog.searchCalls) != 1 {
		t.Errorf("dry run should still search, got %d calls", len(catalog.searchCalls))
	}
	if result.Published != 0 {
		t.Errorf("dry run published count = %d, want 0", result.Published)
	}
}

func TestReconcileEngine_Run_AuthFailureIsFatal(t *testing.T) {
	catalog := &mockCatalog{userErr: errors.New("401")}
	engine := NewReconcileEngine(catalog, nil)

	_, err := engine.Run(context.Background(), []feed.Entry{{Title: "Show"}}, nil)
	if !errors.Is(err, shared.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestReconcileEngine_Run_NilCatalog(t *testing.T) {
	engine := NewReconcileEngine(nil, nil)

	_, err := engine.Run(context.Background(), nil, nil)
	if !errors.Is(err, shared.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestReconcileEngine_ProgressNonBlocking(t *testing.T) {
	catalog := &mockCatalog{
		searchResults: map[string][]services.TrackResult{
			"A X": {{ID: "t1"}},
		},
	}
	engine := NewReconcileEngine(catalog, nil)

	// Unbuffered channel with no consumer: sends must not block.
	progressCh := make(chan ProgressUpdate)

	done := make(chan bool)
	go func() {
		_, err := engine.Run(context.Background(), []feed.Entry{{Title: "Show", Description: "1 A -- X (2000)"}}, progressCh)
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
		done <- true
	}()

	<-done
}
