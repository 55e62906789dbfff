// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mixsync/internal/services"
)

// MockCatalog is a stub [services.Catalog] returning fixed values.
type MockCatalog struct {
	UserID    string
	Records   []services.PlaylistRecord
	Tracks    []services.TrackResult
	FailureAt string // operation name that should fail, empty for none
}

func (m *MockCatalog) fail(op string) error {
	if m.FailureAt == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (string, error) {
	if err := m.fail("CurrentUser"); err != nil {
		return "", err
	}
	if m.UserID == "" {
		return "mock-user", nil
	}
	return m.UserID, nil
}

func (m *MockCatalog) Playlists(ctx context.Context) ([]services.PlaylistRecord, error) {
	if err := m.fail("Playlists"); err != nil {
		return nil, err
	}
	return m.Records, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*services.PlaylistRecord, error) {
	if err := m.fail("CreatePlaylist"); err != nil {
		return nil, err
	}
	return &services.PlaylistRecord{ID: "mock-playlist", Name: name, Public: &public}, nil
}

func (m *MockCatalog) UpdatePlaylistDetails(ctx context.Context, playlistID string, details services.PlaylistDetails) error {
	return m.fail("UpdatePlaylistDetails")
}

func (m *MockCatalog) SearchTrack(ctx context.Context, query string) ([]services.TrackResult, error) {
	if err := m.fail("SearchTrack"); err != nil {
		return nil, err
	}
	return m.Tracks, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return m.fail("AddTracks")
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
