// package services defines the catalog boundary consumed by the
// reconciliation engine, and its Spotify implementation.
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Catalog defines the playlist catalog operations the engine depends on.
// All mutating calls require prior authentication.
type Catalog interface {
	// CurrentUser returns the authenticated user's catalog id.
	CurrentUser(ctx context.Context) (string, error)

	// Playlists retrieves all of the current user's playlists, paginating
	// until the catalog reports no further pages.
	Playlists(ctx context.Context) ([]PlaylistRecord, error)

	// CreatePlaylist creates a playlist owned by userID with the given name
	// and visibility. No description is set at creation.
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (*PlaylistRecord, error)

	// UpdatePlaylistDetails changes playlist metadata. Nil fields are left
	// untouched.
	UpdatePlaylistDetails(ctx context.Context, playlistID string, details PlaylistDetails) error

	// SearchTrack runs a track search and returns the first result page in
	// ranked order. An empty slice is not an error.
	SearchTrack(ctx context.Context, query string) ([]TrackResult, error)

	// AddTracks appends tracks to a playlist in the given order, duplicates
	// included. An empty id list is a valid no-op.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// OAuthService is the authentication surface consumed by the auth command and
// the local callback server.
type OAuthService interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// PlaylistRecord is a playlist as read from the catalog.
//
// Public is tri-state: the catalog omits the flag for some listings, in which
// case it is nil (unknown).
type PlaylistRecord struct {
	ID     string
	Name   string
	Public *bool
}

// IsPublic reports whether the record is known to be public.
func (p PlaylistRecord) IsPublic() bool {
	return p.Public != nil && *p.Public
}

// PlaylistDetails carries optional metadata fields for an update call.
type PlaylistDetails struct {
	Name          *string
	Public        *bool
	Description   *string
	Collaborative *bool
}

// TrackResult is one ranked search result.
type TrackResult struct {
	ID      string
	Name    string
	Artists []string
}
