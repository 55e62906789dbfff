// Spotify implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/mixsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageSize = 50
)

var (
	_ Catalog      = (*SpotifyClient)(nil)
	_ OAuthService = (*SpotifyClient)(nil)
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
//
// Public is a pointer because the API omits the field when visibility is not
// disclosed for the listing.
type SpotifySimplePlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public *bool  `json:"public"`
	URI    string `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyOpts configures a [SpotifyClient].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Market       string  // search market parameter, default "US"
	SearchLimit  int     // search page size, default 10
	RateLimit    float64 // requests per second, default 5
}

// SpotifyClient implements [Catalog] and [OAuthService] against the Spotify
// Web API, using [oauth2] for authentication and a [rate.Limiter] ahead of
// every request.
type SpotifyClient struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	market      string
	searchLimit int
}

// NewSpotifyClient creates a Spotify client with the given OAuth2 credentials.
func NewSpotifyClient(opts SpotifyOpts) (*SpotifyClient, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret", shared.ErrMissingCredentials)
	}
	if opts.RedirectURI == "" {
		opts.RedirectURI = "http://localhost:8888/callback"
	}
	if opts.Market == "" {
		opts.Market = "US"
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	config := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyClient{
		config:      config,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		baseURL:     spotifyBaseURL,
		market:      opts.Market,
		searchLimit: opts.SearchLimit,
	}, nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyClient) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback server.
func (s *SpotifyClient) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// OAuthenticate installs a token and builds the refreshing HTTP client.
func (s *SpotifyClient) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

// doRequest performs an authenticated HTTP request against the Spotify API.
// A JSON body is marshalled for POST/PUT; a 401 response maps to
// [shared.ErrTokenExpired].
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call OAuthenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", shared.ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's catalog id.
func (s *SpotifyClient) CurrentUser(ctx context.Context) (string, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Playlists retrieves all of the current user's playlists, following the
// pagination cursor until exhausted.
func (s *SpotifyClient) Playlists(ctx context.Context) ([]PlaylistRecord, error) {
	var records []PlaylistRecord
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", playlistPageSize, offset)

		var page SpotifyPaginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, p := range page.Items {
			records = append(records, PlaylistRecord{ID: p.ID, Name: p.Name, Public: p.Public})
		}

		if page.Next == nil {
			break
		}
		offset += playlistPageSize
	}

	return records, nil
}

// CreatePlaylist creates a playlist for userID. The description is left empty;
// metadata sync happens on the update path.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*PlaylistRecord, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := map[string]any{"name": name, "public": public}

	var created SpotifySimplePlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	record := PlaylistRecord{ID: created.ID, Name: created.Name, Public: created.Public}
	if record.Public == nil {
		record.Public = &public
	}
	return &record, nil
}

// UpdatePlaylistDetails changes playlist metadata; nil fields are omitted from
// the request body.
func (s *SpotifyClient) UpdatePlaylistDetails(ctx context.Context, playlistID string, details PlaylistDetails) error {
	body := map[string]any{}
	if details.Name != nil {
		body["name"] = *details.Name
	}
	if details.Public != nil {
		body["public"] = *details.Public
	}
	if details.Description != nil {
		body["description"] = *details.Description
	}
	if details.Collaborative != nil {
		body["collaborative"] = *details.Collaborative
	}
	if len(body) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPut, endpoint, body, nil)
}

// SearchTrack runs a track search with the configured page size and market and
// returns the first page in ranked order.
func (s *SpotifyClient) SearchTrack(ctx context.Context, query string) ([]TrackResult, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d&offset=0&market=%s",
		url.QueryEscape(query), s.searchLimit, url.QueryEscape(s.market))

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	results := make([]TrackResult, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		result := TrackResult{ID: item.ID, Name: item.Name}
		for _, artist := range item.Artists {
			result.Artists = append(result.Artists, artist.Name)
		}
		results = append(results, result)
	}

	return results, nil
}

// AddTracks appends tracks in order, duplicates included. An empty id list
// returns success without issuing a request.
func (s *SpotifyClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": uris}, nil)
}
