package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixsync/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRepository persists OAuth tokens per external service so auth
// survives process restarts.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save upserts the token for a service.
func (r *TokenRepository) Save(service string, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO tokens (service, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, service, token.AccessToken, token.RefreshToken, token.TokenType, token.Expiry, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// Get retrieves the stored token for a service. Returns [shared.ErrNoToken]
// when none has been saved.
func (r *TokenRepository) Get(service string) (*oauth2.Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, expiry
		FROM tokens
		WHERE service = ?
	`

	var (
		accessToken  string
		refreshToken sql.NullString
		tokenType    sql.NullString
		expiry       sql.NullTime
	)

	err := r.db.QueryRow(query, service).Scan(&accessToken, &refreshToken, &tokenType, &expiry)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoToken, service)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	token := &oauth2.Token{AccessToken: accessToken}
	if refreshToken.Valid {
		token.RefreshToken = refreshToken.String
	}
	if tokenType.Valid {
		token.TokenType = tokenType.String
	}
	if expiry.Valid {
		token.Expiry = expiry.Time
	}

	return token, nil
}

// Delete removes the stored token for a service.
func (r *TokenRepository) Delete(service string) error {
	result, err := r.db.Exec(`DELETE FROM tokens WHERE service = ?`, service)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNoToken, service)
	}

	return nil
}
