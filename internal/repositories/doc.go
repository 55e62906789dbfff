// Package repositories provides SQLite-backed persistence for OAuth tokens.
package repositories
