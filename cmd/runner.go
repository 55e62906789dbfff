package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/repositories"
	"github.com/desertthunder/mixsync/internal/services"
	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/desertthunder/mixsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

const tokenService = "spotify"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify *services.SpotifyClient
	catalog services.Catalog
	fetcher *feed.Fetcher
	logger  *log.Logger
	output  io.Writer
	engine  *tasks.ReconcileEngine
	authed  bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify *services.SpotifyClient
	Catalog services.Catalog
	Fetcher *feed.Fetcher
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fetcher == nil {
		opts.Fetcher = feed.NewFetcher()
	}
	if opts.Catalog == nil && opts.Spotify != nil {
		opts.Catalog = opts.Spotify
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		catalog: opts.Catalog,
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
		output:  opts.Output,
		engine:  tasks.NewReconcileEngine(opts.Catalog, shared.WithLogger(opts.Logger, "component", "engine")),
	}
}

// SetLogger swaps the runner's logger and rebuilds the engine around it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine = tasks.NewReconcileEngine(r.catalog, shared.WithLogger(logger, "component", "engine"))
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, feedCommand, playlistsCommand, syncCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured SQLite database.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database)
	return db, nil
}

// ensureAuthed loads the stored token and installs it on the Spotify client.
// Idempotent across commands in the same process.
func (r *Runner) ensureAuthed(ctx context.Context) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, edit config.toml", shared.ErrMissingCredentials)
	}
	if r.authed {
		return nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	token, err := repositories.NewTokenRepository(db).Get(tokenService)
	if err != nil {
		if errors.Is(err, shared.ErrNoToken) {
			return fmt.Errorf("%w: run 'mixsync auth login' first", shared.ErrNotAuthenticated)
		}
		return err
	}

	if err := r.spotify.OAuthenticate(ctx, token); err != nil {
		return err
	}

	r.authed = true
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
