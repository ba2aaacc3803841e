package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/config"
	"github.com/roach88/recipetracker/internal/editor"
	"github.com/roach88/recipetracker/internal/prefs"
)

// env is the per-invocation wiring shared by commands.
type env struct {
	cfg     config.Config
	out     *OutputFormatter
	log     *slog.Logger
	client  *client.Client
	prefs   *prefs.Store
	session *editor.Session
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// setup resolves configuration, opens the preference database and builds
// the API client. Errors are reported before they are returned.
func setup(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	out := newFormatter(opts, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, failWith(out, ErrCodeConfig, ExitCommandError, err)
	}
	if opts.Server != "" {
		cfg.Server.URL = opts.Server
	}
	if opts.StatePath != "" {
		cfg.State.Path = opts.StatePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, failWith(out, ErrCodeConfig, ExitCommandError, err)
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.Log, opts.Verbose)
	if err != nil {
		return nil, failWith(out, ErrCodeConfig, ExitCommandError, err)
	}
	if cfg.File != "" {
		out.VerboseLog("Using config %s", cfg.File)
	}

	clientOpts := []client.Option{client.WithTimeout(cfg.Server.Timeout), client.WithLogger(log)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(opts.HTTPClient))
	}
	if opts.RequestIDs != nil {
		clientOpts = append(clientOpts, client.WithRequestIDs(opts.RequestIDs))
	}
	api, err := client.New(cfg.Server.URL, clientOpts...)
	if err != nil {
		return nil, failWith(out, ErrCodeConfig, ExitCommandError, err)
	}
	out.VerboseLog("Using server %s", api.BaseURL())

	backend := opts.Prefs
	if backend == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.State.Path), 0o755); err != nil {
			return nil, failWith(out, ErrCodeState, ExitCommandError, fmt.Errorf("create state directory: %w", err))
		}
		db, err := prefs.OpenSQLite(cfg.State.Path)
		if err != nil {
			return nil, failWith(out, ErrCodeState, ExitCommandError, err)
		}
		backend = db
		log.Debug("preference database ready", "path", cfg.State.Path)
	}
	store := prefs.New(backend, prefs.WithLogger(log))

	sessionOpts := []editor.Option{editor.WithLogger(log)}
	if opts.Clock != nil {
		sessionOpts = append(sessionOpts, editor.WithClock(opts.Clock))
	}

	return &env{
		cfg:     cfg,
		out:     out,
		log:     log,
		client:  api,
		prefs:   store,
		session: editor.NewSession(api, store, sessionOpts...),
	}, nil
}

// close releases the preference database.
func (e *env) close() {
	if err := e.prefs.Close(); err != nil {
		e.log.Error("error closing preference database", "error", err)
	}
}

// newLogger builds the diagnostic logger. --verbose forces debug level.
func newLogger(w io.Writer, cfg config.LogConfig, verbose bool) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}
