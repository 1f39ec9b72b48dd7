package app

import (
	"time"

	"github.com/dshills/nvim-keymap-migrator/internal/config"
	"github.com/dshills/nvim-keymap-migrator/internal/fsys"
	"github.com/dshills/nvim-keymap-migrator/internal/namespace"
)

// Application coordinates one CLI invocation.
type Application struct {
	cfg    *config.Config
	fs     fsys.FS
	paths  namespace.Paths
	store  *namespace.Store
	logger *Logger
	now    func() time.Time
}

// Options configures the application.
type Options struct {
	// Config holds the merged file and flag settings. Defaults when nil.
	Config *config.Config

	// FS is the file system for every write. Defaults to fsys.OSFS.
	FS fsys.FS

	// Paths locates the namespace directory and target files.
	// Defaults to namespace.Default().
	Paths *namespace.Paths

	// Logger receives diagnostics. Defaults to NullLogger.
	Logger *Logger

	// Clock overrides the time source.
	Clock func() time.Time
}

// New creates an Application. The configuration is validated first.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("configure", "", err)
	}

	app := &Application{
		cfg:    cfg,
		fs:     opts.FS,
		logger: opts.Logger,
		now:    opts.Clock,
	}
	if app.fs == nil {
		app.fs = fsys.NewOSFS()
	}
	if app.logger == nil {
		app.logger = NullLogger
	}
	if app.now == nil {
		app.now = time.Now
	}
	if opts.Paths != nil {
		app.paths = *opts.Paths
	} else {
		app.paths = namespace.Default()
	}

	app.store = namespace.NewStore(app.fs, app.paths, namespace.WithClock(app.now))
	return app, nil
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Paths returns the resolved namespace and target paths.
func (app *Application) Paths() namespace.Paths {
	return app.paths
}
