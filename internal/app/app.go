package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/inmemorystore"
	"github.com/specialistvlad/nxload/internal/metrics"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/publish"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	outMu      sync.Mutex
	logger     *slog.Logger
	config     *Config
	override   *override.Document
	store      *inmemorystore.Store
	metrics    *metrics.Metrics
	httpServer *http.Server

	// dial connects the viewer publisher; replaced in tests.
	dial func(ctx context.Context, opts publish.Options) (publish.Publisher, error)
}

// NewApp is the constructor for the main application. Record summaries go to
// outW, logs to logW. The override document, when configured, is loaded here
// so a malformed one fails before any conversion starts.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var doc *override.Document
	if cfg.OverridePath != "" {
		var err error
		doc, err = override.Load(cfg.OverridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load override document: %w", err)
		}
		logger.Debug("Override document loaded.", "path", cfg.OverridePath, "runs", len(doc.Runs()), "common", doc.HasCommon())
	}

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		override: doc,
		store:    inmemorystore.New(),
		metrics:  metrics.New(),
		dial: func(ctx context.Context, opts publish.Options) (publish.Publisher, error) {
			return publish.Dial(ctx, opts)
		},
	}, nil
}

// Store returns the per-file outcome store. This is primarily for testing.
func (a *App) Store() *inmemorystore.Store {
	return a.store
}

// Metrics returns the application's metrics.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
