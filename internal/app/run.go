package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/inmemorystore"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/publish"
)

// Run converts every source file under the configured input path.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer()
	defer a.closeHealthcheckServer()

	files, err := nxtree.FindFiles(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to find input files: %w", err)
	}
	if len(files) == 0 {
		a.logger.Warn("No source files found, conversion not required.", "path", a.config.InputPath)
		return nil
	}

	pub, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("Failed to close publisher.", "error", err)
		}
	}()

	workers := a.config.Workers
	if workers > len(files) {
		workers = len(files)
	}
	a.logger.Info("Starting conversion.", "files", len(files), "workers", workers)

	queue := make(chan string, len(files))
	for _, f := range files {
		queue <- f
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			a.worker(ctx, queue, pub, id)
		}(i)
	}
	wg.Wait()

	counts := a.store.Count(ctx)
	a.logger.Info("Conversion finished.",
		"completed", counts[inmemorystore.StatusCompleted],
		"partial", counts[inmemorystore.StatusPartial],
		"failed", counts[inmemorystore.StatusFailed])

	if failed := counts[inmemorystore.StatusFailed]; failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, failed, len(files))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// publisher connects to the viewer when one is configured.
func (a *App) publisher(ctx context.Context) (publish.Publisher, error) {
	if a.config.ViewerURL == "" {
		return publish.Nop{}, nil
	}
	pub, err := a.dial(ctx, publish.Options{URL: a.config.ViewerURL, Namespace: a.config.ViewerNamespace})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to viewer: %w", err)
	}
	return pub, nil
}
