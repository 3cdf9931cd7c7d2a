package app

import (
	"context"
	"errors"
	"fmt"
	"hdrgen/internal/core/app/helpers"
	"hdrgen/internal/core/config"
	"hdrgen/internal/core/watcher"
	"hdrgen/internal/data/history"
	"hdrgen/internal/shared/observability"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"
)

// HandleChanges regenerates the headers of changed sources and removes the
// headers of deleted ones. A failing file is reported and the rest of the
// batch still runs, so one bad edit does not stop watch mode.
func (a *App) HandleChanges(ctx context.Context, paths []string) Summary {
	slog.Info("detected changes", "count", len(paths))
	summary := Summary{StartedAt: time.Now()}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var failures []error
	for _, path := range sorted {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		root, err := helpers.FindContainingRoot(path, a.Paths.SourceRoots)
		if err != nil || a.filter.ExcludePath(root, path) {
			continue
		}

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			res, err := a.RemoveHeader(path)
			if err != nil {
				slog.Error("failed to remove stale header", "path", path, "error", err)
				failures = append(failures, err)
			}
			summary.Results = append(summary.Results, res)
			continue
		}

		if !a.limiter.Allow(1) {
			observability.RegensThrottledTotal.Inc()
			if err := a.limiter.Wait(ctx, 1); err != nil {
				failures = append(failures, err)
				break
			}
		}

		res, err := a.GenerateFile(ctx, path)
		if err != nil {
			slog.Error("failed to generate header", "path", path, "error", err)
			failures = append(failures, err)
		}
		if res.Status != "" {
			summary.Results = append(summary.Results, res)
		}
	}

	summary.FinishedAt = time.Now()
	summary.Err = errors.Join(failures...)
	observability.GenerationDuration.WithLabelValues("changes").Observe(summary.Duration().Seconds())

	if len(summary.Results) > 0 {
		summary.RunID = a.recordRun(summary)
	}
	a.emitUpdate(Update{At: summary.FinishedAt, Results: summary.Results, Err: summary.Err})
	return summary
}

// RemoveHeader deletes the header generated from source. A header that was
// never written is not an error.
func (a *App) RemoveHeader(source string) (FileResult, error) {
	res := FileResult{Source: source, Status: history.StatusRemoved}
	output, err := a.OutputPathFor(source)
	if err != nil {
		res.Status = history.StatusFailed
		res.Err = err
		return res, err
	}
	res.Output = output

	if err := os.Remove(output); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, nil
		}
		res.Status = history.StatusFailed
		res.Err = fmt.Errorf("remove header %q: %w", output, err)
		return res, res.Err
	}
	slog.Info("removed header", "path", source, "output", output)
	observability.HeadersTotal.WithLabelValues(string(history.StatusRemoved)).Inc()
	return res, nil
}

func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.filter,
		func(paths []string) { a.HandleChanges(ctx, paths) },
	)
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch(existingRoots(a.Paths.SourceRoots))
}

// WatchConfig reloads the type table whenever the config file at path
// changes.
func (a *App) WatchConfig(ctx context.Context, path string) error {
	w := config.NewWatcher(path, a.ApplyConfig)
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.configWatcher = w
	return nil
}

func existingRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, root := range helpers.UniqueScanRoots(roots) {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			out = append(out, root)
		}
	}
	return out
}
