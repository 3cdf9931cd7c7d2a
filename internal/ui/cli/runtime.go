package cli

import (
	"context"
	"errors"
	"fmt"
	coreapp "hdrgen/internal/core/app"
	"hdrgen/internal/core/config"
	"hdrgen/internal/shared/observability"
	"hdrgen/internal/shared/version"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

// Run is the hdrgen entry point. It returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "hdrgen %s\n", version.String())
		return 0
	}

	cleanupLogs := configureLogging(stdout, opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg, cwd); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := startTracing(ctx, cfg)
	if err != nil {
		slog.Error("failed to start tracing", "error", err)
		return 1
	}
	defer shutdownTracing()

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	if opts.history > 0 {
		reports, err := app.RecentRuns(opts.history)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		PrintHistory(stdout, reports)
		return 0
	}

	var server *ObservabilityServer
	if cfg.Observability.Enabled {
		server = NewObservabilityServer(fmt.Sprintf(":%d", cfg.Observability.Port), coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	summary, err := app.GenerateAll(ctx)
	if !opts.ui {
		PrintSummary(stdout, summary)
	}
	if err != nil {
		fmt.Fprintf(stderr, "hdrgen: %v\n", err)
		return 1
	}

	if !opts.watchMode() {
		return 0
	}

	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	if cfgPath != "" {
		if err := app.WatchConfig(ctx, cfgPath); err != nil {
			slog.Warn("config hot reload disabled", "path", cfgPath, "error", err)
		}
	}

	if opts.ui {
		if err := runUI(ctx, app, summary); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	app.SetUpdateHandler(func(update coreapp.Update) {
		PrintSummary(stdout, coreapp.Summary{
			StartedAt:  update.At,
			FinishedAt: update.At,
			Results:    update.Results,
			Err:        update.Err,
		})
	})
	slog.Info("watching for changes", "roots", app.Paths.SourceRoots)
	<-ctx.Done()
	return 0
}

// loadConfig reads path. The default path may be absent, in which case the
// built-in defaults are used and no file is watched.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if path != defaultConfigPath || !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}

	slog.Debug("no config file found, using defaults", "path", path)
	cfg = config.DefaultConfig()
	config.ApplyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, "", nil
}

func applyModeOptions(opts *cliOptions, cfg *config.Config, cwd string) error {
	if opts.once && opts.watchMode() {
		return fmt.Errorf("-once cannot be combined with -watch or -ui")
	}
	if opts.history < 0 {
		return fmt.Errorf("-history must be a positive number of runs")
	}
	if opts.history > 0 && (opts.watchMode() || opts.once || opts.force) {
		return fmt.Errorf("-history cannot be combined with generation flags")
	}

	if len(opts.args) > 0 {
		roots := make([]string, 0, len(opts.args))
		for _, arg := range opts.args {
			roots = append(roots, config.ResolveRelative(cwd, arg))
		}
		cfg.SourceRoots = roots
	}
	if opts.force {
		cfg.Generate.Force = true
	}
	if opts.audit {
		cfg.Generate.Audit = true
	}
	if opts.history > 0 {
		cfg.DB.Enabled = true
	}
	return nil
}

func startTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	if !cfg.Observability.EnableTracing {
		return func() {}, nil
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}, nil
}

func configureLogging(stdout io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := stdout
	var closeFn func() = func() {}
	if uiMode {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hdrgen", "hdrgen.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "hdrgen", "hdrgen.log")
	}

	return "hdrgen.log"
}
