package app

import (
	"errors"
	"fmt"
	"hdrgen/internal/core/config"
	coreerrors "hdrgen/internal/core/errors"
	"hdrgen/internal/core/ports"
	"hdrgen/internal/core/watcher"
	"hdrgen/internal/data/history"
	"hdrgen/internal/engine/audit"
	"hdrgen/internal/engine/ctype"
	"hdrgen/internal/shared/util"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Update is emitted after every watch-mode regeneration batch.
type Update struct {
	At      time.Time
	Results []FileResult
	Err     error
}

type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	translatorMu sync.RWMutex
	translator   *ctype.Translator
	banner       string

	filter  *watcher.Filter
	history ports.HistoryStore
	auditor ports.SourceAuditor
	limiter *util.Limiter

	activeWatcher *watcher.Watcher
	configWatcher *config.Watcher

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}

	filter, err := watcher.NewFilter(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	banner, err := loadBanner(paths.LicenseFile)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Paths:      paths,
		translator: buildTranslator(cfg),
		banner:     banner,
		filter:     filter,
		limiter:    util.NewLimiter(cfg.Watch.MaxRegensPerSecond, cfg.Watch.RegenBurst),
	}

	if cfg.Generate.Audit {
		a.auditor = audit.New()
	}

	if cfg.DB.Enabled {
		store, err := openHistory(paths.DBPath)
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "open history store").
				WithContext(coreerrors.CtxPath, paths.DBPath)
		}
		a.history = store
		slog.Debug("history store opened", "path", store.Path())
	}

	return a, nil
}

// openHistory opens the history database. A corrupt database is moved aside
// to <path>.corrupt and a fresh one is created in its place.
func openHistory(path string) (*history.Store, error) {
	store, err := history.Open(path)
	if err == nil || !history.IsCorruptError(err) {
		return store, err
	}

	aside := path + ".corrupt"
	slog.Warn("history database is corrupt, starting a new one", "path", path, "moved_to", aside, "error", err)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Rename(path+suffix, aside+suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("move corrupt history database: %w", err)
		}
	}
	return history.Open(path)
}

// buildTranslator layers the [types] section over the built-in table.
func buildTranslator(cfg *config.Config) *ctype.Translator {
	types := ctype.DefaultTypeTable().Merge(cfg.Types)
	return ctype.NewTranslator(types, ctype.DefaultModifierTable())
}

func loadBanner(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read license banner %q: %w", path, err)
	}
	return string(data), nil
}

// Translator returns the translator currently in use. It changes when the
// config file is reloaded in watch mode.
func (a *App) Translator() *ctype.Translator {
	a.translatorMu.RLock()
	defer a.translatorMu.RUnlock()
	return a.translator
}

// ApplyConfig swaps in the type table of a reloaded config. Other settings
// only take effect on restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	tr := buildTranslator(cfg)
	a.translatorMu.Lock()
	a.translator = tr
	a.translatorMu.Unlock()
	slog.Info("type table reloaded", "types", tr.Types().Len())
}

func (a *App) History() ports.HistoryStore {
	return a.history
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// Close stops any watchers and closes the history store.
func (a *App) Close() error {
	if a.configWatcher != nil {
		a.configWatcher.Stop()
		a.configWatcher = nil
	}
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			slog.Warn("failed to close watcher", "error", err)
		}
		a.activeWatcher = nil
	}
	if a.history != nil {
		err := a.history.Close()
		a.history = nil
		return err
	}
	return nil
}
