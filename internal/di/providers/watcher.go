package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/watcher"
)

// FileWatcherHandle wraps the inbox watcher with lifecycle management.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel  context.CancelFunc
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	if !h.started {
		return nil
	}
	h.cancel()
	return h.Close()
}

// ProvideFileWatcher provides the inbox directory watcher. When watching is
// disabled by configuration the handle is inert and imports happen only
// through the API.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	importerHandle := do.MustInvoke[*ImporterHandle](i)

	if !cfg.Watcher.Enabled {
		log.Info("Inbox watching disabled by configuration")
		return &FileWatcherHandle{started: false}, nil
	}

	w, err := watcher.New(importerHandle.Importer, cfg.InboxPath(), cfg.Watcher.Debounce, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		return nil, err
	}

	log.Info("Inbox watcher started", "inbox", cfg.InboxPath(), "debounce", cfg.Watcher.Debounce)

	return &FileWatcherHandle{Watcher: w, cancel: cancel, started: true}, nil
}
