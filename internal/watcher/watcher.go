// Package watcher imports files dropped into the inbox directory.
// Writes are debounced so a file still being copied is not imported
// half-written; a path is never imported twice concurrently.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/readwellapp/readwell-server/internal/importer"
)

// Watcher monitors the inbox directory and imports dropped files.
type Watcher struct {
	importer *importer.Importer
	inboxDir string
	debounce time.Duration
	logger   *slog.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	pending  map[string]*time.Timer
	inflight map[string]bool
}

// New creates a watcher over inboxDir, creating the directory if needed.
func New(imp *importer.Importer, inboxDir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(inboxDir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox directory: %w", err)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		importer: imp,
		inboxDir: inboxDir,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
		inflight: make(map[string]bool),
	}, nil
}

// Start begins watching. Files already sitting in the inbox are picked
// up immediately.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	if err := fsw.Add(w.inboxDir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.inboxDir, err)
	}
	w.fsw = fsw

	w.scanExisting()

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.Info("watching inbox", "dir", w.inboxDir, "debounce", w.debounce)
	return nil
}

// Close stops the watcher and waits for in-flight imports to finish.
func (w *Watcher) Close() error {
	close(w.done)
	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}

	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the debounce timer for a path. Every further write
// pushes the import back until the file has been quiet for the full
// debounce interval.
func (w *Watcher) schedule(path string) {
	if !w.eligible(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		if w.inflight[path] {
			w.mu.Unlock()
			return
		}
		w.inflight[path] = true
		w.mu.Unlock()

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() {
				w.mu.Lock()
				delete(w.inflight, path)
				w.mu.Unlock()
			}()
			w.importPath(path)
		}()
	})
}

// importPath imports one inbox file and removes it on success.
func (w *Watcher) importPath(path string) {
	select {
	case <-w.done:
		return
	default:
	}

	if _, err := os.Stat(path); err != nil {
		return // removed before the debounce fired
	}

	doc, err := w.importer.ImportFile(context.Background(), path, "")
	if err != nil {
		w.logger.Error("inbox import failed", "path", path, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn("failed to remove imported inbox file", "path", path, "error", err)
	}
	w.logger.Info("imported from inbox", "path", path, "document_id", doc.ID)
}

// scanExisting schedules files already present when the watcher starts.
func (w *Watcher) scanExisting() {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		w.logger.Warn("failed to scan inbox", "dir", w.inboxDir, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.schedule(filepath.Join(w.inboxDir, entry.Name()))
	}
}

// eligible filters out directories, hidden files, and partial downloads.
func (w *Watcher) eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".part", ".crdownload", ".tmp":
		return false
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return false
	}
	return true
}
