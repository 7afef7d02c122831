package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// externalWriteWindow is how long after our own save a file event is still
// attributed to this process.
const externalWriteWindow = time.Second

// WatchRecord starts watching the session record and logs a warning when
// another process rewrites it. The record is owned by a single instance;
// a concurrent writer is undefined behavior, so the watcher only surfaces
// the condition, it never reacts to it.
func (m *Manager) WatchRecord() error {
	path, err := m.recordPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch session directory: %w", err)
	}

	m.mu.Lock()
	if m.watcher != nil {
		m.mu.Unlock()
		w.Close()
		return fmt.Errorf("record watcher already started")
	}
	m.watcher = w
	m.mu.Unlock()

	go m.watchLoop(w, path)

	m.logger.Debug().Str("path", path).Msg("Record watcher started")

	return nil
}

func (m *Manager) watchLoop(w *fsnotify.Watcher, path string) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if m.savedRecently() {
				continue
			}
			m.logger.Warn().
				Str("path", path).
				Str("op", ev.Op.String()).
				Msg("Session record modified outside this process")
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.logger.Warn().Err(err).Msg("Record watcher error")
		}
	}
}

func (m *Manager) savedRecently() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.lastSave.IsZero() && time.Since(m.lastSave) < externalWriteWindow
}
