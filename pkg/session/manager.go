package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"

	"github.com/modaledit/vintage/internal/observability"
	"github.com/modaledit/vintage/internal/tracing"
	"github.com/modaledit/vintage/pkg/host"
)

// Names of the allow-listed record fields.
const (
	KeyHistory                   = "history"
	KeySubstituteLastPattern     = "ex_substitute_last_pattern"
	KeySubstituteLastReplacement = "ex_substitute_last_replacement"
	KeyLastUsedRegisterName      = "last_used_register_name"
	KeyMacros                    = "macros"
)

// RecordFileName is the durable record's file name under the host's
// <packages parent>/Local directory.
const RecordFileName = "vintage.session"

// persistentKeys is the allow-list of record fields accepted on load. Any
// other top-level name in a loaded record is dropped.
var persistentKeys = map[string]struct{}{
	KeyHistory:                   {},
	KeySubstituteLastPattern:     {},
	KeySubstituteLastReplacement: {},
	KeyLastUsedRegisterName:      {},
	KeyMacros:                    {},
}

// IsPersistentKey reports whether name is in the persistence allow-list.
func IsPersistentKey(name string) bool {
	_, ok := persistentKeys[name]
	return ok
}

// PersistentKeys returns the allow-list names in sorted order.
func PersistentKeys() []string {
	keys := make([]string, 0, len(persistentKeys))
	for k := range persistentKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HistoryDelegate is the external command-history subsystem. Load clears its
// storage and repopulates it wholesale from the record's history field; this
// package never reads from it.
type HistoryDelegate interface {
	ReplaceAll(entries map[int]any)
}

// Config configures a session Manager.
type Config struct {
	// Gate is the host capability gate. Required.
	Gate *host.Gate

	// History receives the record's history field on load. Optional; when
	// nil the history field is dropped.
	History HistoryDelegate

	// SessionFile overrides the resolved record path. Optional.
	SessionFile string

	Logger zerolog.Logger
}

// Manager owns the global session store and the per-document stores, and
// drives persistence according to the host capability.
type Manager struct {
	gate        *host.Gate
	history     HistoryDelegate
	sessionFile string
	logger      zerolog.Logger
	policy      persistencePolicy

	mu       sync.Mutex
	global   map[string]any
	views    map[int]map[string]any
	lastSave time.Time
	autosave *cron.Cron
	watcher  *fsnotify.Watcher

	exitOnce sync.Once
}

// New creates a session manager. The store starts empty; call Load before
// reading values expected from a previous session.
func New(cfg Config) (*Manager, error) {
	observability.EnsureRegistered()

	if cfg.Gate == nil {
		return nil, fmt.Errorf("host gate is required")
	}

	m := &Manager{
		gate:        cfg.Gate,
		history:     cfg.History,
		sessionFile: cfg.SessionFile,
		logger:      cfg.Logger.With().Str("component", "session").Logger(),
		global:      make(map[string]any),
		views:       make(map[int]map[string]any),
	}

	if cfg.Gate.DeferredSave() {
		m.policy = deferredPolicy{}
	} else {
		m.policy = eagerPolicy{}
	}

	m.logger.Debug().Str("mode", m.policy.mode()).Msg("Session manager initialized")

	return m, nil
}

// recordPath resolves the durable record location. Resolved per call so the
// eager capability keeps querying the host live.
func (m *Manager) recordPath() (string, error) {
	if m.sessionFile != "" {
		return m.sessionFile, nil
	}
	base, err := m.gate.PackagesPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve packages path: %w", err)
	}
	return filepath.Join(filepath.Dir(base), "Local", RecordFileName), nil
}

// Load reads the durable record and distributes recognized fields into the
// global store and the history delegate. It never fails: a missing file is no
// prior session, and unreadable or malformed content degrades to an empty
// session with a logged diagnostic.
func (m *Manager) Load() {
	m.LoadContext(context.Background())
}

// LoadContext is Load with a tracing context.
func (m *Manager) LoadContext(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "vintage.session", "session.load")
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, m.logger)

	start := time.Now()
	defer func() {
		observability.RecordSessionLoad(time.Since(start))
	}()

	path, err := m.recordPath()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordLoadFailure("unreadable")
		logger.Warn().Err(err).Msg("Could not resolve session record path")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No prior session record")
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordLoadFailure("unreadable")
		logger.Warn().Err(err).Str("path", path).Msg("Failed to read session record")
		return
	}

	record, err := Decode(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordLoadFailure("malformed")
		logger.Warn().Err(err).Str("path", path).Msg("Malformed session record, starting empty")
		return
	}
	if record == nil {
		logger.Debug().Str("path", path).Msg("Empty session record")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	accepted := 0
	for k, v := range record {
		name, ok := k.(string)
		if !ok {
			continue
		}
		if _, ok := persistentKeys[name]; !ok {
			continue
		}
		if name == KeyHistory {
			m.routeHistory(logger, v)
		} else {
			m.global[name] = v
		}
		accepted++
	}

	logger.Debug().
		Str("path", path).
		Int("fields", len(record)).
		Int("accepted", accepted).
		Msg("Session record loaded")
}

// routeHistory repopulates the history delegate from the decoded history
// field, re-asserting integer sub-keys. Called with the manager lock held.
func (m *Manager) routeHistory(logger zerolog.Logger, v any) {
	if m.history == nil {
		logger.Debug().Msg("No history delegate, dropping history field")
		return
	}

	sub, ok := v.(map[any]any)
	if !ok {
		logger.Warn().Msg("History field is not a mapping, dropping")
		return
	}

	entries := make(map[int]any, len(sub))
	for k, val := range sub {
		switch key := k.(type) {
		case int:
			entries[key] = val
		case string:
			n, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			entries[n] = val
		}
	}

	m.history.ReplaceAll(entries)
}

// Save serializes the entire live store and replaces the durable record.
// Non-persisted names present in memory are written too; the next Load drops
// them again via the allow-list.
func (m *Manager) Save() error {
	return m.SaveContext(context.Background())
}

// SaveContext is Save with a tracing context.
func (m *Manager) SaveContext(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "vintage.session", "session.save")
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, m.logger)

	start := time.Now()
	defer func() {
		observability.RecordSessionSave(time.Since(start))
	}()

	m.mu.Lock()
	data, err := Encode(m.global)
	m.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	path, err := m.recordPath()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	m.mu.Lock()
	m.lastSave = time.Now()
	m.mu.Unlock()

	if err := os.WriteFile(path, data, 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to write session record: %w", err)
	}

	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Session record saved")

	return nil
}

// Get returns the named value from the global store, or def when absent.
func (m *Manager) Get(name string, def any) any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.global[name]; ok {
		return v
	}
	return def
}

// Set stores a value in the global store. With persist set, the eager policy
// writes the record through before returning; the deferred policy leaves
// persistence to the shutdown notification.
func (m *Manager) Set(name string, value any, persist bool) error {
	m.mu.Lock()
	m.global[name] = value
	m.mu.Unlock()

	if persist {
		return m.policy.onPersistentWrite(m)
	}
	return nil
}

// ViewValue returns the named value from a document's store, or def when the
// document or the name is absent. Reads never create a document entry.
func (m *Manager) ViewValue(docID int, name string, def any) any {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.views[docID]
	if !ok {
		return def
	}
	v, ok := doc[name]
	if !ok {
		return def
	}
	return v
}

// SetViewValue stores a value in a document's store, creating the entry on
// first write. Per-document values are never persisted.
func (m *Manager) SetViewValue(docID int, name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.views[docID]
	if !ok {
		doc = make(map[string]any)
		m.views[docID] = doc
	}
	doc[name] = value

	observability.SetOpenDocuments(len(m.views))
}

// OnClose discards a document's store. Idempotent.
func (m *Manager) OnClose(docID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.views, docID)
	observability.SetOpenDocuments(len(m.views))
}

// OnExit implements the host's shutdown notification. Under the deferred
// capability it performs exactly one save of the full store; under the eager
// capability it is a no-op because writes already happened. Save failures are
// logged, never propagated into host teardown.
func (m *Manager) OnExit() {
	m.exitOnce.Do(func() {
		if err := m.policy.onShutdown(m); err != nil {
			m.logger.Error().Err(err).Msg("Failed to save session record on exit")
		}
	})
}

// Close stops the autosave schedule and the record watcher, if running.
func (m *Manager) Close() error {
	m.StopAutosave()

	m.mu.Lock()
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}
