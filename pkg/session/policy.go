package session

import "github.com/modaledit/vintage/internal/observability"

// persistencePolicy is the strategy selected once at construction from the
// host capability gate. Eager hosts have no shutdown notification, so
// persist-flagged writes go straight to disk; deferred hosts write once, when
// the shutdown notification fires.
type persistencePolicy interface {
	onPersistentWrite(m *Manager) error
	onShutdown(m *Manager) error
	mode() string
}

type eagerPolicy struct{}

func (eagerPolicy) onPersistentWrite(m *Manager) error {
	observability.RecordPersistedWrite("eager")
	return m.Save()
}

func (eagerPolicy) onShutdown(*Manager) error { return nil }

func (eagerPolicy) mode() string { return "eager" }

type deferredPolicy struct{}

func (deferredPolicy) onPersistentWrite(*Manager) error {
	observability.RecordPersistedWrite("deferred")
	return nil
}

func (deferredPolicy) onShutdown(m *Manager) error { return m.Save() }

func (deferredPolicy) mode() string { return "deferred" }
