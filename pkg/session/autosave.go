package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/modaledit/vintage/internal/observability"
)

// StartAutosave schedules a periodic flush of the full store. Intended for
// deferred-capability hosts, where nothing reaches disk between startup and
// the shutdown notification; a crash in between loses the whole session.
func (m *Manager) StartAutosave(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("autosave interval must be at least 1s, got %s", interval)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autosave != nil {
		return fmt.Errorf("autosave already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), m.autosaveFlush); err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}
	c.Start()
	m.autosave = c

	m.logger.Info().Dur("interval", interval).Msg("Autosave started")

	return nil
}

func (m *Manager) autosaveFlush() {
	if err := m.Save(); err != nil {
		observability.RecordAutosaveFailure()
		m.logger.Warn().Err(err).Msg("Autosave flush failed")
	}
}

// StopAutosave cancels the autosave schedule. Safe to call when autosave was
// never started.
func (m *Manager) StopAutosave() {
	m.mu.Lock()
	c := m.autosave
	m.autosave = nil
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		m.logger.Debug().Msg("Autosave stopped")
	}
}
