package plugin

import (
	"fmt"

	"github.com/modaledit/vintage/internal/config"
	"github.com/modaledit/vintage/internal/logger"
	"github.com/modaledit/vintage/internal/tracing"
	"github.com/modaledit/vintage/pkg/history"
	"github.com/modaledit/vintage/pkg/host"
	"github.com/modaledit/vintage/pkg/session"
)

// Plugin is the assembled session subsystem.
type Plugin struct {
	Session *session.Manager
	History *history.Store

	log *logger.Logger
}

// Bootstrap assembles the subsystem against h and performs the initial
// session load. configPath may be empty to use the default config location.
func Bootstrap(h host.Host, configPath string) (*Plugin, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	zl := log.Zerolog()

	if err := tracing.InitOpenTelemetry("vintage"); err != nil {
		zl.Warn().Err(err).Msg("Tracing unavailable")
	}

	gate, err := host.NewGate(h)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to resolve host capability: %w", err)
	}

	hist := history.NewStore(log.Zerolog())

	mgr, err := session.New(session.Config{
		Gate:        gate,
		History:     hist,
		SessionFile: cfg.SessionFile,
		Logger:      log.Zerolog(),
	})
	if err != nil {
		log.Close()
		return nil, err
	}

	// Load before anything reads previously persisted state.
	mgr.Load()

	if cfg.Autosave.Enabled && gate.DeferredSave() {
		if err := mgr.StartAutosave(cfg.Autosave.Interval); err != nil {
			zl.Warn().Err(err).Msg("Autosave unavailable")
		}
	}
	if cfg.WatchSessionFile {
		if err := mgr.WatchRecord(); err != nil {
			zl.Warn().Err(err).Msg("Record watcher unavailable")
		}
	}

	return &Plugin{Session: mgr, History: hist, log: log}, nil
}

// OnExit forwards the host's shutdown notification to the session manager.
func (p *Plugin) OnExit() {
	p.Session.OnExit()
}

// OnClose forwards a document close notification.
func (p *Plugin) OnClose(docID int) {
	p.Session.OnClose(docID)
}

// Close releases background workers and the log file.
func (p *Plugin) Close() error {
	err := p.Session.Close()
	if cerr := p.log.Close(); err == nil {
		err = cerr
	}
	return err
}
