package cmd

import (
	"os"
	"sync"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/vidrec/internal/api"
	"github.com/smazurov/vidrec/internal/config"
	"github.com/smazurov/vidrec/internal/events"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/metrics"
	"github.com/smazurov/vidrec/internal/recorder"
	"github.com/smazurov/vidrec/internal/systemd"
)

// service holds what the root command starts so OnStop can tear it down.
type service struct {
	mu       sync.Mutex
	session  *recorder.Session
	server   *api.Server
	watcher  *config.Watcher[logging.Config]
	notifier *systemd.Notifier
	detach   []func()
}

// Serve registers the control API lifecycle on the root command hooks.
func Serve(hooks humacli.Hooks, opts *Options) {
	logger := logging.GetLogger("main")
	svc := &service{}

	hooks.OnStart(func() {
		eventBus := events.New()

		session, err := opts.NewSession(recorder.WithEventBus(eventBus))
		if err != nil {
			logger.Error("Failed to create recorder session", "error", err)
			os.Exit(1)
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Recorder:     session,
			EventBus:     eventBus,
		}

		notifier := systemd.NewNotifier(logging.GetLogger("systemd"))
		detach := []func(){notifier.Attach(eventBus)}
		if opts.MetricsEnabled {
			detach = append(detach, metrics.Attach(eventBus))
			apiOpts.PrometheusHandler = metrics.Handler()
		}

		server, err := api.NewServer(apiOpts)
		if err != nil {
			logger.Error("Failed to create API server", "error", err)
			os.Exit(1)
		}

		var watcher *config.Watcher[logging.Config]
		if opts.WatchConfig && opts.Config != "" {
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				watcher = config.NewConfigWatcher(opts.Config, config.LoadLoggingConfig, logging.GetLogger("config"))
				watcher.OnReload(func(cfg logging.Config) {
					logging.Initialize(cfg)
					logger.Info("Logging configuration reloaded", "level", cfg.Level)
				})
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Failed to watch config file", "path", opts.Config, "error", startErr)
					watcher = nil
				}
			}
		}

		svc.mu.Lock()
		svc.session = session
		svc.server = server
		svc.watcher = watcher
		svc.notifier = notifier
		svc.detach = detach
		svc.mu.Unlock()

		logger.Info("Starting HTTP server", "port", opts.Port, "output", session.Options().Output())
		notifier.Ready()
		if startErr := server.Start(opts.Port); startErr != nil {
			logger.Error("Failed to start HTTP server", "error", startErr)
			os.Exit(1)
		}
	})

	hooks.OnStop(func() {
		svc.stop(logger)
	})
}

func (s *service) stop(logger logging.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Shutting down server")
	if s.notifier != nil {
		s.notifier.Stopping()
	}
	if s.server != nil {
		if err := s.server.Stop(); err != nil {
			logger.Error("Error stopping HTTP server", "error", err)
		}
	}

	// stop the encoder after the API stops accepting requests
	if s.session != nil {
		if st := s.session.Status().State; st == recorder.StateRunning || st == recorder.StateExited {
			logger.Info("Stopping active recording", "state", st)
			if _, err := s.session.Stop(); err != nil {
				logger.Error("Error stopping recording", "error", err)
			}
		}
	}

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			logger.Warn("Error stopping config watcher", "error", err)
		}
	}
	for _, detach := range s.detach {
		detach()
	}
}
