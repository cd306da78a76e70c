// Package logging provides slog loggers with per-module levels.
//
// Records go to stdout (text or json) and, when journald is reachable, to
// the systemd journal as well. Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"recorder": "debug"},
//	})
//
// then take a logger per module:
//
//	logger := logging.GetLogger("recorder")
//	logger.Info("Recording started", "output", path)
//
// Every logger carries a module attribute, which the journal exposes as a
// field:
//
//	journalctl -t vidrec MODULE=recorder -f
//
// Module levels are LevelVars. Calling Initialize again, as the serve
// command does when its config file changes, updates loggers already
// handed out.
//
// Packages that log take the Logger interface rather than a concrete
// *slog.Logger so tests can pass their own.
package logging
