// Package logging wraps log/slog with the application's defaults.
//
// Every component logs through a *logging.Logger handed down from the
// composition root, usually narrowed with With:
//
//	log := logging.New(cfg.Logging, version)
//	hubLog := log.With("integration", "hub")
//	hubLog.Info("poll complete", "devices", n)
//
// Format, level and destination come from the logging section of
// config.yaml. Production runs JSON to stdout; text output exists for
// development. Secrets never go into log fields, truncate or omit them.
package logging
