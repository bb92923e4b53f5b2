// Package logging provides structured logging for webnetesctl.
//
// This package wraps a global zap logger with convenience functions for the
// events the control panel cares about: editing sessions, status lookups and
// configuration delivery.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Draft events, successful lookups, discovery entries
//   - Info: Configuration applied, nodes discovered
//   - Warn: Lookup failures (the status card just leaves a field empty)
//   - Error: Apply failures
//
// # Silent by Default
//
// The panel draws on the terminal, so nothing is logged unless a level is
// requested, either with --log-level or WEBNETESCTL_LOG_LEVEL. Interactive
// sessions should also set WEBNETESCTL_LOG_FILE so log lines do not tear the
// screen:
//
//	WEBNETESCTL_LOG_LEVEL=debug WEBNETESCTL_LOG_FILE=/tmp/webnetesctl.log webnetesctl
//
// # Specialized Logging
//
//	logging.LogDraft("committed", doc.Digest())
//	logging.LogLookup("public_address", "failed", zap.Error(err))
//	logging.LogApply("file:/etc/webnetes/node.yaml", doc.Digest(), err)
//
// # Configuration
//
// Initialize logging once at startup:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging
