// Package ui renders line-mode output for webnetesctl commands that do not
// start the interactive panel.
//
// The Printer draws the status card and result boxes with lipgloss. Output
// that is not a terminal is rendered with the Ascii profile, so piping
// `webnetesctl status` into a file produces plain text.
//
// PromptDecider implements draft.Decider with a y/N question, which is how
// `webnetesctl edit` asks before discarding unsaved changes when it runs
// without a panel.
//
// Logging is controlled by WEBNETESCTL_LOG_LEVEL. When unset, zap logging is
// silent and only this package writes to the terminal.
package ui
