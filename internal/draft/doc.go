// Package draft implements the node configuration editing session.
//
// A Session holds two copies of a configuration document: the committed
// baseline and the draft being edited. The session is Dirty whenever the two
// differ; that flag is always derived, never stored.
//
// # Lifecycle
//
//	session := draft.Open(doc, true,
//	    draft.WithCommitHook(func(d draft.Document) { apply(d) }),
//	    draft.WithCloseHook(func() { closeEditor() }),
//	)
//
//	session.Edit("a: 2")
//	session.Commit()       // baseline becomes "a: 2", commit hook runs
//
// # Guarded discard
//
// RequestClose discards unsaved edits and runs the close hook. When the
// session was opened with confirmation required, RequestClose only marks the
// close as pending; the caller shows a dialog and reports the answer through
// Resolve. Line-mode callers can use Close with a Decider instead, which
// blocks until the decision is made.
//
// The discard reset never runs unless confirmation was skipped or the user
// explicitly chose to discard.
//
// # Thread Safety
//
// Session methods are safe for concurrent use. No lock is held while a
// Decider is waiting, so edits remain possible during a pending close and
// change what gets discarded.
package draft
