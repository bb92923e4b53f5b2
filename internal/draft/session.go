package draft

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/webnetes/webnetesctl/internal/logging"
)

// ErrNoPendingClose is returned by Resolve when no close request is waiting
// for a decision.
var ErrNoPendingClose = errors.New("no close request is pending")

// State is the editing state derived from comparing draft and baseline
type State int

const (
	// StateClean means the draft equals the committed document
	StateClean State = iota
	// StateDirty means the draft has unsaved edits
	StateDirty
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Outcome is the result of a close request
type Outcome int

const (
	// OutcomeClosed means the draft was reset and the close hook ran
	OutcomeClosed Outcome = iota
	// OutcomePending means the close is waiting for a Decision
	OutcomePending
	// OutcomeKept means the user chose to keep editing; nothing changed
	OutcomeKept
)

// String returns a human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeClosed:
		return "closed"
	case OutcomePending:
		return "pending"
	case OutcomeKept:
		return "kept"
	default:
		return "unknown"
	}
}

// Decision is the user's answer to the discard-changes question
type Decision int

const (
	// DecisionKeep aborts the close and keeps the draft
	DecisionKeep Decision = iota
	// DecisionDiscard resets the draft to the baseline and closes
	DecisionDiscard
)

// Decider asks the user whether unsaved changes may be discarded.
// Implementations return exactly one Decision, or an error if the question
// could not be asked (e.g. stdin closed, context cancelled).
type Decider interface {
	Decide(ctx context.Context) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(ctx context.Context) (Decision, error)

// Decide implements Decider
func (f DeciderFunc) Decide(ctx context.Context) (Decision, error) {
	return f(ctx)
}

// Option configures a Session
type Option func(*Session)

// WithCommitHook sets the function invoked with the document on every Commit.
// This is where the apply/reload collaborator is attached.
func WithCommitHook(fn func(Document)) Option {
	return func(s *Session) {
		s.onCommit = fn
	}
}

// WithCloseHook sets the function invoked after unsaved edits were discarded
func WithCloseHook(fn func()) Option {
	return func(s *Session) {
		s.onClose = fn
	}
}

// Session is one editing session of a configuration document
type Session struct {
	mu sync.Mutex

	committed Document
	draft     Document
	pending   bool

	confirmationRequired bool

	onCommit func(Document)
	onClose  func()
}

// Open starts an editing session with committed and draft both set to initial
func Open(initial Document, confirmationRequired bool, opts ...Option) *Session {
	s := &Session{
		committed:            initial,
		draft:                initial,
		confirmationRequired: confirmationRequired,
	}
	for _, opt := range opts {
		opt(s)
	}

	logging.LogDraft("opened", initial.Digest(),
		zap.Bool("confirmation_required", confirmationRequired),
	)
	return s
}

// Draft returns the document currently being edited
func (s *Session) Draft() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Committed returns the current baseline document
func (s *Session) Committed() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Dirty reports whether the draft differs from the baseline
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != s.committed
}

// State returns StateDirty when the draft has unsaved edits
func (s *Session) State() State {
	if s.Dirty() {
		return StateDirty
	}
	return StateClean
}

// ConfirmationRequired reports whether closing asks before discarding
func (s *Session) ConfirmationRequired() bool {
	return s.confirmationRequired
}

// Pending reports whether a close request is waiting for a decision
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Edit replaces the draft. Any text is accepted.
func (s *Session) Edit(value Document) {
	s.mu.Lock()
	s.draft = value
	s.mu.Unlock()
}

// Commit makes the draft the new baseline, passes it to the commit hook and
// returns it. Committing a clean session emits the same document again.
func (s *Session) Commit() Document {
	s.mu.Lock()
	doc := s.draft
	s.committed = doc
	hook := s.onCommit
	s.mu.Unlock()

	logging.LogDraft("committed", doc.Digest())

	if hook != nil {
		hook(doc)
	}
	return doc
}

// RequestClose starts the guarded close. Without confirmation the draft is
// reset immediately and OutcomeClosed is returned. With confirmation the close
// is marked pending and OutcomePending is returned; the answer must be passed
// to Resolve. Requesting again while pending does not start a second question.
func (s *Session) RequestClose() Outcome {
	s.mu.Lock()
	if !s.confirmationRequired {
		s.mu.Unlock()
		s.discard()
		return OutcomeClosed
	}
	s.pending = true
	s.mu.Unlock()

	logging.LogDraft("close_pending", s.Draft().Digest())
	return OutcomePending
}

// Resolve completes a pending close with the user's decision
func (s *Session) Resolve(decision Decision) (Outcome, error) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return OutcomeKept, ErrNoPendingClose
	}
	s.pending = false
	s.mu.Unlock()

	if decision != DecisionDiscard {
		logging.LogDraft("close_aborted", s.Draft().Digest())
		return OutcomeKept, nil
	}

	s.discard()
	return OutcomeClosed, nil
}

// Close runs the whole guarded close synchronously, asking decider when
// confirmation is required. If the decider fails the close is aborted and the
// session is left as it was.
func (s *Session) Close(ctx context.Context, decider Decider) (Outcome, error) {
	if s.RequestClose() == OutcomeClosed {
		return OutcomeClosed, nil
	}

	decision, err := decider.Decide(ctx)
	if err != nil {
		_, _ = s.Resolve(DecisionKeep)
		return OutcomeKept, err
	}
	return s.Resolve(decision)
}

// discard resets the draft to the baseline and runs the close hook
func (s *Session) discard() {
	s.mu.Lock()
	dropped := s.draft != s.committed
	s.draft = s.committed
	hook := s.onClose
	digest := s.committed.Digest()
	s.mu.Unlock()

	logging.LogDraft("discarded", digest, zap.Bool("dropped_edits", dropped))

	if hook != nil {
		hook()
	}
}
