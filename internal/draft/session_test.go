package draft

import (
	"context"
	"errors"
	"testing"
)

// recorder captures collaborator calls made by a session
type recorder struct {
	commits []Document
	closes  int
}

func (r *recorder) options() []Option {
	return []Option{
		WithCommitHook(func(d Document) { r.commits = append(r.commits, d) }),
		WithCloseHook(func() { r.closes++ }),
	}
}

func TestOpen(t *testing.T) {
	s := Open("a: 1", true)

	if s.Draft() != "a: 1" {
		t.Errorf("Draft() = %q, want %q", s.Draft(), "a: 1")
	}
	if s.Committed() != "a: 1" {
		t.Errorf("Committed() = %q, want %q", s.Committed(), "a: 1")
	}
	if s.Dirty() {
		t.Error("new session should not be dirty")
	}
	if s.State() != StateClean {
		t.Errorf("State() = %v, want %v", s.State(), StateClean)
	}
	if !s.ConfirmationRequired() {
		t.Error("ConfirmationRequired() should be true")
	}
}

func TestEdit_DirtyTracksComparison(t *testing.T) {
	s := Open("a: 1", false)

	steps := []struct {
		value Document
		dirty bool
	}{
		{"a: 2", true},
		{"a: 1", false},
		{"", true},
		{"a: 1", false},
	}

	for _, step := range steps {
		s.Edit(step.value)
		if s.Dirty() != step.dirty {
			t.Errorf("after Edit(%q) Dirty() = %v, want %v", step.value, s.Dirty(), step.dirty)
		}
		if s.Dirty() != (s.Draft() != s.Committed()) {
			t.Errorf("Dirty() disagrees with draft/committed comparison after Edit(%q)", step.value)
		}
	}
}

func TestCommit(t *testing.T) {
	var rec recorder
	s := Open("a: 1", true, rec.options()...)

	s.Edit("a: 2")
	if !s.Dirty() {
		t.Fatal("session should be dirty after edit")
	}

	got := s.Commit()
	if got != "a: 2" {
		t.Errorf("Commit() = %q, want %q", got, "a: 2")
	}
	if s.Committed() != "a: 2" {
		t.Errorf("Committed() = %q, want %q", s.Committed(), "a: 2")
	}
	if s.Dirty() {
		t.Error("session should be clean after commit")
	}
	if len(rec.commits) != 1 || rec.commits[0] != "a: 2" {
		t.Errorf("commit hook calls = %v, want [a: 2]", rec.commits)
	}
}

func TestCommit_Twice(t *testing.T) {
	var rec recorder
	s := Open("a: 1", false, rec.options()...)
	s.Edit("a: 3")

	first := s.Commit()
	second := s.Commit()

	if first != second {
		t.Errorf("second Commit() = %q, want %q", second, first)
	}
	if s.Committed() != "a: 3" {
		t.Errorf("Committed() = %q, want %q", s.Committed(), "a: 3")
	}
	if len(rec.commits) != 2 {
		t.Fatalf("commit hook called %d times, want 2", len(rec.commits))
	}
	if rec.commits[0] != rec.commits[1] {
		t.Errorf("commit hook received %q then %q, want equal values", rec.commits[0], rec.commits[1])
	}
}

func TestRequestClose_WithoutConfirmation(t *testing.T) {
	var rec recorder
	s := Open("a: 1", false, rec.options()...)
	s.Edit("a: 2")

	outcome := s.RequestClose()

	if outcome != OutcomeClosed {
		t.Errorf("RequestClose() = %v, want %v", outcome, OutcomeClosed)
	}
	if s.Pending() {
		t.Error("close should never be pending without confirmation")
	}
	if s.Draft() != "a: 1" {
		t.Errorf("Draft() = %q, want reset to %q", s.Draft(), "a: 1")
	}
	if rec.closes != 1 {
		t.Errorf("close hook called %d times, want 1", rec.closes)
	}
}

func TestRequestClose_WithConfirmation(t *testing.T) {
	tests := []struct {
		name        string
		decision    Decision
		wantOutcome Outcome
		wantDraft   Document
		wantCloses  int
	}{
		{
			name:        "keep editing",
			decision:    DecisionKeep,
			wantOutcome: OutcomeKept,
			wantDraft:   "a: 2",
			wantCloses:  0,
		},
		{
			name:        "discard",
			decision:    DecisionDiscard,
			wantOutcome: OutcomeClosed,
			wantDraft:   "a: 1",
			wantCloses:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			s := Open("a: 1", true, rec.options()...)
			s.Edit("a: 2")

			if got := s.RequestClose(); got != OutcomePending {
				t.Fatalf("RequestClose() = %v, want %v", got, OutcomePending)
			}
			if !s.Pending() {
				t.Fatal("Pending() should be true after RequestClose")
			}
			if s.Draft() != "a: 2" {
				t.Errorf("pending close must not touch the draft, got %q", s.Draft())
			}
			if rec.closes != 0 {
				t.Error("close hook must not run before a decision")
			}

			outcome, err := s.Resolve(tt.decision)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("Resolve() = %v, want %v", outcome, tt.wantOutcome)
			}
			if s.Draft() != tt.wantDraft {
				t.Errorf("Draft() = %q, want %q", s.Draft(), tt.wantDraft)
			}
			if rec.closes != tt.wantCloses {
				t.Errorf("close hook called %d times, want %d", rec.closes, tt.wantCloses)
			}
			if s.Pending() {
				t.Error("Pending() should be false after Resolve")
			}
		})
	}
}

func TestRequestClose_RepeatedWhilePending(t *testing.T) {
	s := Open("a: 1", true)
	s.Edit("a: 2")

	s.RequestClose()
	if got := s.RequestClose(); got != OutcomePending {
		t.Errorf("second RequestClose() = %v, want %v", got, OutcomePending)
	}

	if _, err := s.Resolve(DecisionKeep); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := s.Resolve(DecisionKeep); !errors.Is(err, ErrNoPendingClose) {
		t.Errorf("second Resolve() error = %v, want ErrNoPendingClose", err)
	}
}

func TestResolve_WithoutPending(t *testing.T) {
	var rec recorder
	s := Open("a: 1", true, rec.options()...)
	s.Edit("a: 2")

	outcome, err := s.Resolve(DecisionDiscard)

	if !errors.Is(err, ErrNoPendingClose) {
		t.Errorf("Resolve() error = %v, want ErrNoPendingClose", err)
	}
	if outcome != OutcomeKept {
		t.Errorf("Resolve() = %v, want %v", outcome, OutcomeKept)
	}
	if s.Draft() != "a: 2" {
		t.Errorf("draft must survive an unsolicited discard, got %q", s.Draft())
	}
	if rec.closes != 0 {
		t.Error("close hook must not run without a pending close")
	}
}

func TestEditWhilePending_AffectsDiscard(t *testing.T) {
	s := Open("a: 1", true)
	s.Edit("a: 2")
	s.RequestClose()

	s.Edit("a: 3")
	if s.Draft() != "a: 3" {
		t.Fatalf("edit during pending close ignored, Draft() = %q", s.Draft())
	}

	if _, err := s.Resolve(DecisionKeep); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Draft() != "a: 3" {
		t.Errorf("keep should retain the latest edit, got %q", s.Draft())
	}

	s.RequestClose()
	s.Edit("a: 4")
	if _, err := s.Resolve(DecisionDiscard); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Draft() != "a: 1" {
		t.Errorf("discard should reset to baseline, got %q", s.Draft())
	}
}

func TestDiscard_AfterCommitUsesNewBaseline(t *testing.T) {
	s := Open("a: 1", false)
	s.Edit("a: 2")
	s.Commit()
	s.Edit("a: 3")

	s.RequestClose()

	if s.Draft() != "a: 2" {
		t.Errorf("Draft() = %q, want last committed %q", s.Draft(), "a: 2")
	}
	if s.Dirty() {
		t.Error("session should be clean after discard")
	}
}

func TestClose(t *testing.T) {
	errPrompt := errors.New("stdin closed")

	tests := []struct {
		name         string
		confirmation bool
		decider      DeciderFunc
		wantOutcome  Outcome
		wantErr      error
		wantDraft    Document
		wantAsked    bool
	}{
		{
			name:         "no confirmation never asks",
			confirmation: false,
			decider:      func(context.Context) (Decision, error) { return DecisionKeep, nil },
			wantOutcome:  OutcomeClosed,
			wantDraft:    "a: 1",
			wantAsked:    false,
		},
		{
			name:         "keep",
			confirmation: true,
			decider:      func(context.Context) (Decision, error) { return DecisionKeep, nil },
			wantOutcome:  OutcomeKept,
			wantDraft:    "a: 2",
			wantAsked:    true,
		},
		{
			name:         "discard",
			confirmation: true,
			decider:      func(context.Context) (Decision, error) { return DecisionDiscard, nil },
			wantOutcome:  OutcomeClosed,
			wantDraft:    "a: 1",
			wantAsked:    true,
		},
		{
			name:         "decider failure keeps draft",
			confirmation: true,
			decider:      func(context.Context) (Decision, error) { return DecisionDiscard, errPrompt },
			wantOutcome:  OutcomeKept,
			wantErr:      errPrompt,
			wantDraft:    "a: 2",
			wantAsked:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open("a: 1", tt.confirmation)
			s.Edit("a: 2")

			asked := false
			decider := DeciderFunc(func(ctx context.Context) (Decision, error) {
				asked = true
				if !s.Pending() {
					t.Error("session should be pending while the decider runs")
				}
				return tt.decider(ctx)
			})

			outcome, err := s.Close(context.Background(), decider)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Close() error = %v, want %v", err, tt.wantErr)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("Close() = %v, want %v", outcome, tt.wantOutcome)
			}
			if s.Draft() != tt.wantDraft {
				t.Errorf("Draft() = %q, want %q", s.Draft(), tt.wantDraft)
			}
			if asked != tt.wantAsked {
				t.Errorf("decider asked = %v, want %v", asked, tt.wantAsked)
			}
			if s.Pending() {
				t.Error("Close() must not leave a pending close behind")
			}
		})
	}
}

func TestClose_EditDuringDecision(t *testing.T) {
	s := Open("a: 1", true)
	s.Edit("a: 2")

	decider := DeciderFunc(func(context.Context) (Decision, error) {
		s.Edit("a: 5")
		return DecisionKeep, nil
	})

	if _, err := s.Close(context.Background(), decider); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.Draft() != "a: 5" {
		t.Errorf("Draft() = %q, want edit made during the dialog", s.Draft())
	}
}

func TestDocument_Digest(t *testing.T) {
	a := Document("a: 1")
	b := Document("a: 2")

	if a.Digest() != Document("a: 1").Digest() {
		t.Error("equal documents must have equal digests")
	}
	if a.Digest() == b.Digest() {
		t.Error("different documents should have different digests")
	}
	if len(a.Digest()) != digestLength*2 {
		t.Errorf("Digest() length = %d, want %d", len(a.Digest()), digestLength*2)
	}
}

func TestDocument_Lines(t *testing.T) {
	tests := []struct {
		doc  Document
		want int
	}{
		{"", 0},
		{"a: 1", 1},
		{"a: 1\n", 1},
		{"a: 1\nb: 2", 2},
		{"a: 1\nb: 2\n", 2},
		{"\n\n", 2},
	}

	for _, tt := range tests {
		if got := tt.doc.Lines(); got != tt.want {
			t.Errorf("Document(%q).Lines() = %d, want %d", tt.doc, got, tt.want)
		}
	}
}

func TestStateAndOutcomeStrings(t *testing.T) {
	if StateDirty.String() != "dirty" || StateClean.String() != "clean" {
		t.Errorf("unexpected state names %q %q", StateClean, StateDirty)
	}
	if OutcomePending.String() != "pending" || OutcomeKept.String() != "kept" || OutcomeClosed.String() != "closed" {
		t.Error("unexpected outcome names")
	}
}
