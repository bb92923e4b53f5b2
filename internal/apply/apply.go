package apply

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/webnetes/webnetesctl/internal/draft"
	"github.com/webnetes/webnetesctl/internal/logging"
)

// Applier delivers a committed configuration document to a node
type Applier interface {
	Apply(ctx context.Context, doc draft.Document) error
}

// Func adapts a function to the Applier interface
type Func func(ctx context.Context, doc draft.Document) error

// Apply implements Applier
func (f Func) Apply(ctx context.Context, doc draft.Document) error {
	return f(ctx, doc)
}

// Result describes one apply run, for the result screen and CLI output
type Result struct {
	Target   string
	Digest   string
	Duration time.Duration
	Err      error
}

// OK reports whether the document was delivered everywhere
func (r Result) OK() bool {
	return r.Err == nil
}

// Run applies doc with a and reports how it went
func Run(ctx context.Context, a Applier, doc draft.Document) Result {
	start := time.Now()
	err := a.Apply(ctx, doc)
	res := Result{
		Target:   Describe(a),
		Digest:   doc.Digest(),
		Duration: time.Since(start),
		Err:      err,
	}
	logging.LogApply(res.Target, res.Digest, err)
	return res
}

// Describe names the target of an applier for logs and the result screen
func Describe(a Applier) string {
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", a)
}

// Multi applies a document with several appliers in order. Every applier
// runs even when an earlier one fails; the failures are combined.
type Multi []Applier

// Apply implements Applier
func (m Multi) Apply(ctx context.Context, doc draft.Document) error {
	var errs error
	digest := doc.Digest()
	for _, a := range m {
		err := a.Apply(ctx, doc)
		if len(m) > 1 {
			logging.LogApply(Describe(a), digest, err)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", Describe(a), err))
		}
	}
	return errs
}

// String lists the targets
func (m Multi) String() string {
	switch len(m) {
	case 0:
		return "nowhere"
	case 1:
		return Describe(m[0])
	}
	s := Describe(m[0])
	for _, a := range m[1:] {
		s += ", " + Describe(a)
	}
	return s
}

// Errors splits a combined apply error into the per-target failures
func Errors(err error) []error {
	return multierr.Errors(err)
}
