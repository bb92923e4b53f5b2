package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/webnetes/webnetesctl/internal/draft"
)

// Discard dialog text, shared with the panel's confirm modal
const (
	DiscardTitle   = "Unsaved changes"
	DiscardMessage = "Are you sure you wish to discard your changes?"
	KeepLabel      = "Keep changes"
	DiscardLabel   = "Discard changes"
)

// PromptDecider asks the discard question on a line-mode terminal. Only an
// explicit "y" or "yes" discards; anything else keeps the draft.
type PromptDecider struct {
	In  io.Reader
	Out io.Writer
}

// NewPromptDecider returns a decider reading stdin and writing stdout
func NewPromptDecider() *PromptDecider {
	return &PromptDecider{In: os.Stdin, Out: os.Stdout}
}

// Decide implements draft.Decider
func (d *PromptDecider) Decide(ctx context.Context) (draft.Decision, error) {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	in := d.In
	if in == nil {
		in = os.Stdin
	}

	styles := NewStyles(NewRenderer(out))
	_, _ = fmt.Fprintln(out, styles.Warning.Render(WarningMarker+"  "+DiscardTitle))
	_, _ = fmt.Fprintln(out, DiscardMessage)
	_, _ = fmt.Fprint(out, styles.Prompt.Render("Discard changes? [y/N]: "))

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		answers <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out)
		return draft.DecisionKeep, ctx.Err()
	case a := <-answers:
		_, _ = fmt.Fprintln(out)
		if a.err != nil && (a.err != io.EOF || a.line == "") {
			return draft.DecisionKeep, fmt.Errorf("failed to read answer: %w", a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return draft.DecisionDiscard, nil
		default:
			return draft.DecisionKeep, nil
		}
	}
}
