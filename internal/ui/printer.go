package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/webnetes/webnetesctl/internal/status"
)

// Printer renders line-mode output for the non-interactive commands.
type Printer struct {
	out      io.Writer
	width    int
	renderer *lipgloss.Renderer
	styles   Styles
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	r := NewRenderer(w)
	return &Printer{
		out:      w,
		width:    GetTerminalWidth(w),
		renderer: r,
		styles:   NewStyles(r),
	}
}

// Width returns the content width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintStatus prints the status card for a snapshot
func (p *Printer) PrintStatus(snap status.Snapshot, info NodeInfo) {
	p.Println(p.RenderStatus(snap, info))
}

// RenderStatus renders the status card
func (p *Printer) RenderStatus(snap status.Snapshot, info NodeInfo) string {
	lines := []string{p.styles.SuccessTitle.Render(SuccessMarker + " Connected!"), ""}
	for _, f := range StatusFields(snap, info) {
		lines = append(lines, p.renderField(f))
	}
	return CardStyle(p.renderer, p.width).Render(strings.Join(lines, "\n"))
}

func (p *Printer) renderField(f Field) string {
	value := p.styles.Value.Render(f.Value)
	if f.Pending {
		value = p.styles.Pending.Render(f.Value)
	}
	return p.styles.Key.Render(f.Key+":") + " " + value
}

// PrintSuccess prints a success result box. Details are shown in order.
func (p *Printer) PrintSuccess(title string, details []Field) {
	lines := []string{"", p.styles.SuccessTitle.Render(SuccessMarker + "  " + title), ""}
	for _, f := range details {
		lines = append(lines, p.renderField(f))
	}
	lines = append(lines, "")
	p.Println(SuccessBoxStyle(p.renderer, p.width).Render(strings.Join(lines, "\n")))
}

// PrintError prints an error result box with an optional hint
func (p *Printer) PrintError(title string, err error, hint string) {
	lines := []string{"", p.styles.ErrorTitle.Render(FailureMarker + "  " + title), ""}
	if err != nil {
		lines = append(lines, p.styles.ErrorMessage.Render("Error: "+err.Error()), "")
	}
	if hint != "" {
		lines = append(lines, p.styles.Muted.Render(hint), "")
	}
	p.Println(ErrorBoxStyle(p.renderer, p.width).Render(strings.Join(lines, "\n")))
}

// PrintTable prints a header row followed by aligned rows. Used for node
// listings.
func (p *Printer) PrintTable(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) && lipgloss.Width(row[i]) > widths[i] {
				widths[i] = lipgloss.Width(row[i])
			}
		}
	}

	format := func(cells []string) string {
		out := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			out[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(out, "  "), " ")
	}

	p.Println(p.styles.Title.Render(format(header)))
	for _, row := range rows {
		p.Println(format(row))
	}
}
