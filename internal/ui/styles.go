package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color palette for line-mode output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, pending work
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	KeyColumnWidth   = 15
)

// Markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	PendingMarker = "●"
	WarningMarker = "⚠"
)

// Styles holds the styles bound to one renderer. Output written to a pipe
// gets an Ascii renderer so nothing but text reaches it.
type Styles struct {
	Title        lipgloss.Style
	Muted        lipgloss.Style
	Key          lipgloss.Style
	Value        lipgloss.Style
	Pending      lipgloss.Style
	SuccessTitle lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
	Warning      lipgloss.Style
	Prompt       lipgloss.Style
}

// NewStyles builds the style set for the given renderer
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:        r.NewStyle().Foreground(PrimaryColor).Bold(true),
		Muted:        r.NewStyle().Foreground(MutedColor),
		Key:          r.NewStyle().Foreground(MutedColor).Width(KeyColumnWidth),
		Value:        r.NewStyle().Foreground(TextColor),
		Pending:      r.NewStyle().Foreground(WarningColor).Italic(true),
		SuccessTitle: r.NewStyle().Foreground(SuccessColor).Bold(true),
		ErrorTitle:   r.NewStyle().Foreground(ErrorColor).Bold(true),
		ErrorMessage: r.NewStyle().Foreground(ErrorColor),
		Warning:      r.NewStyle().Foreground(WarningColor).Bold(true),
		Prompt:       r.NewStyle().Foreground(WarningColor).Bold(true),
	}
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorProfile picks the color profile for w: the environment's profile for
// terminals, plain Ascii for everything else.
func ColorProfile(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// NewRenderer returns a lipgloss renderer writing to w with the profile
// ColorProfile picks for it.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	profile := ColorProfile(w)
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return r
}

// GetTerminalWidth returns the width of w clamped to the supported range.
// Writers that are not terminals get MinTerminalWidth.
func GetTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return MinTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// SuccessBoxStyle returns the border style for success result boxes
func SuccessBoxStyle(r *lipgloss.Renderer, width int) lipgloss.Style {
	return r.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SuccessColor).
		Width(width-2).
		Padding(0, 2)
}

// ErrorBoxStyle returns the border style for error result boxes
func ErrorBoxStyle(r *lipgloss.Renderer, width int) lipgloss.Style {
	return r.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width-2).
		Padding(0, 2)
}

// CardStyle returns the rounded border used around the status card
func CardStyle(r *lipgloss.Renderer, width int) lipgloss.Style {
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2).
		Padding(0, 1)
}
