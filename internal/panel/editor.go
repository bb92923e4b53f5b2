package panel

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webnetes/webnetesctl/internal/draft"
	"github.com/webnetes/webnetesctl/internal/ui"
)

// EditorCommittedMsg is sent after the editor committed its draft
type EditorCommittedMsg struct {
	Document draft.Document
}

// EditorClosedMsg is sent after a close request was granted and the draft
// was reset to the committed document.
type EditorClosedMsg struct{}

// Confirm dialog buttons
const (
	confirmKeep = iota
	confirmDiscard
)

// editorKeyMap defines key bindings for the document editor
type editorKeyMap struct {
	Commit  key.Binding
	Close   key.Binding
	Preview key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Close, k.Preview}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Commit, k.Close, k.Preview},
	}
}

// confirmKeyMap defines key bindings for the discard dialog
type confirmKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Keep    key.Binding
	Discard key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Select, k.Keep, k.Discard}
}

// FullHelp returns keybindings for the expanded help view
func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Select},
		{k.Keep, k.Discard},
	}
}

// EditorModel edits a configuration document through a draft.Session. The
// textarea is the render surface; the session owns the draft and decides
// whether closing needs confirmation.
type EditorModel struct {
	Session *draft.Session
	Title   string

	Input   textarea.Model
	Preview viewport.Model

	ShowingPreview bool
	ShowingConfirm bool
	ConfirmCursor  int

	Width  int
	Height int

	Help        help.Model
	Keys        editorKeyMap
	ConfirmKeys confirmKeyMap
}

// NewEditorModel creates an editor bound to session
func NewEditorModel(title string, session *draft.Session) EditorModel {
	input := textarea.New()
	input.Placeholder = "node configuration (yaml)"
	input.ShowLineNumbers = true
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetHeight(DefaultEditorRows)
	input.SetWidth(MinTerminalWidth - 8)
	input.SetValue(session.Draft().String())
	input.Focus()

	preview := viewport.New(MinTerminalWidth-8, DefaultEditorRows)

	keys := editorKeyMap{
		Commit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save & apply"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "revert"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "preview"),
		),
	}

	confirmKeys := confirmKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "keep"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "discard"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "confirm"),
		),
		Keep: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "keep changes"),
		),
		Discard: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "discard changes"),
		),
	}

	return EditorModel{
		Session:     session,
		Title:       title,
		Input:       input,
		Preview:     preview,
		Help:        help.New(),
		Keys:        keys,
		ConfirmKeys: confirmKeys,
	}
}

// Init starts the cursor blinking
func (m EditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize resizes the textarea and preview to fit width x height
func (m *EditorModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height

	w := width - 8
	if w < 20 {
		w = 20
	}
	h := height
	if h < 3 {
		h = 3
	}
	m.Input.SetWidth(w)
	m.Input.SetHeight(h)
	m.Preview.Width = w
	m.Preview.Height = h
}

// Update handles messages and updates the model
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	if m.ShowingConfirm {
		return m.updateConfirm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.Keys.Commit):
			doc := m.Session.Commit()
			return m, func() tea.Msg { return EditorCommittedMsg{Document: doc} }

		case key.Matches(keyMsg, m.Keys.Close):
			return m.requestClose()

		case key.Matches(keyMsg, m.Keys.Preview):
			m.ShowingPreview = !m.ShowingPreview
			if m.ShowingPreview {
				m.Input.Blur()
				m.Preview.SetContent(highlightDocument(m.Session.Draft()))
				m.Preview.GotoTop()
				return m, nil
			}
			return m, m.Input.Focus()
		}
	}

	var cmd tea.Cmd
	if m.ShowingPreview {
		m.Preview, cmd = m.Preview.Update(msg)
		return m, cmd
	}

	m.Input, cmd = m.Input.Update(msg)
	m.Session.Edit(draft.Document(m.Input.Value()))
	return m, cmd
}

// requestClose asks the session to close. Without confirmation the draft is
// reset right away, otherwise the discard dialog opens.
func (m EditorModel) requestClose() (EditorModel, tea.Cmd) {
	switch m.Session.RequestClose() {
	case draft.OutcomePending:
		m.ShowingConfirm = true
		m.ConfirmCursor = confirmKeep
		return m, nil
	default:
		return m.closed()
	}
}

// updateConfirm handles input while the discard dialog is showing
func (m EditorModel) updateConfirm(msg tea.Msg) (EditorModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.ConfirmKeys.Left):
		m.ConfirmCursor = confirmKeep
	case key.Matches(keyMsg, m.ConfirmKeys.Right):
		m.ConfirmCursor = confirmDiscard
	case key.Matches(keyMsg, m.ConfirmKeys.Select):
		if m.ConfirmCursor == confirmDiscard {
			return m.resolve(draft.DecisionDiscard)
		}
		return m.resolve(draft.DecisionKeep)
	case key.Matches(keyMsg, m.ConfirmKeys.Discard):
		return m.resolve(draft.DecisionDiscard)
	case key.Matches(keyMsg, m.ConfirmKeys.Keep):
		return m.resolve(draft.DecisionKeep)
	}
	return m, nil
}

func (m EditorModel) resolve(decision draft.Decision) (EditorModel, tea.Cmd) {
	m.ShowingConfirm = false
	outcome, err := m.Session.Resolve(decision)
	if err != nil || outcome != draft.OutcomeClosed {
		return m, nil
	}
	return m.closed()
}

// closed syncs the textarea with the reset draft and reports the close
func (m EditorModel) closed() (EditorModel, tea.Cmd) {
	m.Input.SetValue(m.Session.Draft().String())
	return m, func() tea.Msg { return EditorClosedMsg{} }
}

// HelpView returns the key help for the editor's current mode
func (m EditorModel) HelpView() string {
	if m.ShowingConfirm {
		return m.Help.View(m.ConfirmKeys)
	}
	return m.Help.View(m.Keys)
}

// View renders the editor
func (m EditorModel) View() string {
	title := RenderTitle(m.Title)
	if m.Session.Dirty() {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", ModifiedStyle.Render("● modified"))
	}

	body := m.Input.View()
	if m.ShowingPreview {
		body = m.Preview.View()
	}

	doc := m.Session.Draft()
	status := SubtitleStyle.Render(fmt.Sprintf("%d lines • digest %s", doc.Lines(), doc.Digest()))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		InlineEditorStyle(!m.ShowingPreview).Render(body),
		status,
	)
}

// ConfirmView renders the discard dialog
func (m EditorModel) ConfirmView() string {
	title := lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("⚠ " + ui.DiscardTitle)
	message := lipgloss.NewStyle().Foreground(TextColor).Render(ui.DiscardMessage)

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton(ui.KeepLabel, m.ConfirmCursor == confirmKeep),
		RenderButton(ui.DiscardLabel, m.ConfirmCursor == confirmDiscard),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		message,
		"",
		buttons,
		"",
		HelpStyle.Render(m.Help.View(m.ConfirmKeys)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WarningColor).
		Padding(1, 2).
		Width(SafeModalWidth(60, m.Width)).
		Render(content)
}
