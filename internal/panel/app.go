package panel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webnetes/webnetesctl/internal/apply"
	"github.com/webnetes/webnetesctl/internal/draft"
	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/ui"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenConfig Screen = "config"
	ScreenEditor Screen = "editor"
	ScreenNodes  Screen = "nodes"
	ScreenResult Screen = "result"
)

// applyCompleteMsg carries the outcome of a background apply
type applyCompleteMsg struct {
	result apply.Result
}

// Config wires the panel to its collaborators
type Config struct {
	// Context bounds every lookup and apply the panel starts
	Context context.Context

	Pipeline *status.Pipeline
	Info     ui.NodeInfo

	Document draft.Document
	Applier  apply.Applier

	// StartScreen is ScreenConfig or ScreenEditor
	StartScreen Screen
	// SkipConfirmation lets the standalone editor close without asking.
	// The config page always asks before reverting.
	SkipConfirmation bool

	// Scan and ScanTimeout drive the nodes screen
	Scan        ScanFunc
	ScanTimeout time.Duration
	// Retarget builds the applier for a node picked on the nodes screen.
	// Nil keeps the configured applier.
	Retarget func(controlURL string) apply.Applier
}

// configKeyMap defines key bindings for the config page
type configKeyMap struct {
	Locate key.Binding
	Nodes  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k configKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Locate, k.Nodes, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k configKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Locate, k.Nodes, k.Quit},
	}
}

// resultKeyMap defines key bindings for the result screen
type resultKeyMap struct {
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	cfg Config

	CurrentScreen  Screen
	PreviousScreen Screen

	Status StatusModel
	Editor EditorModel
	Nodes  NodesModel

	Applier  apply.Applier
	Applying bool
	Spinner  spinner.Model

	// LastResult is the outcome of the most recent apply
	LastResult *apply.Result
	// Closed is set when the standalone editor was closed without a commit
	Closed bool

	Width  int
	Height int

	Help       help.Model
	ConfigKeys configKeyMap
	ResultKeys resultKeyMap
}

// NewAppModel creates the panel. The draft session is confirmation-guarded
// on the config page and follows SkipConfirmation in the standalone editor.
func NewAppModel(cfg Config) AppModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.StartScreen == "" {
		cfg.StartScreen = ScreenConfig
	}

	confirm := true
	title := "Node configuration"
	if cfg.StartScreen == ScreenEditor {
		confirm = !cfg.SkipConfirmation
		title = "Edit node configuration"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := AppModel{
		cfg:           cfg,
		CurrentScreen: cfg.StartScreen,
		Editor:        NewEditorModel(title, draft.Open(cfg.Document, confirm)),
		Applier:       cfg.Applier,
		Spinner:       s,
		Help:          help.New(),
		ConfigKeys: configKeyMap{
			Locate: key.NewBinding(
				key.WithKeys("ctrl+l"),
				key.WithHelp("ctrl+l", "locate me"),
			),
			Nodes: key.NewBinding(
				key.WithKeys("ctrl+n"),
				key.WithHelp("ctrl+n", "nodes"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
		ResultKeys: resultKeyMap{
			Back: key.NewBinding(
				key.WithKeys("enter", "esc"),
				key.WithHelp("enter", "back"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}

	if cfg.StartScreen == ScreenConfig && cfg.Pipeline != nil {
		m.Status = NewStatusModel(cfg.Context, cfg.Pipeline, cfg.Info)
	}

	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Editor.Init()}
	if m.hasStatus() {
		cmds = append(cmds, m.Status.Init())
	}
	return tea.Batch(cmds...)
}

func (m AppModel) hasStatus() bool {
	return m.Status.pipeline != nil
}

// Session returns the draft session behind the editor
func (m AppModel) Session() *draft.Session {
	return m.Editor.Session
}

// Shutdown releases the status subscription
func (m AppModel) Shutdown() {
	if m.hasStatus() {
		m.Status.Close()
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Status.Width = msg.Width
		m.Editor.SetSize(msg.Width, m.editorRows())
		if m.CurrentScreen == ScreenNodes {
			m.Nodes, _ = m.Nodes.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.ConfigKeys.Quit) {
			return m, tea.Quit
		}

	case snapshotMsg:
		var cmd tea.Cmd
		m.Status, cmd = m.Status.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.Status, cmd = m.Status.Update(msg)
		cmds = append(cmds, cmd)
		if m.CurrentScreen == ScreenNodes {
			m.Nodes, cmd = m.Nodes.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case EditorCommittedMsg:
		return m.startApply(msg.Document)

	case EditorClosedMsg:
		if m.CurrentScreen == ScreenEditor {
			m.Closed = true
			return m, tea.Quit
		}
		return m, nil

	case applyCompleteMsg:
		m.Applying = false
		result := msg.result
		m.LastResult = &result
		return m.transitionTo(ScreenResult)

	case NodeSelectedMsg:
		if m.cfg.Retarget != nil {
			m.Applier = m.cfg.Retarget(msg.ControlURL)
		}
		if msg.ID != "" {
			m.Status.Info.ID = msg.ID
		}
		return m.transitionTo(ScreenConfig)

	case nodesBackMsg:
		return m.transitionTo(ScreenConfig)
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenConfig:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.Editor.ShowingConfirm && !m.Applying {
			switch {
			case key.Matches(keyMsg, m.ConfigKeys.Locate):
				if m.hasStatus() {
					m.Status.Locate()
				}
				return m, nil
			case key.Matches(keyMsg, m.ConfigKeys.Nodes):
				return m.transitionTo(ScreenNodes)
			}
		}
		if m.Applying {
			return m, nil
		}
		m.Editor, cmd = m.Editor.Update(msg)

	case ScreenEditor:
		if m.Applying {
			return m, nil
		}
		m.Editor, cmd = m.Editor.Update(msg)

	case ScreenNodes:
		m.Nodes, cmd = m.Nodes.Update(msg)

	case ScreenResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.ResultKeys.Quit):
				return m, tea.Quit
			case key.Matches(keyMsg, m.ResultKeys.Back):
				if m.PreviousScreen == ScreenEditor {
					return m, tea.Quit
				}
				return m.transitionTo(ScreenConfig)
			}
		}
	}

	return m, cmd
}

// startApply runs the applier for a committed document in the background
func (m AppModel) startApply(doc draft.Document) (tea.Model, tea.Cmd) {
	if m.Applier == nil {
		result := apply.Result{Target: "nowhere", Digest: doc.Digest()}
		m.LastResult = &result
		return m.transitionTo(ScreenResult)
	}

	m.Applying = true
	ctx := m.cfg.Context
	applier := m.Applier
	return m, tea.Batch(
		func() tea.Msg {
			return applyCompleteMsg{result: apply.Run(ctx, applier, doc)}
		},
		m.Spinner.Tick,
	)
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenNodes:
		m.Nodes = NewNodesModel(m.cfg.Context, m.cfg.Scan, m.cfg.ScanTimeout)
		if m.Width > 0 {
			m.Nodes, _ = m.Nodes.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
		}
		cmd = m.Nodes.Init()
	case ScreenConfig, ScreenEditor:
		cmd = m.Editor.Input.Focus()
	}
	return m, cmd
}

// editorRows is the textarea height that fits under the status card
func (m AppModel) editorRows() int {
	rows := m.Height - 12
	if m.hasStatus() {
		rows -= lipgloss.Height(m.Status.View())
	}
	if rows < DefaultEditorRows/2 {
		rows = DefaultEditorRows / 2
	}
	return rows
}

// View renders the current screen
func (m AppModel) View() string {
	if m.Editor.ShowingConfirm {
		return RenderModal(m.Editor.ConfirmView(), m.Width, m.Height)
	}

	switch m.CurrentScreen {
	case ScreenConfig:
		return RenderApplicationContainer(m.renderConfigPage(), m.configHelp(), m.Width, m.Height)
	case ScreenEditor:
		return RenderApplicationContainer(m.renderEditorPage(), m.Editor.HelpView(), m.Width, m.Height)
	case ScreenNodes:
		return RenderApplicationContainer(m.Nodes.View(), m.Nodes.HelpView(), m.Width, m.Height)
	case ScreenResult:
		return RenderApplicationContainer(m.renderResult(), m.Help.View(m.ResultKeys), m.Width, m.Height)
	default:
		return "Unknown screen"
	}
}

func (m AppModel) configHelp() string {
	return m.Editor.HelpView() + HelpStyle.Render(" • ") + m.Help.View(m.ConfigKeys)
}

func (m AppModel) renderConfigPage() string {
	parts := []string{}
	if m.hasStatus() {
		parts = append(parts, m.Status.View(), "")
	}
	parts = append(parts, m.Editor.View())
	if m.Applying {
		parts = append(parts, "", m.renderApplying())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m AppModel) renderEditorPage() string {
	parts := []string{m.Editor.View()}
	if m.Applying {
		parts = append(parts, "", m.renderApplying())
	} else {
		parts = append(parts, "", ExampleHint())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m AppModel) renderApplying() string {
	target := apply.Describe(m.Applier)
	return TitleStyle.Render(fmt.Sprintf("%s Applying configuration to %s", m.Spinner.View(), target))
}

// renderResult renders the apply outcome
func (m AppModel) renderResult() string {
	r := m.LastResult
	if r == nil {
		return ""
	}

	details := []string{
		fmt.Sprintf("  Target:   %s", r.Target),
		fmt.Sprintf("  Digest:   %s", r.Digest),
		fmt.Sprintf("  Duration: %s", r.Duration.Round(time.Millisecond)),
	}

	if r.OK() {
		return lipgloss.JoinVertical(lipgloss.Left,
			RenderTitle("✓ Configuration Applied"),
			SuccessBoxStyle.Render("The node received the new configuration."),
			"",
			strings.Join(details, "\n"),
		)
	}

	var failures []string
	for _, err := range apply.Errors(r.Err) {
		failures = append(failures, "  • "+err.Error())
	}

	parts := []string{
		RenderTitle("✗ Configuration Apply Failed"),
		ErrorBoxStyle.Render(fmt.Sprintf("Error: %v", r.Err)),
		"",
		strings.Join(failures, "\n"),
		"",
		strings.Join(details, "\n"),
		"",
	}
	if hint := apply.GetTroubleshootingHint(r.Err); hint != "" {
		parts = append(parts, HelpStyle.Render(hint), "")
	}
	parts = append(parts, SubtitleStyle.Render("The draft was saved locally; fix the node and commit again."))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
