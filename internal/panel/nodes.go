package panel

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webnetes/webnetesctl/internal/discovery"
)

// ScanFunc looks for nodes on the local network
type ScanFunc func(ctx context.Context) ([]*discovery.Node, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	nodes []*discovery.Node
	err   error
}

// NodeSelectedMsg is sent when the operator picks an apply target
type NodeSelectedMsg struct {
	ID         string
	ControlURL string
}

// nodesBackMsg returns from the nodes screen without a selection
type nodesBackMsg struct{}

// nodesKeyMap defines key bindings for the node list
type nodesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k nodesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k nodesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Back},
	}
}

// manualModeKeyMap defines key bindings for manual control URL entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// nodeItem wraps a Node for use with bubbles/list
type nodeItem struct {
	node *discovery.Node
}

// FilterValue implements list.Item
func (n nodeItem) FilterValue() string {
	return n.node.ID + " " + n.node.Address + " " + n.node.Hostname
}

// nodeDelegate renders discovered nodes as cards
type nodeDelegate struct {
	width int
}

func (d nodeDelegate) Height() int { return 6 }

func (d nodeDelegate) Spacing() int { return 1 }

func (d nodeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d nodeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(nodeItem)
	if !ok {
		return
	}
	node := ni.node
	selected := index == m.Index()

	runtime := node.GetMetadata("version")
	if runtime == "" {
		runtime = "unknown"
	}

	var content strings.Builder
	if selected {
		content.WriteString(lipgloss.NewStyle().Foreground(HighlightColor).Bold(true).Render("→ " + node.ID))
	} else {
		content.WriteString("  " + node.ID)
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Address:  %s:%d\n", node.Address, node.Port))
	content.WriteString(fmt.Sprintf("  Control:  %s\n", node.ControlURL()))
	content.WriteString(fmt.Sprintf("  Runtime:  %s", runtime))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	_, _ = fmt.Fprint(w, cardStyle.Render(content.String()))
}

// NodesModel is the node discovery screen
type NodesModel struct {
	ctx     context.Context
	scan    ScanFunc
	timeout time.Duration

	Scanning bool
	NodeList list.Model
	Err      error

	ManualMode bool
	URLInput   textinput.Model

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time

	Help       help.Model
	Keys       nodesKeyMap
	ManualKeys manualModeKeyMap
}

// NewNodesModel creates the discovery screen. timeout is only used to draw
// the progress bar; scan enforces its own deadline.
func NewNodesModel(ctx context.Context, scan ScanFunc, timeout time.Duration) NodesModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "ws://192.168.1.40:8080/control"
	urlInput.CharLimit = 2048
	urlInput.Width = 50

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	nodeList := list.New([]list.Item{}, nodeDelegate{width: MinTerminalWidth}, 0, 0)
	nodeList.Title = "Discovered Nodes"
	nodeList.SetShowStatusBar(false)
	nodeList.SetFilteringEnabled(true)
	nodeList.Styles.Title = TitleStyle

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return NodesModel{
		ctx:         ctx,
		scan:        scan,
		timeout:     timeout,
		NodeList:    nodeList,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: nodesKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "apply here"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "manual URL"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc", "q"),
				key.WithHelp("esc", "back"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts a scan
func (m NodesModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanCmd(),
		m.Spinner.Tick,
	)
}

func (m NodesModel) scanCmd() tea.Cmd {
	scan := m.scan
	ctx := m.ctx
	return func() tea.Msg {
		if scan == nil {
			return scanCompleteMsg{err: fmt.Errorf("node discovery is not available")}
		}
		nodes, err := scan(ctx)
		return scanCompleteMsg{nodes: nodes, err: err}
	}
}

// Update handles messages and updates the model
func (m NodesModel) Update(msg tea.Msg) (NodesModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		if !m.Scanning && m.NodeList.FilterState() == list.Filtering {
			m.NodeList, cmd = m.NodeList.Update(msg)
			return m, cmd
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.NodeList.SetSize(msg.Width-4, msg.Height-10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.nodes))
		for i, node := range msg.nodes {
			items[i] = nodeItem{node: node}
		}
		cmd = m.NodeList.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in the node list
func (m NodesModel) updateNormalMode(msg tea.KeyMsg) (NodesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		return m, func() tea.Msg { return nodesBackMsg{} }

	case m.Scanning:
		// only back works while scanning
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if node := m.SelectedNode(); node != nil {
			selected := NodeSelectedMsg{ID: node.ID, ControlURL: node.ControlURL()}
			return m, func() tea.Msg { return selected }
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.Err = nil
		return m, tea.Batch(
			m.NodeList.SetItems([]list.Item{}),
			func() tea.Msg { return scanStartMsg{} },
			m.scanCmd(),
			m.Spinner.Tick,
		)

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()
	}

	var cmd tea.Cmd
	m.NodeList, cmd = m.NodeList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m NodesModel) updateManualMode(msg tea.KeyMsg) (NodesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		selected := NodeSelectedMsg{ControlURL: value}
		return m, func() tea.Msg { return selected }
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// SelectedNode returns the highlighted node, or nil
func (m NodesModel) SelectedNode() *discovery.Node {
	if item, ok := m.NodeList.SelectedItem().(nodeItem); ok {
		return item.node
	}
	return nil
}

// HelpView returns the key help for the current mode
func (m NodesModel) HelpView() string {
	if m.ManualMode {
		return m.Help.View(m.ManualKeys)
	}
	return m.Help.View(m.Keys)
}

// View renders the nodes screen content
func (m NodesModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	switch {
	case m.ManualMode:
		return lipgloss.JoinVertical(lipgloss.Left,
			RenderSubtitle("Enter the node control URL"),
			"",
			"  Control URL: "+m.URLInput.View(),
		)
	case m.Scanning:
		return m.renderScanning(width)
	default:
		return m.renderResults()
	}
}

// renderScanning renders a centered scanning progress display
func (m NodesModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := float64(elapsed) / float64(m.timeout)
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR NODES", m.Spinner.View())),
		SubtitleStyle.Render("Browsing "+discovery.ServiceType+" on the local network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the node list or the troubleshooting hints
func (m NodesModel) renderResults() string {
	troubleshooting := strings.Join([]string{
		"  Troubleshooting:",
		"    • Ensure the node is running and advertising " + discovery.ServiceType,
		"    • mDNS does not cross routers or VPNs, use m to enter a control URL",
		"    • Press r to scan again",
	}, "\n")

	if m.Err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			ErrorBoxStyle.Render(fmt.Sprintf("✗ Scan failed: %v", m.Err)),
			"",
			troubleshooting,
		)
	}
	if len(m.NodeList.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("  ⚠ No nodes found on your network"),
			"",
			troubleshooting,
		)
	}
	return m.NodeList.View()
}
