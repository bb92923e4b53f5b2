package panel

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/ui"
)

// snapshotMsg carries a snapshot published by the status store
type snapshotMsg status.Snapshot

// waitForSnapshot blocks on the subscription and delivers the next snapshot.
// A closed subscription ends the loop.
func waitForSnapshot(updates <-chan status.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// StatusModel renders the status card and forwards locate requests to the
// pipeline. It never writes status fields itself.
type StatusModel struct {
	ctx      context.Context
	pipeline *status.Pipeline
	updates  <-chan status.Snapshot
	cancel   func()

	Snapshot status.Snapshot
	Info     ui.NodeInfo
	Spinner  spinner.Model
	Width    int
}

// NewStatusModel subscribes to the pipeline's store. Call Close when the
// panel exits.
func NewStatusModel(ctx context.Context, pipeline *status.Pipeline, info ui.NodeInfo) StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	updates, cancel := pipeline.Store().Subscribe()
	return StatusModel{
		ctx:      ctx,
		pipeline: pipeline,
		updates:  updates,
		cancel:   cancel,
		Snapshot: pipeline.Snapshot(),
		Info:     info,
		Spinner:  s,
	}
}

// Init mounts the pipeline and starts listening for snapshots
func (m StatusModel) Init() tea.Cmd {
	m.pipeline.Start(m.ctx)
	return tea.Batch(waitForSnapshot(m.updates), m.Spinner.Tick)
}

// Locate triggers a locate. Pressing it again while a locate is running
// starts another one; whichever finishes last wins.
func (m StatusModel) Locate() {
	m.pipeline.Locate(m.ctx)
}

// Close ends the snapshot subscription
func (m StatusModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update handles messages and updates the model
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.Snapshot = status.Snapshot(msg)
		return m, waitForSnapshot(m.updates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the status card
func (m StatusModel) View() string {
	lines := []string{ConnectedStyle.Render("✓ Connected!"), ""}

	for _, f := range ui.StatusFields(m.Snapshot, m.Info) {
		value := CardValueStyle.Render(f.Value)
		if f.Pending {
			value = PendingValueStyle.Render(f.Value)
		}
		lines = append(lines, CardKeyStyle.Render(f.Key+":")+" "+value)
	}

	lines = append(lines, "", m.locateButton())

	return CardStyle.Render(strings.Join(lines, "\n"))
}

func (m StatusModel) locateButton() string {
	if m.Snapshot.Locating {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.Spinner.View(), " ", SubtitleStyle.Render("Locating…"))
	}
	return HelpStyle.Render("ctrl+l • locate me")
}
