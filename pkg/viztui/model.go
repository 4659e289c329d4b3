// Package viztui is a terminal tree view over a fibre runtime's committed
// tree, built on bubbletea/bubbles/lipgloss.
package viztui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fibretree/fibre"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	runStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// snapshotMsg carries a freshly exported tree into the bubbletea loop.
type snapshotMsg fibre.Snapshot

// Model is the bubbletea model rendering the latest tree snapshot. The tree
// is rendered into a bubbles/viewport so trees taller than the terminal
// scroll instead of truncating.
type Model struct {
	tick     uint64
	snapshot fibre.Snapshot
	updates  <-chan fibre.Snapshot
	vp       viewport.Model
	ready    bool
}

// New constructs a Model that reads snapshots off updates as they arrive —
// typically fed by a TickObserver's channel (see NewObserver).
func New(updates <-chan fibre.Snapshot) Model {
	return Model{updates: updates}
}

func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-2)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 2
		}
		m.vp.SetContent(renderNode(m.snapshot, 0))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case snapshotMsg:
		m.snapshot = fibre.Snapshot(msg)
		m.tick++
		if m.ready {
			m.vp.SetContent(renderNode(m.snapshot, 0))
		}
		return m, m.waitForSnapshot()
	}
	return m, nil
}

func (m Model) View() string {
	header := titleStyle.Render("fibre tree") + mutedStyle.Render("  (q to quit, arrows/pgup/pgdn to scroll)") + "\n\n"
	if !m.ready {
		return header + renderNode(m.snapshot, 0)
	}
	return header + m.vp.View()
}

func renderNode(s fibre.Snapshot, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := indent + s.Kind + mutedStyle.Render(" "+s.KeyPath)
	switch {
	case s.Failed:
		line += failStyle.Render(" [failed]")
	case s.Status == fibre.StatusActive:
		line += okStyle.Render(" [active]")
	default:
		line += runStyle.Render(" [" + s.Status.String() + "]")
	}
	out := line + "\n"
	for _, child := range s.Children {
		out += renderNode(child, depth+1)
	}
	return out
}

// NewObserver returns a fibre.TickObserver that forwards each committed
// tick's snapshot onto a channel a Model can read from, and the channel
// itself.
func NewObserver(buffer int) (fibre.TickObserver, <-chan fibre.Snapshot) {
	ch := make(chan fibre.Snapshot, buffer)
	obs := fibre.TickObserverFunc(func(tick uint64, root *fibre.Fibre) {
		snap := fibre.Export(root)
		select {
		case ch <- snap:
		default:
			// Drop the update rather than block the tick loop if the TUI
			// isn't keeping up — it will catch up on the next commit.
		}
	})
	return obs, ch
}
