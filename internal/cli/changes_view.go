package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
)

// changesKeyMap binds the change-browser keys.
type changesKeyMap struct {
	Quit     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultChangesKeyMap() changesKeyMap {
	return changesKeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
		Top:      key.NewBinding(key.WithKeys("g", "home")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " ")),
	}
}

// changesModel is a scrollable viewer over the rendered change log.
type changesModel struct {
	vp       viewport.Model
	keys     changesKeyMap
	content  string
	ready    bool
	quitting bool
}

func newChangesModel(content string) changesModel {
	return changesModel{
		keys:    defaultChangesKeyMap(),
		content: content,
	}
}

func (m changesModel) Init() tea.Cmd {
	return nil
}

func (m changesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		footer := 1
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-footer)
			m.vp.MouseWheelEnabled = true
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - footer
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Top):
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.vp.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.vp.ViewUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.vp.ViewDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m changesModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return formatter.Dim("loading…")
	}
	return m.vp.View() + "\n" + formatter.Dim("↑/↓ scroll · g/G top/bottom · q quit")
}
