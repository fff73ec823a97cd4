package selectbox

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func matches(msg tea.KeyMsg, bindings ...key.Binding) bool {
	return key.Matches(msg, bindings...)
}

func (m *Model) handleKey(msg tea.KeyMsg, p Props) tea.Cmd {
	if !m.open {
		if matches(msg, m.KeyMap.Open) {
			m.SetOpen(true)
		}
		return nil
	}

	switch {
	case matches(msg, m.KeyMap.Next):
		m.MoveActive(1)
	case matches(msg, m.KeyMap.Prev):
		m.MoveActive(-1)
	case matches(msg, m.KeyMap.First):
		m.MoveHome()
	case matches(msg, m.KeyMap.Last):
		m.MoveEnd()
	case matches(msg, m.KeyMap.Commit):
		return m.Commit(m.active, p)
	case matches(msg, m.KeyMap.Dismiss):
		m.SetOpen(false)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg, p Props) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionMotion:
		if !m.open {
			return nil
		}
		if i, ok := m.optionAt(msg.X, msg.Y); ok {
			m.setActive(i)
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if m.triggerRect().Contains(msg.X, msg.Y) {
			m.SetOpen(!m.open)
			return nil
		}
		if !m.open {
			return nil
		}
		if i, ok := m.optionAt(msg.X, msg.Y); ok {
			m.setActive(i)
			return m.Commit(i, p)
		}
	}
	return nil
}
