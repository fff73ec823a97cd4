package selectbox

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/pointer"
)

// Geometry, in cells, with W the outer width:
//
//	Label                  optional, one line
//	[ Ativo           ▾ ]  trigger, width W
//	╭──────────────────╮   popup border (open only)
//	│› Ativo          ✓│   one row per visible option
//	│  Inativo         │
//	╰──────────────────╯
//
// Rows are marker, space, label padded to the text width, space, check.
// W is the row width plus the two border cells.

const emptyText = "(sem opções)"

func measure(p Props, cfg Config) int {
	text := max(lipgloss.Width(cfg.Placeholder), lipgloss.Width(emptyText))
	for _, opt := range p.Options {
		text = max(text, lipgloss.Width(opt.Label))
	}
	return text + 6
}

func (m *Model) textWidth() int { return m.width - 6 }

func (m *Model) labelLines() int {
	if m.cfg.Label == "" {
		return 0
	}
	return 1
}

func (m *Model) visibleRows() int {
	return min(m.count, m.cfg.MaxVisible)
}

// SetOrigin records where the parent placed the component on screen.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

func (m *Model) triggerRect() pointer.Rect {
	return pointer.Rect{X: m.originX, Y: m.originY + m.labelLines(), Width: m.width, Height: 1}
}

func (m *Model) popupRect() pointer.Rect {
	if !m.open {
		return pointer.Rect{}
	}
	rows := max(1, m.visibleRows())
	return pointer.Rect{X: m.originX, Y: m.originY + m.labelLines() + 1, Width: m.width, Height: rows + 2}
}

// Bounds returns the screen area the component occupies in its current
// state, label and popup included.
func (m *Model) Bounds() pointer.Rect {
	r := pointer.Rect{X: m.originX, Y: m.originY, Width: m.width, Height: m.labelLines() + 1}
	return r.Union(m.popupRect())
}

// optionAt maps a cell inside the popup to an option index.
func (m *Model) optionAt(x, y int) (int, bool) {
	popup := m.popupRect()
	if popup.Empty() || m.count == 0 {
		return 0, false
	}
	inner := pointer.Rect{X: popup.X + 1, Y: popup.Y + 1, Width: popup.Width - 2, Height: m.visibleRows()}
	if !inner.Contains(x, y) {
		return 0, false
	}
	i := m.offset + (y - inner.Y)
	if i < 0 || i >= m.count {
		return 0, false
	}
	return i, true
}

// scrollIntoView keeps the active option inside the visible window,
// moving the window only as far as needed.
func (m *Model) scrollIntoView() {
	rows := m.visibleRows()
	if m.active < 0 || rows == 0 {
		m.offset = 0
		return
	}
	if m.active < m.offset {
		m.offset = m.active
	}
	if m.active >= m.offset+rows {
		m.offset = m.active - rows + 1
	}
	m.offset = max(0, min(m.offset, m.count-rows))
}

// VisibleRange returns the half-open index range of options in the popup.
func (m *Model) VisibleRange() (int, int) {
	return m.offset, m.offset + m.visibleRows()
}

// View renders the component for the given props.
func (m *Model) View(p Props) string {
	m.sync(p)

	var lines []string
	if m.cfg.Label != "" {
		lines = append(lines, m.Styles.Label.Render(m.cfg.Label))
	}
	lines = append(lines, m.renderTrigger(p))
	if m.open {
		lines = append(lines, m.renderPopup(p))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTrigger(p Props) string {
	arrow := "▾"
	if m.open {
		arrow = "▴"
	}

	text := pad(m.DisplayText(p), m.textWidth())
	if SelectedIndex(p.Options, p.Value) < 0 {
		text = m.Styles.Placeholder.Render(text)
	}

	style := m.Styles.Trigger
	if v, ok := m.Styles.Variants[m.cfg.ClassName]; ok {
		style = v
	}
	if m.Focused() {
		style = m.Styles.TriggerFocused
	}
	return style.Render("[ ") + text + style.Render(" "+arrow+" ]")
}

func (m *Model) renderPopup(p Props) string {
	tw := m.textWidth()

	var rows []string
	if len(p.Options) == 0 {
		rows = append(rows, m.Styles.Empty.Render("  "+pad(emptyText, tw)+"  "))
	}

	sel := SelectedIndex(p.Options, p.Value)
	start, end := m.VisibleRange()
	for i := start; i < end && i < len(p.Options); i++ {
		opt := p.Options[i]

		marker := " "
		if i == m.active {
			marker = "›"
		}
		check := " "
		if i == sel {
			check = "✓"
		}

		row := marker + " " + pad(opt.Label, tw) + " " + check
		switch {
		case i == m.active:
			row = m.Styles.OptionActive.Render(row)
		case i == sel:
			row = m.Styles.OptionSelected.Render(row)
		default:
			row = m.Styles.Option.Render(row)
		}
		rows = append(rows, row)
	}

	return m.Styles.Popup.Render(strings.Join(rows, "\n"))
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
