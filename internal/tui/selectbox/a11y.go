package selectbox

import "fmt"

// Accessibility is the assistive-technology view of the select: the
// combobox trigger, its listbox popup and the option currently navigated.
type Accessibility struct {
	ID       string
	Role     string
	HasPopup string
	Expanded bool
	Label    string

	// ActiveDescendant references the navigated option while open, so the
	// item can be announced even though focus stays on the trigger.
	ActiveDescendant string

	Options []OptionAccessibility
}

// OptionAccessibility describes one option of the listbox.
type OptionAccessibility struct {
	ID       string
	Role     string
	Label    string
	Selected bool
	Active   bool
}

// OptionID returns the element id for the option at index.
func (m *Model) OptionID(index int) string {
	return fmt.Sprintf("%s-option-%d", m.cfg.ID, index)
}

// Describe returns the accessibility tree for the given props. Only the
// first option whose value equals the selection is flagged selected.
func (m *Model) Describe(p Props) Accessibility {
	m.sync(p)

	label := m.cfg.AriaLabel
	if label == "" {
		label = m.cfg.Label
	}

	a := Accessibility{
		ID:       m.cfg.ID,
		Role:     "combobox",
		HasPopup: "listbox",
		Expanded: m.open,
		Label:    label,
		Options:  make([]OptionAccessibility, len(p.Options)),
	}
	if m.open && m.active >= 0 {
		a.ActiveDescendant = m.OptionID(m.active)
	}

	sel := SelectedIndex(p.Options, p.Value)
	for i, opt := range p.Options {
		a.Options[i] = OptionAccessibility{
			ID:       m.OptionID(i),
			Role:     "option",
			Label:    opt.Label,
			Selected: i == sel,
			Active:   m.open && i == m.active,
		}
	}
	return a
}

// Announcement is the line a screen reader would speak for the current state.
func (m *Model) Announcement(p Props) string {
	a := m.Describe(p)
	state := "collapsed"
	if a.Expanded {
		state = "expanded"
	}
	text := m.DisplayText(p)
	if a.Expanded && m.active >= 0 && m.active < len(p.Options) {
		return fmt.Sprintf("%s, %s, %s, %d of %d", a.Label, state, p.Options[m.active].Label, m.active+1, len(p.Options))
	}
	return fmt.Sprintf("%s, %s, %s", a.Label, state, text)
}
