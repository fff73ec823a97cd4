package screens

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/tui/selectbox"
	"github.com/normanking/oficina/internal/tui/styles"
)

// FilterChangedMsg is emitted when a screen's dropdown commits a value.
type FilterChangedMsg struct {
	SelectID string
	Value    string
}

// ScreenOptions carries presentation settings shared by the record screens.
type ScreenOptions struct {
	Placeholder string
	PopupHeight int
}

type focusArea int

const (
	focusFilter focusArea = iota
	focusSearch
	focusTable

	// focusNone follows a press outside every control of the screen
	focusNone
)

// filterBar is the dropdown filter and optional name search heading a
// record screen. The dropdown is controlled: value is owned here and only
// changes when a FilterChangedMsg for this dropdown arrives.
type filterBar struct {
	sel     *selectbox.Model
	options []selectbox.Option
	value   string

	search    textinput.Model
	hasSearch bool

	focus            focusArea
	originX, originY int
}

func newFilterBar(cfg selectbox.Config, opts ScreenOptions, options []service.Option, value, searchPlaceholder string) filterBar {
	cfg.Placeholder = opts.Placeholder
	cfg.MaxVisible = opts.PopupHeight

	sel := selectbox.New(cfg)
	sel.Styles = styles.SelectStyles()
	sel.Focus()

	f := filterBar{
		sel:     sel,
		options: toSelectOptions(options),
		value:   value,
	}

	if searchPlaceholder != "" {
		ti := textinput.New()
		ti.Placeholder = searchPlaceholder
		ti.Prompt = ""
		ti.CharLimit = 80
		ti.Width = 30
		f.search = ti
		f.hasSearch = true
	}
	return f
}

func toSelectOptions(opts []service.Option) []selectbox.Option {
	out := make([]selectbox.Option, len(opts))
	for i, o := range opts {
		out[i] = selectbox.Option(o)
	}
	return out
}

func (f filterBar) props() selectbox.Props {
	id := f.sel.ID()
	return selectbox.Props{
		Options: f.options,
		Value:   f.value,
		OnChange: func(v string) tea.Cmd {
			return func() tea.Msg { return FilterChangedMsg{SelectID: id, Value: v} }
		},
	}
}

// owns reports whether msg was produced by this bar's dropdown.
func (f filterBar) owns(msg FilterChangedMsg) bool {
	return msg.SelectID == f.sel.ID()
}

func (f *filterBar) setOrigin(x, y int) {
	f.originX, f.originY = x, y
	f.sel.SetOrigin(x, y)
}

// mount subscribes the dropdown and restores the focus it had before the
// last unmount.
func (f *filterBar) mount(hub *pointer.Hub) {
	if f.sel == nil {
		return
	}
	f.sel.Mount(hub)
	f.setFocus(f.focus)
}

func (f *filterBar) unmount() {
	if f.sel != nil {
		f.sel.Unmount()
	}
}

func (f *filterBar) setFocus(area focusArea) {
	f.focus = area

	if area == focusFilter {
		f.sel.Focus()
	} else {
		f.sel.Blur()
	}

	if f.hasSearch {
		if area == focusSearch {
			f.search.Focus()
		} else {
			f.search.Blur()
		}
	}
}

// syncFocus drops the filter focus when the dropdown lost it on its own,
// which happens when an outside press dismisses it.
func (f *filterBar) syncFocus() {
	if f.focus == focusFilter && f.sel.FocusTarget() == selectbox.FocusNone {
		f.focus = focusNone
	}
}

// cycleFocus moves to the next area: filter, search, table.
func (f *filterBar) cycleFocus() {
	f.syncFocus()
	switch f.focus {
	case focusFilter:
		if f.hasSearch {
			f.setFocus(focusSearch)
		} else {
			f.setFocus(focusTable)
		}
	case focusSearch:
		f.setFocus(focusTable)
	default:
		f.setFocus(focusFilter)
	}
}

// typing reports whether keystrokes go to the search input.
func (f filterBar) typing() bool {
	return f.hasSearch && f.focus == focusSearch
}

func (f filterBar) searchValue() string {
	if !f.hasSearch {
		return ""
	}
	return f.search.Value()
}

// height returns the rendered height of the bar, trailing blank included.
func (f filterBar) height() int {
	h := f.sel.Bounds().Height + 1
	if f.hasSearch {
		h += 2
	}
	return h
}

func (f filterBar) searchRow() int {
	return f.originY + f.sel.Bounds().Height + 1
}

// updateKey routes a key to the focused control. handled is false when the
// key belongs to the screen.
func (f *filterBar) updateKey(msg tea.KeyMsg) (cmd tea.Cmd, changed, handled bool) {
	f.syncFocus()
	switch f.focus {
	case focusFilter:
		if f.sel.Consumes(msg) {
			return f.sel.Update(msg, f.props()), false, true
		}
	case focusSearch:
		if !f.hasSearch {
			return nil, false, false
		}
		prev := f.search.Value()
		f.search, cmd = f.search.Update(msg)
		return cmd, f.search.Value() != prev, true
	}
	return nil, false, false
}

// updateMouse feeds a mouse event to the dropdown and moves focus to the
// control that was pressed. It reports whether the table area was pressed.
func (f *filterBar) updateMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	inSelect := f.sel.Bounds().Contains(msg.X, msg.Y)
	cmd := f.sel.Update(msg, f.props())

	if _, ok := pointer.FromMouse(msg); !ok || msg.Button != tea.MouseButtonLeft {
		return cmd, false
	}

	switch {
	case inSelect:
		f.setFocus(focusFilter)
	case f.hasSearch && msg.Y == f.searchRow():
		f.setFocus(focusSearch)
	case msg.Y >= f.originY+f.height():
		return cmd, true
	default:
		f.setFocus(focusNone)
	}
	return cmd, false
}

func (f filterBar) view(searchLabel string) string {
	lines := []string{f.sel.View(f.props()), ""}
	if f.hasSearch {
		label := styles.InputLabel
		if f.focus == focusSearch {
			label = styles.InputLabelFocused
		}
		lines = append(lines, label.Render(searchLabel+": ")+f.search.View(), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// announcement is the accessibility line for the dropdown while it has focus.
func (f filterBar) announcement() string {
	if !f.sel.Focused() {
		return ""
	}
	return f.sel.Announcement(f.props())
}
