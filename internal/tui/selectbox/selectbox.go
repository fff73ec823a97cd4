// Package selectbox implements an accessible dropdown for the console.
//
// The select is a controlled component: the parent owns the selected value
// and hands it in on every Update and View through Props. The component
// owns only transient state, namely whether the popup is open, which option
// keyboard navigation currently points at, and where keyboard focus sits.
//
// The popup closes on commit, on esc, or on a pointer press anywhere outside
// the rendered component. Outside presses arrive through a pointer.Hub the
// select subscribes to while mounted.
package selectbox

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/normanking/oficina/internal/pointer"
)

const (
	// DefaultPlaceholder is shown when the value matches no option.
	DefaultPlaceholder = "Selecione..."

	// DefaultMaxVisible is the popup height in option rows.
	DefaultMaxVisible = 8
)

// Option is a single selectable entry. Value identifies the option; callers
// are expected to keep values unique within a set.
type Option struct {
	Label string
	Value string
}

// Props carry the parent-owned inputs for one update or render pass.
type Props struct {
	Options []Option
	Value   string

	// OnChange is called once per commit with the committed value.
	// The returned command, if any, is handed back to the runtime.
	OnChange func(value string) tea.Cmd
}

// Config is presentation-only configuration.
type Config struct {
	ID          string
	Label       string
	Placeholder string
	AriaLabel   string
	ClassName   string

	// MaxVisible bounds the number of option rows shown at once.
	MaxVisible int
}

func (c Config) withDefaults() Config {
	if c.ID == "" {
		c.ID = "select-" + uuid.NewString()[:8]
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if c.MaxVisible <= 0 {
		c.MaxVisible = DefaultMaxVisible
	}
	return c
}

// Focus is where keyboard focus sits relative to the select.
type Focus int

const (
	FocusNone Focus = iota
	FocusTrigger
	FocusPopup
)

func (f Focus) String() string {
	switch f {
	case FocusTrigger:
		return "trigger"
	case FocusPopup:
		return "popup"
	default:
		return "none"
	}
}

// Model is the select component. Use it through the pointer returned by New.
type Model struct {
	KeyMap KeyMap
	Styles Styles

	cfg Config

	open   bool
	active int // -1 when there are no options
	offset int
	focus  Focus

	// selection fingerprint of the last pass; the value itself is not kept
	syncKey string
	synced  bool

	// geometry of the last pass
	originX, originY int
	width            int
	count            int

	hub     *pointer.Hub
	release func()
	mounted bool
	gen     int
}

// New creates a closed, unfocused select.
func New(cfg Config) *Model {
	return &Model{
		KeyMap: DefaultKeyMap(),
		Styles: DefaultStyles(),
		cfg:    cfg.withDefaults(),
		active: -1,
	}
}

// Config returns the effective configuration.
func (m *Model) Config() Config { return m.cfg }

// ID returns the element id used for accessibility references.
func (m *Model) ID() string { return m.cfg.ID }

// IsOpen reports whether the popup is visible.
func (m *Model) IsOpen() bool { return m.open }

// ActiveIndex returns the navigated option index, or -1 for an empty set.
func (m *Model) ActiveIndex() int { return m.active }

// FocusTarget returns the current focus target.
func (m *Model) FocusTarget() Focus { return m.focus }

// Focused reports whether the select has keyboard focus.
func (m *Model) Focused() bool { return m.focus != FocusNone }

// Focus gives keyboard focus to the trigger, or to the popup if open.
func (m *Model) Focus() {
	if m.open {
		m.focus = FocusPopup
		return
	}
	m.focus = FocusTrigger
}

// Blur drops keyboard focus and closes the popup without committing.
func (m *Model) Blur() {
	m.open = false
	m.focus = FocusNone
}

// SetOpen opens or closes the popup. Opening moves focus into the popup and
// keeps the last navigated position. Closing returns focus to the trigger.
func (m *Model) SetOpen(open bool) {
	if open {
		m.open = true
		m.focus = FocusPopup
		m.scrollIntoView()
		return
	}
	m.open = false
	m.focus = FocusTrigger
}

// dismissOutside closes without touching focus ownership beyond leaving
// the popup; whatever was pressed decides who gets focus next.
func (m *Model) dismissOutside() {
	if !m.open {
		return
	}
	m.open = false
	m.focus = FocusNone
}

// MoveActive moves the active option by delta, clamped to the option range.
// It does nothing while closed or when there are no options.
func (m *Model) MoveActive(delta int) {
	if !m.open || m.count == 0 {
		return
	}
	m.setActive(m.active + delta)
}

// MoveHome activates the first option.
func (m *Model) MoveHome() {
	if !m.open || m.count == 0 {
		return
	}
	m.setActive(0)
}

// MoveEnd activates the last option.
func (m *Model) MoveEnd() {
	if !m.open || m.count == 0 {
		return
	}
	m.setActive(m.count - 1)
}

func (m *Model) setActive(i int) {
	i = max(0, min(m.count-1, i))
	if i == m.active {
		return
	}
	m.active = i
	m.scrollIntoView()
}

// Commit selects the option at index: OnChange is called with its value,
// the popup closes and focus returns to the trigger. An out-of-range index
// is ignored.
func (m *Model) Commit(index int, p Props) tea.Cmd {
	m.sync(p)
	if index < 0 || index >= len(p.Options) {
		return nil
	}
	value := p.Options[index].Value
	m.SetOpen(false)

	if p.OnChange == nil {
		return nil
	}
	return p.OnChange(value)
}

// Update handles keyboard and in-bounds pointer input. Presses outside the
// component are handled by the hub subscription installed by Mount.
func (m *Model) Update(msg tea.Msg, p Props) tea.Cmd {
	m.sync(p)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focus == FocusNone {
			return nil
		}
		return m.handleKey(msg, p)
	case tea.MouseMsg:
		return m.handleMouse(msg, p)
	}
	return nil
}

// Consumes reports whether Update would act on msg in the current state.
// Parents use it to decide whether a key is theirs.
func (m *Model) Consumes(msg tea.KeyMsg) bool {
	if m.focus == FocusNone {
		return false
	}
	if !m.open {
		return matches(msg, m.KeyMap.Open)
	}
	return matches(msg, m.KeyMap.Next, m.KeyMap.Prev, m.KeyMap.First,
		m.KeyMap.Last, m.KeyMap.Commit, m.KeyMap.Dismiss)
}

// sync refreshes derived state for the pass's props. ActiveIndex is reset
// whenever the value or the option set changed since the previous pass.
func (m *Model) sync(p Props) {
	key := selectionKey(p)
	if !m.synced || key != m.syncKey {
		m.synced = true
		m.syncKey = key
		m.active = initialActive(p.Options, p.Value)
		m.offset = 0
		m.count = len(p.Options)
		m.scrollIntoView()
	}
	m.count = len(p.Options)
	m.width = measure(p, m.cfg)
}

// SelectedIndex returns the first option whose value equals value, or -1.
// With duplicate values the first match wins.
func SelectedIndex(options []Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func initialActive(options []Option, value string) int {
	if len(options) == 0 {
		return -1
	}
	if i := SelectedIndex(options, value); i >= 0 {
		return i
	}
	return 0
}

func selectionKey(p Props) string {
	var sb strings.Builder
	sb.WriteString(p.Value)
	for _, opt := range p.Options {
		sb.WriteByte(0)
		sb.WriteString(opt.Value)
	}
	return sb.String()
}

// DisplayText returns what the trigger shows for the given props.
func (m *Model) DisplayText(p Props) string {
	if i := SelectedIndex(p.Options, p.Value); i >= 0 {
		return p.Options[i].Label
	}
	return m.cfg.Placeholder
}
