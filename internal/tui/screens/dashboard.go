package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/tui/styles"
)

// Tab identifies a record tab of the dashboard
type Tab int

const (
	TabMecanicos Tab = iota
	TabClientes
	TabPartes
)

var tabTitles = []string{"Mecânicos", "Clientes", "Partes do checklist"}

// String returns the tab title
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabTitles) {
		return "?"
	}
	return tabTitles[t]
}

// Kind returns the record listed on the tab
func (t Tab) Kind() RecordKind {
	switch t {
	case TabClientes:
		return RecordCliente
	case TabPartes:
		return RecordParte
	}
	return RecordMecanico
}

// Selection is the record an action request refers to
type Selection struct {
	Kind  RecordKind
	ID    int64
	Label string
}

// Dashboard layout: header on row 0, tabs on row 1, content from row 3.
// Everything is indented by one column.
const (
	contentX    = 1
	contentY    = 3
	tabsY       = 1
	footerLines = 2
)

// DashboardScreen is the main dashboard model
type DashboardScreen struct {
	keys KeyMap
	help help.Model
	hub  *pointer.Hub
	user string

	mecanicos MecanicosScreen
	clientes  ClientesScreen
	partes    PartesScreen
	active    Tab

	status       string
	statusFailed bool

	width  int
	height int

	// Action requests
	requestHelp   bool
	requestLogout bool
	requestAdd    bool
	requestEdit   bool
	requestDelete bool
	requestDetail bool
}

// NewDashboardScreen creates the dashboard and mounts the first tab's dropdown on hub
func NewDashboardScreen(catalog *service.Catalog, hub *pointer.Hub, user string, opts ScreenOptions) DashboardScreen {
	h := help.New()
	h.ShowAll = false

	d := DashboardScreen{
		keys:      DefaultKeyMap(),
		help:      h,
		hub:       hub,
		user:      user,
		mecanicos: NewMecanicosScreen(catalog, opts),
		clientes:  NewClientesScreen(catalog, opts),
		partes:    NewPartesScreen(catalog, opts),
	}

	d.mecanicos.SetOrigin(contentX, contentY)
	d.clientes.SetOrigin(contentX, contentY)
	d.partes.SetOrigin(contentX, contentY)
	d.Activate()

	return d
}

// Init initializes the dashboard
func (d DashboardScreen) Init() tea.Cmd {
	return nil
}

// Activate mounts the dropdown of the active tab.
func (d *DashboardScreen) Activate() {
	switch d.active {
	case TabMecanicos:
		d.mecanicos.Activate(d.hub)
	case TabClientes:
		d.clientes.Activate(d.hub)
	case TabPartes:
		d.partes.Activate(d.hub)
	}
}

// Deactivate unmounts every dropdown of the dashboard.
func (d *DashboardScreen) Deactivate() {
	d.mecanicos.Deactivate()
	d.clientes.Deactivate()
	d.partes.Deactivate()
}

// ActiveTab returns the tab being shown
func (d DashboardScreen) ActiveTab() Tab { return d.active }

// SetActiveTab switches to t, moving the pointer subscription with it.
func (d *DashboardScreen) SetActiveTab(t Tab) {
	if t < 0 || int(t) >= len(tabTitles) || t == d.active {
		return
	}
	d.Deactivate()
	d.active = t
	d.status = ""
	d.Activate()
}

// Refresh reloads the records of every tab.
func (d *DashboardScreen) Refresh() {
	d.mecanicos.refresh()
	d.clientes.refresh()
	d.partes.refresh()
}

// SetStatus shows the outcome of an action above the footer.
func (d *DashboardScreen) SetStatus(text string, failed bool) {
	d.status = text
	d.statusFailed = failed
}

// Status returns the outcome line being shown.
func (d DashboardScreen) Status() string { return d.status }

// Selected returns the highlighted record of the active tab.
func (d DashboardScreen) Selected() (Selection, bool) {
	switch d.active {
	case TabMecanicos:
		return d.mecanicos.Selected()
	case TabClientes:
		return d.clientes.Selected()
	case TabPartes:
		return d.partes.Selected()
	}
	return Selection{}, false
}

// tableFocused reports whether the active tab's table has the keyboard.
func (d DashboardScreen) tableFocused() bool {
	switch d.active {
	case TabMecanicos:
		return d.mecanicos.TableFocused()
	case TabClientes:
		return d.clientes.TableFocused()
	case TabPartes:
		return d.partes.TableFocused()
	}
	return false
}

// Mecanicos returns the mechanics tab
func (d DashboardScreen) Mecanicos() MecanicosScreen { return d.mecanicos }

// Clientes returns the clients tab
func (d DashboardScreen) Clientes() ClientesScreen { return d.clientes }

// Partes returns the checklist parts tab
func (d DashboardScreen) Partes() PartesScreen { return d.partes }

// Typing reports whether the active tab is capturing text input.
func (d DashboardScreen) Typing() bool {
	switch d.active {
	case TabMecanicos:
		return d.mecanicos.Typing()
	case TabClientes:
		return d.clientes.Typing()
	}
	return false
}

// Announcement describes the focused dropdown of the active tab.
func (d DashboardScreen) Announcement() string {
	switch d.active {
	case TabMecanicos:
		return d.mecanicos.Announcement()
	case TabClientes:
		return d.clientes.Announcement()
	case TabPartes:
		return d.partes.Announcement()
	}
	return ""
}

// Action request checks
func (d DashboardScreen) WantsHelp() bool   { return d.requestHelp }
func (d DashboardScreen) WantsLogout() bool { return d.requestLogout }
func (d DashboardScreen) WantsAdd() bool    { return d.requestAdd }
func (d DashboardScreen) WantsEdit() bool   { return d.requestEdit }
func (d DashboardScreen) WantsDelete() bool { return d.requestDelete }
func (d DashboardScreen) WantsDetail() bool { return d.requestDetail }

// ClearRequests resets all action requests
func (d *DashboardScreen) ClearRequests() {
	d.requestHelp = false
	d.requestLogout = false
	d.requestAdd = false
	d.requestEdit = false
	d.requestDelete = false
	d.requestDetail = false
}

// Update handles messages for the dashboard
func (d DashboardScreen) Update(msg tea.Msg) (DashboardScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.help.Width = msg.Width

		inner := tea.WindowSizeMsg{
			Width:  max(0, msg.Width-2*contentX),
			Height: max(0, msg.Height-contentY-footerLines),
		}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		d.mecanicos, cmd = d.mecanicos.Update(inner)
		cmds = append(cmds, cmd)
		d.clientes, cmd = d.clientes.Update(inner)
		cmds = append(cmds, cmd)
		d.partes, cmd = d.partes.Update(inner)
		cmds = append(cmds, cmd)
		return d, tea.Batch(cmds...)

	case FilterChangedMsg:
		// a commit may arrive after its tab was left
		var cmds []tea.Cmd
		var cmd tea.Cmd
		d.mecanicos, cmd = d.mecanicos.Update(msg)
		cmds = append(cmds, cmd)
		d.clientes, cmd = d.clientes.Update(msg)
		cmds = append(cmds, cmd)
		d.partes, cmd = d.partes.Update(msg)
		cmds = append(cmds, cmd)
		return d, tea.Batch(cmds...)

	case tea.KeyMsg:
		if !d.Typing() {
			switch {
			case key.Matches(msg, d.keys.NextTab):
				d.SetActiveTab((d.active + 1) % Tab(len(tabTitles)))
				return d, nil
			case key.Matches(msg, d.keys.PrevTab):
				d.SetActiveTab((d.active + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles)))
				return d, nil
			case key.Matches(msg, d.keys.Help):
				d.requestHelp = true
				return d, nil
			case key.Matches(msg, d.keys.Logout):
				d.requestLogout = true
				return d, nil
			}
		}
		if d.tableFocused() && d.updateRecordKeys(msg) {
			return d, nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if t, ok := d.tabAt(msg.X, msg.Y); ok {
				d.SetActiveTab(t)
				return d, nil
			}
		}
	}

	return d.updateActive(msg)
}

// updateRecordKeys turns the maintenance shortcuts into action requests.
func (d *DashboardScreen) updateRecordKeys(msg tea.KeyMsg) bool {
	_, selected := d.Selected()
	switch {
	case key.Matches(msg, d.keys.Add):
		d.requestAdd = true
	case key.Matches(msg, d.keys.Edit):
		// checklist parts are created and deleted, never edited
		d.requestEdit = selected && d.active != TabPartes
	case key.Matches(msg, d.keys.Delete):
		d.requestDelete = selected
	case key.Matches(msg, d.keys.Open):
		if d.active != TabClientes {
			return false
		}
		d.requestDetail = selected
	default:
		return false
	}
	return true
}

func (d DashboardScreen) updateActive(msg tea.Msg) (DashboardScreen, tea.Cmd) {
	var cmd tea.Cmd
	switch d.active {
	case TabMecanicos:
		d.mecanicos, cmd = d.mecanicos.Update(msg)
	case TabClientes:
		d.clientes, cmd = d.clientes.Update(msg)
	case TabPartes:
		d.partes, cmd = d.partes.Update(msg)
	}
	return d, cmd
}

// tabRects returns the clickable area of each tab title.
func (d DashboardScreen) tabRects() []pointer.Rect {
	rects := make([]pointer.Rect, len(tabTitles))
	x := contentX
	for i := range tabTitles {
		w := lipgloss.Width(d.renderTab(Tab(i)))
		rects[i] = pointer.Rect{X: x, Y: tabsY, Width: w, Height: 1}
		x += w + 1
	}
	return rects
}

func (d DashboardScreen) tabAt(x, y int) (Tab, bool) {
	for i, r := range d.tabRects() {
		if r.Contains(x, y) {
			return Tab(i), true
		}
	}
	return 0, false
}

func (d DashboardScreen) renderTab(t Tab) string {
	if t == d.active {
		return styles.TabActive.Render(t.String())
	}
	return styles.Tab.Render(t.String())
}

// View renders the dashboard
func (d DashboardScreen) View() string {
	header := styles.HeaderTitle.Render("Oficina")
	if d.user != "" {
		header += "  " + styles.HeaderUser.Render(d.user)
	}

	tabs := make([]string, len(tabTitles))
	for i := range tabTitles {
		tabs[i] = d.renderTab(Tab(i))
	}

	var content string
	switch d.active {
	case TabMecanicos:
		content = d.mecanicos.View()
	case TabClientes:
		content = d.clientes.View()
	case TabPartes:
		content = d.partes.View()
	}

	footer := d.help.View(d.keys)
	if d.status != "" {
		status := styles.SuccessText
		if d.statusFailed {
			status = styles.ErrorText
		}
		content += "\n" + status.Render(d.status)
	}
	if a := d.Announcement(); a != "" {
		footer = styles.HelpText.Render(a) + "\n" + footer
	}

	page := strings.Join([]string{
		header,
		strings.Join(tabs, " "),
		"",
		content,
		footer,
	}, "\n")
	return lipgloss.NewStyle().PaddingLeft(contentX).Render(page)
}
