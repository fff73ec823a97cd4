// Package tui wires the console screens into a single Bubble Tea program.
package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/logging"
	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/session"
	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui/screens"
	"github.com/normanking/oficina/internal/tui/styles"
)

// AppState represents the current screen
type AppState int

const (
	StateLogin AppState = iota
	StateDashboard
	StateHelp
	StateForm
	StateDetail
	StateConfirmDelete
)

// Options configures the application
type Options struct {
	Session *session.Manager
	Catalog *service.Catalog

	// Hub receives every mouse event before it is routed. Defaults to
	// pointer.Default().
	Hub *pointer.Hub

	Theme       string
	Placeholder string
	PopupHeight int

	// Now is used to check the session on start. Defaults to time.Now.
	Now func() time.Time
}

// App is the main application model
type App struct {
	state     AppState
	prevState AppState
	width     int
	height int

	session *session.Manager
	catalog *service.Catalog
	hub     *pointer.Hub
	opts    screens.ScreenOptions
	theme   string
	log     *logging.Logger

	// Screens
	login     screens.LoginScreen
	dashboard screens.DashboardScreen
	help      screens.HelpScreen
	form      screens.FormScreen
	detail    screens.ClienteDetailScreen

	// deleteTarget is the record awaiting confirmation
	deleteTarget *screens.Selection
}

// NewApp creates a new application. A valid stored session opens the
// dashboard directly.
func NewApp(o Options) App {
	if o.Hub == nil {
		o.Hub = pointer.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	a := App{
		session: o.Session,
		catalog: o.Catalog,
		hub:     o.Hub,
		theme:   o.Theme,
		opts: screens.ScreenOptions{
			Placeholder: o.Placeholder,
			PopupHeight: o.PopupHeight,
		},
		log: logging.Global().WithComponent("tui"),
	}

	if a.session.Valid(o.Now()) {
		a.openDashboard()
	} else {
		a.state = StateLogin
		a.login = screens.NewLoginScreen(a.session)
	}
	return a
}

// State returns the screen being shown
func (a App) State() AppState { return a.state }

// Dashboard returns the dashboard screen
func (a App) Dashboard() screens.DashboardScreen { return a.dashboard }

// Form returns the record form being shown
func (a App) Form() screens.FormScreen { return a.form }

// Detail returns the client page being shown
func (a App) Detail() screens.ClienteDetailScreen { return a.detail }

// Init initializes the application
func (a App) Init() tea.Cmd {
	if a.state == StateLogin {
		return a.login.Init()
	}
	return a.dashboard.Init()
}

func (a *App) openDashboard() {
	name := ""
	if user, ok := a.session.User(); ok {
		name = user.DisplayName()
	}
	a.dashboard = screens.NewDashboardScreen(a.catalog, a.hub, name, a.opts)
	a.state = StateDashboard
}

// Update handles messages for the application
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.Close()
			return a, tea.Quit
		}

	case tea.MouseMsg:
		// outside-press observers see the event before any screen does
		a.hub.PublishMouse(msg)
	}

	switch a.state {
	case StateLogin:
		return a.updateLogin(msg)
	case StateDashboard:
		return a.updateDashboard(msg)
	case StateHelp:
		return a.updateHelp(msg)
	case StateForm:
		return a.updateForm(msg)
	case StateDetail:
		return a.updateDetail(msg)
	case StateConfirmDelete:
		return a.updateDeleteConfirm(msg)
	}
	return a, nil
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.login, cmd = a.login.Update(msg)

	if logged, ok := msg.(screens.LoggedInMsg); ok {
		a.log.Info("signed in as %s", logged.User.DisplayName())
		a.openDashboard()
		return a, tea.Batch(a.dashboard.Init(), a.sendWindowSize())
	}

	return a, cmd
}

func (a App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.Update(msg)

	if a.dashboard.WantsHelp() {
		a.dashboard.ClearRequests()
		a.state = StateHelp
		a.help = screens.NewHelpScreen(screens.DefaultKeyMap(), styles.GlamourStyle(a.theme))
		return a, tea.Batch(a.help.Init(), a.sendWindowSize())
	}

	if a.dashboard.WantsAdd() {
		a.dashboard.ClearRequests()
		switch a.dashboard.ActiveTab() {
		case screens.TabClientes:
			return a.openForm(screens.NewClienteForm(a.catalog, nil, a.opts))
		case screens.TabPartes:
			return a.openForm(screens.NewParteForm(a.catalog, a.opts))
		}
		return a.openForm(screens.NewMecanicoForm(a.catalog, nil, a.opts))
	}

	if a.dashboard.WantsEdit() {
		a.dashboard.ClearRequests()
		if sel, ok := a.dashboard.Selected(); ok {
			return a.editRecord(sel)
		}
	}

	if a.dashboard.WantsDelete() {
		a.dashboard.ClearRequests()
		if sel, ok := a.dashboard.Selected(); ok {
			a.confirmDelete(sel)
		}
		return a, nil
	}

	if a.dashboard.WantsDetail() {
		a.dashboard.ClearRequests()
		if sel, ok := a.dashboard.Selected(); ok {
			a.dashboard.Deactivate()
			a.state = StateDetail
			a.detail = screens.NewClienteDetailScreen(a.catalog, sel.ID)
			return a, tea.Batch(a.detail.Init(), a.sendWindowSize())
		}
	}

	if a.dashboard.WantsLogout() {
		a.dashboard.ClearRequests()
		a.dashboard.Deactivate()
		if err := a.session.Logout(); err != nil {
			a.log.Warn("logout: %v", err)
		}
		a.state = StateLogin
		a.login = screens.NewLoginScreen(a.session)
		return a, tea.Batch(a.login.Init(), a.sendWindowSize())
	}

	return a, cmd
}

func (a App) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(screens.HelpClosedMsg); ok {
		a.state = StateDashboard
		return a, nil
	}

	// commits still in flight belong to the dashboard
	if _, ok := msg.(screens.FilterChangedMsg); ok {
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.help, cmd = a.help.Update(msg)
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		var dcmd tea.Cmd
		a.dashboard, dcmd = a.dashboard.Update(size)
		cmd = tea.Batch(cmd, dcmd)
	}
	return a, cmd
}

// editRecord opens the edit form of a dashboard record.
func (a App) editRecord(sel screens.Selection) (tea.Model, tea.Cmd) {
	switch sel.Kind {
	case screens.RecordMecanico:
		m, err := a.catalog.Mecanico(sel.ID)
		if err != nil {
			a.log.Warn("load mecanico %d: %v", sel.ID, err)
			a.dashboard.SetStatus("Registro não encontrado; recarregue a lista", true)
			return a, nil
		}
		return a.openForm(screens.NewMecanicoForm(a.catalog, m, a.opts))
	case screens.RecordCliente:
		c, err := a.catalog.Cliente(sel.ID)
		if err != nil {
			a.log.Warn("load cliente %d: %v", sel.ID, err)
			a.dashboard.SetStatus("Registro não encontrado; recarregue a lista", true)
			return a, nil
		}
		return a.openForm(screens.NewClienteForm(a.catalog, c, a.opts))
	}
	return a, nil
}

// openForm shows form over the current screen, which is restored when the
// form closes.
func (a App) openForm(form screens.FormScreen) (tea.Model, tea.Cmd) {
	a.dashboard.Deactivate()
	a.prevState = a.state
	a.state = StateForm
	a.form = form
	a.form.Mount(a.hub)
	return a, tea.Batch(a.form.Init(), a.sendWindowSize())
}

// closeForm returns to the screen the form was opened from.
func (a *App) closeForm(saved *screens.RecordSavedMsg) {
	a.form.Unmount()
	a.state = a.prevState

	if a.state == StateDetail {
		a.detail.Reload()
		if saved != nil {
			a.detail.SetStatus(saved.Notice, false)
		}
		return
	}

	a.state = StateDashboard
	if saved != nil {
		a.dashboard.Refresh()
		a.dashboard.SetStatus(saved.Notice, false)
	}
	a.dashboard.Activate()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(screens.FilterChangedMsg); ok {
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)

	if saved, ok := msg.(screens.RecordSavedMsg); ok {
		a.closeForm(&saved)
		return a, a.sendWindowSize()
	}

	if _, ok := msg.(screens.FormCanceledMsg); ok {
		a.closeForm(nil)
		return a, a.sendWindowSize()
	}

	return a, cmd
}

func (a App) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(screens.FilterChangedMsg); ok {
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.detail, cmd = a.detail.Update(msg)

	if _, ok := msg.(screens.DetailClosedMsg); ok {
		a.state = StateDashboard
		a.dashboard.Refresh()
		a.dashboard.Activate()
		return a, a.sendWindowSize()
	}

	if a.detail.WantsEditCliente() {
		a.detail.ClearRequests()
		return a.openForm(screens.NewClienteForm(a.catalog, a.detail.Cliente(), a.opts))
	}

	if a.detail.WantsAddVeiculo() {
		a.detail.ClearRequests()
		return a.openForm(screens.NewVeiculoForm(a.catalog, a.detail.ID(), nil, a.opts))
	}

	if a.detail.WantsEditVeiculo() {
		a.detail.ClearRequests()
		if v, ok := a.detail.SelectedVeiculo(); ok {
			return a.openForm(screens.NewVeiculoForm(a.catalog, a.detail.ID(), &v, a.opts))
		}
	}

	if a.detail.WantsDeleteVeiculo() {
		a.detail.ClearRequests()
		if v, ok := a.detail.SelectedVeiculo(); ok {
			a.confirmDelete(screens.Selection{Kind: screens.RecordVeiculo, ID: v.ID, Label: v.Placa})
		}
		return a, nil
	}

	return a, cmd
}

func (a *App) confirmDelete(sel screens.Selection) {
	a.deleteTarget = &sel
	a.prevState = a.state
	a.state = StateConfirmDelete
}

func (a App) updateDeleteConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "s", "S":
		if a.deleteTarget != nil {
			text, failed := a.deleteRecord(*a.deleteTarget)
			a.afterDelete(text, failed)
		}
	case "n", "N", "esc":
		a.afterDelete("", false)
	}
	return a, nil
}

// deleteRecord removes sel and returns the outcome line to show.
func (a App) deleteRecord(sel screens.Selection) (string, bool) {
	var err error
	switch sel.Kind {
	case screens.RecordMecanico:
		err = a.catalog.DeleteMecanico(sel.ID)
	case screens.RecordCliente:
		err = a.catalog.DeleteCliente(sel.ID)
	case screens.RecordVeiculo:
		err = a.catalog.DeleteVeiculo(sel.ID)
	case screens.RecordParte:
		err = a.catalog.DeleteParte(sel.ID)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "Registro não encontrado; recarregue a lista", true
	case err != nil:
		a.log.Error("delete %s %d: %v", sel.Kind, sel.ID, err)
		return fmt.Sprintf("Não foi possível excluir %s", sel.Label), true
	}
	return screens.DeletedNotice(sel), false
}

func (a *App) afterDelete(text string, failed bool) {
	a.deleteTarget = nil
	a.state = a.prevState

	if a.state == StateDetail {
		a.detail.Reload()
		if text != "" {
			a.detail.SetStatus(text, failed)
		}
		return
	}

	a.state = StateDashboard
	if text != "" {
		a.dashboard.Refresh()
		a.dashboard.SetStatus(text, failed)
	}
}

func (a App) renderDeleteConfirm() string {
	target := "este registro"
	if a.deleteTarget != nil {
		target = fmt.Sprintf("%s %q", a.deleteTarget.Kind, a.deleteTarget.Label)
	}

	body := fmt.Sprintf("Deseja realmente excluir %s?\n\nEsta ação não pode ser desfeita.\n\n%s   %s",
		target,
		styles.RenderKeybind("S", "Sim, excluir"),
		styles.RenderKeybind("N", "Não, cancelar"))
	return lipgloss.NewStyle().Padding(1, 2).Render(styles.Modal.Render(body))
}

// View renders the current screen
func (a App) View() string {
	switch a.state {
	case StateLogin:
		return a.login.View()
	case StateDashboard:
		return a.dashboard.View()
	case StateHelp:
		return a.help.View()
	case StateForm:
		return a.form.View()
	case StateDetail:
		return a.detail.View()
	case StateConfirmDelete:
		return a.renderDeleteConfirm()
	}
	return ""
}

// Close releases the pointer subscriptions held by the screens
func (a *App) Close() {
	a.dashboard.Deactivate()
	a.form.Unmount()
}

// sendWindowSize returns a command that sends a WindowSizeMsg with current dimensions
func (a App) sendWindowSize() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}
