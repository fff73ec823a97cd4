package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui/selectbox"
	"github.com/normanking/oficina/internal/tui/styles"
)

// ClientesScreen lists clients and their vehicles
type ClientesScreen struct {
	catalog *service.Catalog
	keys    KeyMap
	bar     filterBar
	table   table.Model

	all  []storage.Cliente
	rows []storage.Cliente

	err    string
	notice string
	width  int
	height int
}

// NewClientesScreen creates the clients screen and loads its records
func NewClientesScreen(catalog *service.Catalog, opts ScreenOptions) ClientesScreen {
	s := ClientesScreen{
		catalog: catalog,
		keys:    DefaultKeyMap(),
		bar: newFilterBar(selectbox.Config{
			ID:        "filtro-clientes",
			Label:     "Situação",
			AriaLabel: "Filtrar clientes por situação",
		}, opts, service.StatusOptions(), service.FiltroTodos, "Buscar cliente"),
		table: newTable([]table.Column{
			table.NewColumn(colID, "ID", 9),
			table.NewFlexColumn(colNome, "Nome", 2),
			table.NewColumn(colTelefone, "Telefone", 16),
			table.NewFlexColumn(colVeiculos, "Veículos", 2),
			table.NewColumn(colSituacao, "Situação", 10),
		}),
	}
	s.reload()
	return s
}

// Init initializes the screen
func (s ClientesScreen) Init() tea.Cmd {
	return nil
}

func (s *ClientesScreen) SetOrigin(x, y int)        { s.bar.setOrigin(x, y) }
func (s *ClientesScreen) Activate(hub *pointer.Hub) { s.bar.mount(hub) }
func (s *ClientesScreen) Deactivate()               { s.bar.unmount() }
func (s ClientesScreen) Typing() bool               { return s.bar.typing() }
func (s ClientesScreen) Announcement() string       { return s.bar.announcement() }
func (s ClientesScreen) Filter() string             { return s.bar.value }
func (s ClientesScreen) Rows() []storage.Cliente    { return s.rows }
func (s ClientesScreen) TableFocused() bool         { return s.bar.focus == focusTable }

// Selected returns the highlighted client.
func (s ClientesScreen) Selected() (Selection, bool) {
	id, ok := highlightedID(s.table)
	if !ok {
		return Selection{}, false
	}
	for _, c := range s.rows {
		if c.ID == id {
			return Selection{Kind: RecordCliente, ID: id, Label: c.Nome}, true
		}
	}
	return Selection{}, false
}

// Update handles messages for the clients screen
func (s ClientesScreen) Update(msg tea.Msg) (ClientesScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.table = resizeTable(s.table, s.width, s.height)

	case FilterChangedMsg:
		if s.bar.owns(msg) {
			s.bar.value = msg.Value
			s.reload()
		}

	case tea.KeyMsg:
		if key.Matches(msg, s.keys.Focus) {
			s.bar.cycleFocus()
			s.table = s.table.Focused(s.bar.focus == focusTable)
			return s, nil
		}

		var changed, handled bool
		cmd, changed, handled = s.bar.updateKey(msg)
		if handled {
			if changed {
				s.applyFilter()
			}
			return s, cmd
		}

		if s.bar.focus == focusTable {
			switch {
			case key.Matches(msg, s.keys.Toggle):
				s.toggleHighlighted()
				return s, nil
			case key.Matches(msg, s.keys.Reload):
				s.reload()
				return s, nil
			}
			s.table, cmd = s.table.Update(msg)
		}

	case tea.MouseMsg:
		var inTable bool
		cmd, inTable = s.bar.updateMouse(msg)
		if inTable {
			s.bar.setFocus(focusTable)
		}
		s.table = s.table.Focused(s.bar.focus == focusTable)
	}

	return s, cmd
}

func (s *ClientesScreen) reload() {
	all, err := s.catalog.Clientes(s.bar.value, "")
	if err != nil {
		s.err = "Erro ao buscar clientes"
		s.all = nil
	} else {
		s.err = ""
		s.all = all
	}
	s.applyFilter()
}

func (s *ClientesScreen) applyFilter() {
	s.rows = service.FilterClientes(s.all, s.bar.value, s.bar.searchValue())

	rows := make([]table.Row, len(s.rows))
	for i, c := range s.rows {
		rows[i] = table.NewRow(table.RowData{
			colRecordID: c.ID,
			colID:       service.FormatClienteID(c.ID),
			colNome:     c.Nome,
			colTelefone: service.FormatTelefone(c.Telefone),
			colVeiculos: placas(c.Veiculos),
			colSituacao: table.NewStyledCell(service.FormatSituacao(c.Situacao), styles.SituacaoStyle(c.Situacao)),
		})
	}
	s.table = s.table.WithRows(rows)
}

func placas(veiculos []storage.Veiculo) string {
	if len(veiculos) == 0 {
		return "-"
	}
	out := make([]string, len(veiculos))
	for i, v := range veiculos {
		out[i] = v.Placa
	}
	return strings.Join(out, ", ")
}

func (s *ClientesScreen) toggleHighlighted() {
	id, ok := highlightedID(s.table)
	if !ok {
		return
	}
	next, err := s.catalog.ToggleCliente(id)
	if err != nil {
		s.err = toggleError(err)
		return
	}
	s.notice = fmt.Sprintf("%s agora está %s", service.FormatClienteID(id), service.FormatSituacao(next))
	s.refresh()
}

func (s *ClientesScreen) refresh() {
	highlighted := s.table.GetHighlightedRowIndex()
	s.reload()
	s.table = keepHighlight(s.table, highlighted, len(s.rows))
}

// View renders the clients screen
func (s ClientesScreen) View() string {
	body := s.table.View()
	if s.err != "" {
		body = styles.ErrorText.Render(s.err)
	} else if len(s.rows) == 0 {
		body = styles.HelpText.Render("Nenhum cliente encontrado.")
	}

	parts := []string{s.bar.view("Buscar"), body}
	if s.notice != "" {
		parts = append(parts, styles.SuccessText.Render(s.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
