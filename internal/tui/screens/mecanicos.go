package screens

import (
	"errors"
	"fmt"

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

const (
	colID       = "id"
	colNome     = "nome"
	colTelefone = "telefone"
	colEmail    = "email"
	colSituacao = "situacao"
	colVeiculos = "veiculos"
	colCategory = "categoria"

	// colRecordID holds the store id; it has no column and is never rendered
	colRecordID = "record_id"
)

// reserved is the number of screen lines used around the table body.
const reserved = 16

// defaultTableWidth sizes flex columns until the first WindowSizeMsg.
const defaultTableWidth = 100

// MecanicosScreen lists mechanics with a status filter and name search
type MecanicosScreen struct {
	catalog *service.Catalog
	keys    KeyMap
	bar     filterBar
	table   table.Model

	all  []storage.Mecanico
	rows []storage.Mecanico

	err    string
	notice string
	width  int
	height int
}

// NewMecanicosScreen creates the mechanics screen and loads its records
func NewMecanicosScreen(catalog *service.Catalog, opts ScreenOptions) MecanicosScreen {
	s := MecanicosScreen{
		catalog: catalog,
		keys:    DefaultKeyMap(),
		bar: newFilterBar(selectbox.Config{
			ID:        "filtro-mecanicos",
			Label:     "Situação",
			AriaLabel: "Filtrar mecânicos por situação",
		}, opts, service.StatusOptions(), service.FiltroTodos, "Buscar mecânico"),
		table: newTable([]table.Column{
			table.NewColumn(colID, "ID", 9),
			table.NewFlexColumn(colNome, "Nome", 2),
			table.NewColumn(colTelefone, "Celular", 16),
			table.NewFlexColumn(colEmail, "E-mail", 2),
			table.NewColumn(colSituacao, "Situação", 10),
		}),
	}
	s.reload()
	return s
}

// newTable creates a record table in the console style.
func newTable(columns []table.Column) table.Model {
	return table.New(columns).
		WithBaseStyle(styles.TableBase).
		HighlightStyle(styles.TableHighlight).
		WithTargetWidth(defaultTableWidth).
		WithPageSize(10)
}

// Init initializes the screen
func (s MecanicosScreen) Init() tea.Cmd {
	return nil
}

// SetOrigin records where the screen content starts on the terminal.
func (s *MecanicosScreen) SetOrigin(x, y int) { s.bar.setOrigin(x, y) }

// Activate mounts the screen's dropdown on hub.
func (s *MecanicosScreen) Activate(hub *pointer.Hub) { s.bar.mount(hub) }

// Deactivate releases the screen's dropdown.
func (s *MecanicosScreen) Deactivate() { s.bar.unmount() }

// Typing reports whether the search input has focus.
func (s MecanicosScreen) Typing() bool { return s.bar.typing() }

// Announcement describes the focused dropdown for assistive output.
func (s MecanicosScreen) Announcement() string { return s.bar.announcement() }

// Filter returns the current status filter value.
func (s MecanicosScreen) Filter() string { return s.bar.value }

// Rows returns the mechanics currently listed.
func (s MecanicosScreen) Rows() []storage.Mecanico { return s.rows }

// TableFocused reports whether keys go to the record table.
func (s MecanicosScreen) TableFocused() bool { return s.bar.focus == focusTable }

// Selected returns the highlighted mechanic.
func (s MecanicosScreen) Selected() (Selection, bool) {
	id, ok := highlightedID(s.table)
	if !ok {
		return Selection{}, false
	}
	for _, m := range s.rows {
		if m.ID == id {
			return Selection{Kind: RecordMecanico, ID: id, Label: m.Nome}, true
		}
	}
	return Selection{}, false
}

// Update handles messages for the mechanics screen
func (s MecanicosScreen) Update(msg tea.Msg) (MecanicosScreen, tea.Cmd) {
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

func (s *MecanicosScreen) reload() {
	all, err := s.catalog.Mecanicos(s.bar.value, "")
	if err != nil {
		s.err = "Erro ao buscar mecânicos"
		s.all = nil
	} else {
		s.err = ""
		s.all = all
	}
	s.applyFilter()
}

func (s *MecanicosScreen) applyFilter() {
	s.rows = service.FilterMecanicos(s.all, s.bar.value, s.bar.searchValue())

	rows := make([]table.Row, len(s.rows))
	for i, m := range s.rows {
		rows[i] = table.NewRow(table.RowData{
			colRecordID: m.ID,
			colID:       service.FormatMecanicoID(m.ID),
			colNome:     m.Nome,
			colTelefone: service.FormatTelefone(m.Telefone),
			colEmail:    m.Email,
			colSituacao: table.NewStyledCell(service.FormatSituacao(m.Situacao), styles.SituacaoStyle(m.Situacao)),
		})
	}
	s.table = s.table.WithRows(rows)
}

func (s *MecanicosScreen) toggleHighlighted() {
	id, ok := highlightedID(s.table)
	if !ok {
		return
	}
	next, err := s.catalog.ToggleMecanico(id)
	if err != nil {
		s.err = toggleError(err)
		return
	}
	s.notice = fmt.Sprintf("%s agora está %s", service.FormatMecanicoID(id), service.FormatSituacao(next))
	s.refresh()
}

// refresh reloads the records keeping the cursor on the same line.
func (s *MecanicosScreen) refresh() {
	highlighted := s.table.GetHighlightedRowIndex()
	s.reload()
	s.table = keepHighlight(s.table, highlighted, len(s.rows))
}

// View renders the mechanics screen
func (s MecanicosScreen) View() string {
	body := s.table.View()
	if s.err != "" {
		body = styles.ErrorText.Render(s.err)
	} else if len(s.rows) == 0 {
		body = styles.HelpText.Render("Nenhum mecânico encontrado.")
	}

	parts := []string{s.bar.view("Buscar"), body}
	if s.notice != "" {
		parts = append(parts, styles.SuccessText.Render(s.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func resizeTable(t table.Model, width, height int) table.Model {
	if width > 4 {
		t = t.WithTargetWidth(width - 2)
	}
	return t.WithPageSize(max(3, height-reserved))
}

func keepHighlight(t table.Model, index, rows int) table.Model {
	return t.WithHighlightedRow(min(index, max(0, rows-1)))
}

func highlightedID(t table.Model) (int64, bool) {
	if t.TotalRows() == 0 {
		return 0, false
	}
	id, ok := t.HighlightedRow().Data[colRecordID].(int64)
	return id, ok
}

func toggleError(err error) string {
	if errors.Is(err, storage.ErrNotFound) {
		return "Registro não encontrado; recarregue a lista"
	}
	return "Erro ao alterar situação"
}
