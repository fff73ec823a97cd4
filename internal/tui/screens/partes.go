package screens

import (
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

// PartesScreen lists the vehicle checklist parts by category
type PartesScreen struct {
	catalog *service.Catalog
	keys    KeyMap
	bar     filterBar
	table   table.Model

	rows []storage.ParteVeiculo

	err    string
	width  int
	height int
}

// NewPartesScreen creates the checklist parts screen
func NewPartesScreen(catalog *service.Catalog, opts ScreenOptions) PartesScreen {
	s := PartesScreen{
		catalog: catalog,
		keys:    DefaultKeyMap(),
		bar: newFilterBar(selectbox.Config{
			ID:        "filtro-partes",
			Label:     "Categoria",
			AriaLabel: "Filtrar partes por categoria",
		}, opts, service.CategoriaOptions(true), service.FiltroTodos, ""),
		table: newTable([]table.Column{
			table.NewColumn(colID, "ID", 6),
			table.NewFlexColumn(colNome, "Parte", 3),
			table.NewFlexColumn(colCategory, "Categoria", 2),
		}),
	}
	s.reload()
	return s
}

// Init initializes the screen
func (s PartesScreen) Init() tea.Cmd {
	return nil
}

func (s *PartesScreen) SetOrigin(x, y int)          { s.bar.setOrigin(x, y) }
func (s *PartesScreen) Activate(hub *pointer.Hub)   { s.bar.mount(hub) }
func (s *PartesScreen) Deactivate()                 { s.bar.unmount() }
func (s PartesScreen) Typing() bool                 { return false }
func (s PartesScreen) Announcement() string         { return s.bar.announcement() }
func (s PartesScreen) Filter() string               { return s.bar.value }
func (s PartesScreen) Rows() []storage.ParteVeiculo { return s.rows }
func (s PartesScreen) TableFocused() bool           { return s.bar.focus == focusTable }

// Selected returns the highlighted part.
func (s PartesScreen) Selected() (Selection, bool) {
	id, ok := highlightedID(s.table)
	if !ok {
		return Selection{}, false
	}
	for _, p := range s.rows {
		if p.ID == id {
			return Selection{Kind: RecordParte, ID: id, Label: p.Nome}, true
		}
	}
	return Selection{}, false
}

func (s *PartesScreen) refresh() {
	highlighted := s.table.GetHighlightedRowIndex()
	s.reload()
	s.table = keepHighlight(s.table, highlighted, len(s.rows))
}

// Update handles messages for the parts screen
func (s PartesScreen) Update(msg tea.Msg) (PartesScreen, tea.Cmd) {
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

		var handled bool
		cmd, _, handled = s.bar.updateKey(msg)
		if handled {
			return s, cmd
		}

		if s.bar.focus == focusTable {
			if key.Matches(msg, s.keys.Reload) {
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

func (s *PartesScreen) reload() {
	partes, err := s.catalog.Partes(s.bar.value)
	if err != nil {
		s.err = "Erro ao buscar partes do checklist"
		s.rows = nil
	} else {
		s.err = ""
		s.rows = partes
	}

	rows := make([]table.Row, len(s.rows))
	for i, p := range s.rows {
		rows[i] = table.NewRow(table.RowData{
			colRecordID: p.ID,
			colID:       fmt.Sprintf("%d", p.ID),
			colNome:     p.Nome,
			colCategory: p.Categoria.Label(),
		})
	}
	s.table = s.table.WithRows(rows)
}

// View renders the parts screen
func (s PartesScreen) View() string {
	body := s.table.View()
	if s.err != "" {
		body = styles.ErrorText.Render(s.err)
	} else if len(s.rows) == 0 {
		body = styles.HelpText.Render("Nenhuma parte cadastrada nesta categoria.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.bar.view(""), body)
}
