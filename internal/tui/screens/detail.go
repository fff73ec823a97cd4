package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui/styles"
)

// DetailTab is a section of the client page
type DetailTab int

const (
	DetailDados DetailTab = iota
	DetailVeiculos
)

var detailTitles = []string{"Dados do Cliente", "Veículos"}

const (
	colPlaca         = "placa"
	colModelo        = "modelo"
	colMarca         = "marca"
	colCor           = "cor"
	colAno           = "ano"
	colQuilometragem = "quilometragem"
)

// DetailClosedMsg is sent when the client page is closed
type DetailClosedMsg struct{}

// ClienteDetailScreen shows a client's data and vehicles
type ClienteDetailScreen struct {
	catalog *service.Catalog
	keys    KeyMap
	id      int64

	cliente  *storage.Cliente
	veiculos []storage.Veiculo
	table    table.Model
	active   DetailTab

	err    string
	notice string
	width  int
	height int
	closed bool

	// Action requests
	requestEditCliente bool
	requestAdd         bool
	requestEdit        bool
	requestDelete      bool
}

// NewClienteDetailScreen creates the page of client id and loads it
func NewClienteDetailScreen(catalog *service.Catalog, id int64) ClienteDetailScreen {
	s := ClienteDetailScreen{
		catalog: catalog,
		keys:    DefaultKeyMap(),
		id:      id,
		table: newTable([]table.Column{
			table.NewColumn(colID, "ID", 6),
			table.NewColumn(colPlaca, "Placa", 9),
			table.NewFlexColumn(colModelo, "Modelo", 2),
			table.NewFlexColumn(colMarca, "Marca", 2),
			table.NewColumn(colCor, "Cor", 10),
			table.NewColumn(colAno, "Ano", 6),
			table.NewColumn(colQuilometragem, "Quilometragem", 14),
		}).Focused(true),
	}
	s.Reload()
	return s
}

// Init initializes the client page
func (s ClienteDetailScreen) Init() tea.Cmd {
	return nil
}

// Reload re-reads the client and its vehicles.
func (s *ClienteDetailScreen) Reload() {
	cliente, err := s.catalog.Cliente(s.id)
	if err != nil {
		s.err = "Cliente não encontrado"
		s.cliente = nil
		s.veiculos = nil
		s.table = s.table.WithRows(nil)
		return
	}
	s.cliente = cliente

	veiculos, err := s.catalog.Veiculos(s.id)
	if err != nil {
		s.err = "Erro ao buscar veículos"
		veiculos = nil
	} else {
		s.err = ""
	}
	s.veiculos = veiculos

	highlighted := s.table.GetHighlightedRowIndex()
	rows := make([]table.Row, len(veiculos))
	for i, v := range veiculos {
		rows[i] = table.NewRow(table.RowData{
			colRecordID:      v.ID,
			colID:            strconv.FormatInt(v.ID, 10),
			colPlaca:         v.Placa,
			colModelo:        v.Modelo,
			colMarca:         v.Marca,
			colCor:           v.Cor,
			colAno:           strconv.Itoa(v.Ano),
			colQuilometragem: strconv.Itoa(v.Quilometragem),
		})
	}
	s.table = keepHighlight(s.table.WithRows(rows), highlighted, len(rows))
}

// ID returns the client shown
func (s ClienteDetailScreen) ID() int64 { return s.id }

// Cliente returns the loaded client, or nil if it no longer exists
func (s ClienteDetailScreen) Cliente() *storage.Cliente { return s.cliente }

// Veiculos returns the client's vehicles
func (s ClienteDetailScreen) Veiculos() []storage.Veiculo { return s.veiculos }

// ActiveTab returns the section being shown
func (s ClienteDetailScreen) ActiveTab() DetailTab { return s.active }

// IsClosed returns true if the page was closed
func (s ClienteDetailScreen) IsClosed() bool { return s.closed }

// SetStatus shows the outcome of an action under the page content.
func (s *ClienteDetailScreen) SetStatus(text string, failed bool) {
	if failed {
		s.err, s.notice = text, ""
		return
	}
	s.err, s.notice = "", text
}

// SelectedVeiculo returns the highlighted vehicle of the Veículos section.
func (s ClienteDetailScreen) SelectedVeiculo() (storage.Veiculo, bool) {
	id, ok := highlightedID(s.table)
	if !ok {
		return storage.Veiculo{}, false
	}
	for _, v := range s.veiculos {
		if v.ID == id {
			return v, true
		}
	}
	return storage.Veiculo{}, false
}

// Action request checks
func (s ClienteDetailScreen) WantsEditCliente() bool { return s.requestEditCliente }
func (s ClienteDetailScreen) WantsAddVeiculo() bool  { return s.requestAdd }
func (s ClienteDetailScreen) WantsEditVeiculo() bool { return s.requestEdit }
func (s ClienteDetailScreen) WantsDeleteVeiculo() bool {
	return s.requestDelete
}

// ClearRequests resets all action requests
func (s *ClienteDetailScreen) ClearRequests() {
	s.requestEditCliente = false
	s.requestAdd = false
	s.requestEdit = false
	s.requestDelete = false
}

// Update handles messages for the client page
func (s ClienteDetailScreen) Update(msg tea.Msg) (ClienteDetailScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.table = resizeTable(s.table, max(0, msg.Width-2*contentX), max(0, msg.Height-contentY-footerLines))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Back):
			s.closed = true
			return s, func() tea.Msg { return DetailClosedMsg{} }
		case key.Matches(msg, s.keys.NextTab, s.keys.PrevTab, s.keys.Focus):
			s.active = (s.active + 1) % DetailTab(len(detailTitles))
			return s, nil
		case key.Matches(msg, s.keys.Add):
			s.requestAdd = true
			return s, nil
		case key.Matches(msg, s.keys.Edit):
			if s.active == DetailDados {
				s.requestEditCliente = s.cliente != nil
			} else if _, ok := s.SelectedVeiculo(); ok {
				s.requestEdit = true
			}
			return s, nil
		case key.Matches(msg, s.keys.Delete):
			if _, ok := s.SelectedVeiculo(); ok && s.active == DetailVeiculos {
				s.requestDelete = true
			}
			return s, nil
		case key.Matches(msg, s.keys.Reload):
			s.Reload()
			return s, nil
		}
		if s.active == DetailVeiculos {
			s.table, cmd = s.table.Update(msg)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			for i, r := range s.tabRects() {
				if r.Contains(msg.X, msg.Y) {
					s.active = DetailTab(i)
					break
				}
			}
		}
	}

	return s, cmd
}

func (s ClienteDetailScreen) renderTab(t DetailTab) string {
	if t == s.active {
		return styles.TabActive.Render(detailTitles[t])
	}
	return styles.Tab.Render(detailTitles[t])
}

// tabRects returns the clickable area of each section title.
func (s ClienteDetailScreen) tabRects() []pointer.Rect {
	rects := make([]pointer.Rect, len(detailTitles))
	x := contentX
	for i := range detailTitles {
		w := lipgloss.Width(s.renderTab(DetailTab(i)))
		rects[i] = pointer.Rect{X: x, Y: tabsY, Width: w, Height: 1}
		x += w + 1
	}
	return rects
}

func (s ClienteDetailScreen) renderDados() string {
	c := s.cliente
	rows := [][2]string{
		{"Nome", c.Nome},
		{"CPF", service.FormatCPF(c.CPF)},
		{"Telefone", service.FormatTelefone(c.Telefone)},
		{"E-mail", c.Email},
		{"Endereço", c.Endereco},
		{"Situação", styles.SituacaoStyle(c.Situacao).Render(service.FormatSituacao(c.Situacao))},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(styles.InputLabel.Render(fmt.Sprintf("%-10s", r[0]+":")) + " " + r[1] + "\n")
	}
	b.WriteString("\n" + styles.RenderKeybind("e", "Editar"))
	return b.String()
}

func (s ClienteDetailScreen) renderVeiculos() string {
	var b strings.Builder
	if len(s.veiculos) == 0 {
		b.WriteString(styles.HelpText.Render("Não há veículos cadastrados.") + "\n")
	} else {
		b.WriteString(s.table.View() + "\n")
	}
	b.WriteString("\n" + strings.Join([]string{
		styles.RenderKeybind("n", "Adicionar veículo"),
		styles.RenderKeybind("e", "Editar"),
		styles.RenderKeybind("d", "Excluir"),
	}, "  "))
	return b.String()
}

// View renders the client page
func (s ClienteDetailScreen) View() string {
	name := "Cliente"
	if s.cliente != nil {
		name = s.cliente.Nome
	}
	header := styles.HeaderTitle.Render("← " + name)

	tabs := make([]string, len(detailTitles))
	for i := range detailTitles {
		tabs[i] = s.renderTab(DetailTab(i))
	}

	var content string
	switch {
	case s.cliente == nil:
		content = styles.ErrorText.Render(s.err)
	case s.active == DetailDados:
		content = s.renderDados()
	default:
		content = s.renderVeiculos()
	}

	parts := []string{header, strings.Join(tabs, " "), "", content}
	if s.err != "" && s.cliente != nil {
		parts = append(parts, styles.ErrorText.Render(s.err))
	}
	if s.notice != "" {
		parts = append(parts, styles.SuccessText.Render(s.notice))
	}
	parts = append(parts, styles.HelpText.Render("[Tab] Alternar seção  [Esc] Voltar"))
	return lipgloss.NewStyle().PaddingLeft(contentX).Render(strings.Join(parts, "\n"))
}
