package screens

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui/selectbox"
	"github.com/normanking/oficina/internal/tui/styles"
)

// FormMode indicates whether we're creating or editing
type FormMode int

const (
	FormModeCreate FormMode = iota
	FormModeEdit
)

// RecordKind names the record a form or a dashboard request refers to
type RecordKind int

const (
	RecordMecanico RecordKind = iota
	RecordCliente
	RecordVeiculo
	RecordParte
)

var recordNames = []string{"mecânico", "cliente", "veículo", "parte"}

// String returns the record name in lower case
func (k RecordKind) String() string {
	if k < 0 || int(k) >= len(recordNames) {
		return "registro"
	}
	return recordNames[k]
}

// Title returns the record name capitalized
func (k RecordKind) Title() string {
	name := k.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// RecordSavedMsg is sent when a form stored its record
type RecordSavedMsg struct {
	Kind   RecordKind
	Mode   FormMode
	ID     int64
	Notice string
}

// FormCanceledMsg is sent when a form is closed without saving
type FormCanceledMsg struct{}

// FieldChangedMsg is emitted when a form dropdown commits a value
type FieldChangedMsg struct {
	SelectID string
	Value    string
}

// Form field names; they match the service.FieldError field names.
const (
	fieldNome          = "nome"
	fieldCPF           = "cpf"
	fieldTelefone      = "telefone"
	fieldEmail         = "email"
	fieldEndereco      = "endereco"
	fieldSituacao      = "situacao"
	fieldPlaca         = "placa"
	fieldMarca         = "marca"
	fieldModelo        = "modelo"
	fieldAno           = "ano"
	fieldCor           = "cor"
	fieldQuilometragem = "quilometragem"
	fieldCategoria     = "categoria"
	fieldImagem        = "imagem"
)

// Form layout: title on the first row, fields from the third.
const (
	formX     = 2
	formY     = 1
	formWidth = 50
)

type formField struct {
	name  string
	label string
	input textinput.Model

	// sel is set for dropdown fields; value then holds the committed choice
	sel     *selectbox.Model
	options []selectbox.Option
	value   string
}

func (f formField) isSelect() bool { return f.sel != nil }

func (f formField) text() string {
	if f.isSelect() {
		return f.value
	}
	return f.input.Value()
}

func (f formField) props() selectbox.Props {
	id := f.sel.ID()
	return selectbox.Props{
		Options: f.options,
		Value:   f.value,
		OnChange: func(v string) tea.Cmd {
			return func() tea.Msg { return FieldChangedMsg{SelectID: id, Value: v} }
		},
	}
}

func textField(name, label, placeholder, value string, limit int) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = formWidth
	ti.Prompt = "› "
	ti.SetValue(value)
	return formField{name: name, label: label, input: ti}
}

func selectField(name string, cfg selectbox.Config, opts ScreenOptions, options []service.Option, value string) formField {
	cfg.Placeholder = opts.Placeholder
	cfg.MaxVisible = opts.PopupHeight
	sel := selectbox.New(cfg)
	sel.Styles = styles.SelectStyles()
	return formField{name: name, label: cfg.Label, sel: sel, options: toSelectOptions(options), value: value}
}

func situacaoField(s storage.Situacao, opts ScreenOptions) formField {
	if s == "" {
		s = storage.Ativo
	}
	return selectField(fieldSituacao, selectbox.Config{
		ID:        "form-situacao",
		Label:     "Situação",
		AriaLabel: "Selecionar situação",
	}, opts, service.SituacaoOptions(), string(s))
}

// FormScreen is the create/edit form of a mechanic, client, vehicle or
// checklist part
type FormScreen struct {
	catalog   *service.Catalog
	kind      RecordKind
	mode      FormMode
	editID    int64
	clienteID int64

	fields   []formField
	focused  int
	err      string
	saved    bool
	canceled bool

	width  int
	height int
}

// NewMecanicoForm creates the mechanic form; a nil m creates a new record
func NewMecanicoForm(catalog *service.Catalog, m *storage.Mecanico, opts ScreenOptions) FormScreen {
	if m == nil {
		m = &storage.Mecanico{}
	}
	return newForm(catalog, RecordMecanico, m.ID, []formField{
		textField(fieldNome, "Nome", "Nome completo", m.Nome, 100),
		textField(fieldTelefone, "Telefone", "(00) 00000-0000", service.FormatTelefone(m.Telefone), 20),
		textField(fieldEmail, "E-mail", "Digite o e-mail", m.Email, 100),
		situacaoField(m.Situacao, opts),
	})
}

// NewClienteForm creates the client form; a nil c creates a new record
func NewClienteForm(catalog *service.Catalog, c *storage.Cliente, opts ScreenOptions) FormScreen {
	if c == nil {
		c = &storage.Cliente{}
	}
	return newForm(catalog, RecordCliente, c.ID, []formField{
		textField(fieldNome, "Nome", "Nome completo", c.Nome, 100),
		textField(fieldCPF, "CPF", "000.000.000-00", service.FormatCPF(c.CPF), 14),
		textField(fieldTelefone, "Telefone", "(00) 00000-0000", service.FormatTelefone(c.Telefone), 20),
		textField(fieldEmail, "E-mail", "Digite o e-mail", c.Email, 100),
		textField(fieldEndereco, "Endereço", "Endereço completo", c.Endereco, 200),
		situacaoField(c.Situacao, opts),
	})
}

// NewVeiculoForm creates the vehicle form of a client; a nil v adds a new
// vehicle
func NewVeiculoForm(catalog *service.Catalog, clienteID int64, v *storage.Veiculo, opts ScreenOptions) FormScreen {
	ano, km := "", ""
	if v == nil {
		v = &storage.Veiculo{}
	} else {
		ano = strconv.Itoa(v.Ano)
		km = strconv.Itoa(v.Quilometragem)
	}
	f := newForm(catalog, RecordVeiculo, v.ID, []formField{
		textField(fieldPlaca, "Placa", "ABC1D23", v.Placa, 7),
		textField(fieldMarca, "Marca", "Digite a marca do veículo", v.Marca, 60),
		textField(fieldModelo, "Modelo", "Digite o modelo do veículo", v.Modelo, 60),
		textField(fieldAno, "Ano", "Digite o ano do veículo", ano, 4),
		textField(fieldCor, "Cor", "Digite a cor do veículo", v.Cor, 30),
		textField(fieldQuilometragem, "Quilometragem", "Digite a quilometragem do veículo", km, 9),
	})
	f.clienteID = clienteID
	return f
}

// NewParteForm creates the checklist part form
func NewParteForm(catalog *service.Catalog, opts ScreenOptions) FormScreen {
	return newForm(catalog, RecordParte, 0, []formField{
		textField(fieldNome, "Nome da parte", "Ex: Luzes do painel", "", 100),
		selectField(fieldCategoria, selectbox.Config{
			ID:        "form-categoria",
			Label:     "Categoria",
			AriaLabel: "Selecionar categoria",
		}, opts, service.CategoriaOptions(false), ""),
		textField(fieldImagem, "Imagem", "Caminho ou URL da imagem", "", 300),
	})
}

func newForm(catalog *service.Catalog, kind RecordKind, id int64, fields []formField) FormScreen {
	f := FormScreen{
		catalog: catalog,
		kind:    kind,
		editID:  id,
		fields:  fields,
	}
	if id != 0 {
		f.mode = FormModeEdit
	}
	f.focusField(0)
	return f
}

// Init initializes the form
func (f FormScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Kind returns the record the form stores
func (f FormScreen) Kind() RecordKind { return f.kind }

// Mode returns whether the form creates or edits
func (f FormScreen) Mode() FormMode { return f.mode }

// Err returns the validation or store error shown on the form
func (f FormScreen) Err() string { return f.err }

// IsSaved returns true if the form was saved
func (f FormScreen) IsSaved() bool { return f.saved }

// IsCanceled returns true if the form was canceled
func (f FormScreen) IsCanceled() bool { return f.canceled }

// Mount subscribes the form's dropdowns to hub.
func (f *FormScreen) Mount(hub *pointer.Hub) {
	for i := range f.fields {
		if f.fields[i].isSelect() {
			f.fields[i].sel.Mount(hub)
		}
	}
	f.focusField(f.focused)
}

// Unmount releases the form's dropdowns.
func (f *FormScreen) Unmount() {
	for i := range f.fields {
		if f.fields[i].isSelect() {
			f.fields[i].sel.Unmount()
		}
	}
}

// Announcement describes the focused dropdown for assistive output.
func (f FormScreen) Announcement() string {
	fld := f.fields[f.focused]
	if !fld.isSelect() || !fld.sel.Focused() {
		return ""
	}
	return fld.sel.Announcement(fld.props())
}

func (f FormScreen) value(name string) string {
	for _, fld := range f.fields {
		if fld.name == name {
			return strings.TrimSpace(fld.text())
		}
	}
	return ""
}

// Update handles messages for the form
func (f FormScreen) Update(msg tea.Msg) (FormScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil

	case FieldChangedMsg:
		for i := range f.fields {
			if f.fields[i].isSelect() && f.fields[i].sel.ID() == msg.SelectID {
				f.fields[i].value = msg.Value
			}
		}
		return f, nil

	case tea.MouseMsg:
		return f.updateMouse(msg)

	case tea.KeyMsg:
		fld := &f.fields[f.focused]
		if fld.isSelect() {
			// an outside press leaves the dropdown unfocused; keys still
			// belong to the field the form has focused
			if !fld.sel.Focused() {
				fld.sel.Focus()
			}
			if fld.sel.Consumes(msg) {
				return f, fld.sel.Update(msg, fld.props())
			}
		}

		switch msg.String() {
		case "esc":
			f.canceled = true
			return f, func() tea.Msg { return FormCanceledMsg{} }

		case "ctrl+s":
			return f.save()

		case "tab", "down":
			f.focusField((f.focused + 1) % len(f.fields))
			return f, nil

		case "shift+tab", "up":
			f.focusField((f.focused + len(f.fields) - 1) % len(f.fields))
			return f, nil

		case "enter":
			if f.focused == len(f.fields)-1 {
				return f.save()
			}
			f.focusField(f.focused + 1)
			return f, nil
		}
	}

	// Update focused input
	if fld := &f.fields[f.focused]; !fld.isSelect() {
		fld.input, cmd = fld.input.Update(msg)
	}
	return f, cmd
}

func (f *FormScreen) focusField(i int) {
	for j := range f.fields {
		if j == i {
			// a press may have just opened this popup
			continue
		}
		if f.fields[j].isSelect() {
			f.fields[j].sel.Blur()
		} else {
			f.fields[j].input.Blur()
		}
	}

	f.focused = i
	if fld := &f.fields[i]; fld.isSelect() {
		fld.sel.Focus()
	} else {
		fld.input.Focus()
	}
}

// layout places the dropdowns and returns the clickable area of each field.
func (f FormScreen) layout() []pointer.Rect {
	y := formY + 2
	rects := make([]pointer.Rect, len(f.fields))
	for i := range f.fields {
		fld := &f.fields[i]
		if fld.isSelect() {
			fld.sel.SetOrigin(formX, y)
			rects[i] = fld.sel.Bounds()
			y += rects[i].Height + 1
			continue
		}
		rects[i] = pointer.Rect{X: formX, Y: y, Width: formWidth, Height: 2}
		y += 3
	}
	return rects
}

func (f FormScreen) updateMouse(msg tea.MouseMsg) (FormScreen, tea.Cmd) {
	rects := f.layout()

	var cmds []tea.Cmd
	for i := range f.fields {
		if fld := &f.fields[i]; fld.isSelect() {
			cmds = append(cmds, fld.sel.Update(msg, fld.props()))
		}
	}

	if _, ok := pointer.FromMouse(msg); ok && msg.Button == tea.MouseButtonLeft {
		for i, r := range rects {
			if r.Contains(msg.X, msg.Y) {
				f.focusField(i)
				break
			}
		}
	}
	return f, tea.Batch(cmds...)
}

func (f FormScreen) save() (FormScreen, tea.Cmd) {
	var (
		id  int64
		err error
	)

	switch f.kind {
	case RecordMecanico:
		m := &storage.Mecanico{
			ID:       f.editID,
			Nome:     f.value(fieldNome),
			Telefone: f.value(fieldTelefone),
			Email:    f.value(fieldEmail),
			Situacao: storage.Situacao(f.value(fieldSituacao)),
		}
		err = f.catalog.SaveMecanico(m)
		id = m.ID

	case RecordCliente:
		c := &storage.Cliente{
			ID:       f.editID,
			Nome:     f.value(fieldNome),
			CPF:      f.value(fieldCPF),
			Telefone: f.value(fieldTelefone),
			Email:    f.value(fieldEmail),
			Endereco: f.value(fieldEndereco),
			Situacao: storage.Situacao(f.value(fieldSituacao)),
		}
		err = f.catalog.SaveCliente(c)
		id = c.ID

	case RecordVeiculo:
		in := service.VeiculoInput{
			Placa:         f.value(fieldPlaca),
			Marca:         f.value(fieldMarca),
			Modelo:        f.value(fieldModelo),
			Cor:           f.value(fieldCor),
			Ano:           f.value(fieldAno),
			Quilometragem: f.value(fieldQuilometragem),
		}
		var v storage.Veiculo
		if v, err = in.Veiculo(time.Now()); err == nil {
			v.ID = f.editID
			v.ClienteID = f.clienteID
			err = f.catalog.SaveVeiculo(&v)
			id = v.ID
		}

	case RecordParte:
		p := &storage.ParteVeiculo{
			Nome:      f.value(fieldNome),
			Imagem:    f.value(fieldImagem),
			Categoria: storage.Categoria(f.value(fieldCategoria)),
		}
		err = f.catalog.CreateParte(p)
		id = p.ID
	}

	if err != nil {
		f.err = saveError(err)
		var fe *service.FieldError
		if errors.As(err, &fe) {
			for i, fld := range f.fields {
				if fld.name == fe.Field {
					f.focusField(i)
					break
				}
			}
		}
		return f, nil
	}

	f.saved = true
	f.err = ""
	saved := RecordSavedMsg{Kind: f.kind, Mode: f.mode, ID: id, Notice: savedNotice(f.kind, f.mode)}
	return f, func() tea.Msg { return saved }
}

// DeletedNotice is the status line shown after sel was deleted.
func DeletedNotice(sel Selection) string {
	if sel.Kind == RecordParte {
		return sel.Kind.Title() + " excluída: " + sel.Label
	}
	return sel.Kind.Title() + " excluído: " + sel.Label
}

func savedNotice(kind RecordKind, mode FormMode) string {
	name := kind.Title()
	feminine := kind == RecordParte
	switch {
	case mode == FormModeEdit && feminine:
		return name + " atualizada"
	case mode == FormModeEdit:
		return name + " atualizado"
	case feminine:
		return name + " cadastrada"
	}
	return name + " cadastrado"
}

func saveError(err error) string {
	var fe *service.FieldError
	switch {
	case errors.As(err, &fe):
		return fe.Message
	case errors.Is(err, storage.ErrDuplicate):
		return "Já existe um registro com esses dados"
	case errors.Is(err, storage.ErrNotFound):
		return "Registro não encontrado; recarregue a lista"
	}
	return "Não foi possível salvar"
}

func (f FormScreen) title() string {
	switch {
	case f.kind == RecordVeiculo && f.mode == FormModeCreate:
		return "Cadastro de Veículo"
	case f.kind == RecordParte:
		return "Cadastrar Parte do Checklist"
	case f.mode == FormModeEdit:
		return "Editar " + f.kind.Title()
	}
	return "Cadastrar " + f.kind.Title()
}

// View renders the form
func (f FormScreen) View() string {
	f.layout()

	var content strings.Builder
	content.WriteString(styles.HeaderTitle.Render(f.title()) + "\n\n")

	for i, fld := range f.fields {
		if fld.isSelect() {
			content.WriteString(fld.sel.View(fld.props()) + "\n\n")
			continue
		}
		label := styles.InputLabel
		if i == f.focused {
			label = styles.InputLabelFocused
		}
		content.WriteString(label.Render(fld.label) + "\n")
		content.WriteString(styles.Input.Render(fld.input.View()) + "\n\n")
	}

	if f.err != "" {
		content.WriteString(styles.ErrorText.Render("⚠ "+f.err) + "\n\n")
	}
	if a := f.Announcement(); a != "" {
		content.WriteString(styles.HelpText.Render(a) + "\n")
	}
	content.WriteString(styles.HelpText.Render("[Tab/↑↓] Navegar  [Ctrl+S] Salvar  [Esc] Cancelar"))

	return lipgloss.NewStyle().
		PaddingLeft(formX).
		PaddingTop(formY).
		Render(content.String())
}
