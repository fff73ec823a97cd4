package screens

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/storage"
)

var save = tea.KeyMsg{Type: tea.KeyCtrlS}

// fill types each value into the next field, leaving focus after the last.
func fill(f FormScreen, values ...string) FormScreen {
	for _, v := range values {
		f, _ = f.Update(runes(v))
		f, _ = f.Update(tab)
	}
	return f
}

func savedMsg(t *testing.T, cmd tea.Cmd) RecordSavedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(RecordSavedMsg)
	require.True(t, ok, "expected RecordSavedMsg")
	return msg
}

func clienteID(t *testing.T, catalog *service.Catalog, nome string) int64 {
	t.Helper()
	list, err := catalog.Clientes(service.FiltroTodos, nome)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0].ID
}

func TestFormValidationFocusesField(t *testing.T) {
	f := NewMecanicoForm(newTestCatalog(t), nil, testOptions)
	assert.Contains(t, f.View(), "Cadastrar Mecânico")

	f, cmd := f.Update(save)
	assert.Nil(t, cmd)
	assert.Equal(t, "Nome obrigatório", f.Err())
	assert.Equal(t, 0, f.focused)

	f, _ = f.Update(runes("Davi Rocha"))
	f, _ = f.Update(save)
	assert.Equal(t, "Telefone inválido", f.Err())
	assert.Equal(t, 1, f.focused)
	assert.Contains(t, f.View(), "⚠ Telefone inválido")
	assert.False(t, f.IsSaved())
}

func TestFormSelectCommitsThroughMessage(t *testing.T) {
	catalog := newTestCatalog(t)
	hub := pointer.NewHub()
	f := NewClienteForm(catalog, nil, testOptions)
	f.Mount(hub)
	t.Cleanup(f.Unmount)
	assert.Equal(t, 1, hub.Len())

	f = fill(f, "Rui Lima", "123.456.789-09", "(11) 98765-4321", "rui@exemplo.com", "Rua B, 20")
	require.Equal(t, fieldSituacao, f.fields[f.focused].name)
	assert.Contains(t, f.Announcement(), "collapsed, Ativo")

	f, _ = f.Update(enter)
	assert.Contains(t, f.Announcement(), "expanded")
	f, _ = f.Update(down)
	f, cmd := f.Update(enter)
	require.NotNil(t, cmd)
	changed, ok := cmd().(FieldChangedMsg)
	require.True(t, ok)
	assert.Equal(t, FieldChangedMsg{SelectID: "form-situacao", Value: "inativo"}, changed)

	// the field keeps its value until the message is applied
	assert.Equal(t, "ativo", f.value(fieldSituacao))
	f, _ = f.Update(changed)
	assert.Equal(t, "inativo", f.value(fieldSituacao))

	f, cmd = f.Update(save)
	msg := savedMsg(t, cmd)
	assert.Equal(t, RecordCliente, msg.Kind)
	assert.Equal(t, FormModeCreate, msg.Mode)
	assert.Equal(t, "Cliente cadastrado", msg.Notice)
	assert.True(t, f.IsSaved())

	c, err := catalog.Cliente(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678909", c.CPF)
	assert.Equal(t, storage.Inativo, c.Situacao)
}

func TestEditFormKeepsRecordID(t *testing.T) {
	catalog := newTestCatalog(t)
	list, err := catalog.Mecanicos(service.FiltroTodos, "Carla")
	require.NoError(t, err)
	require.Len(t, list, 1)
	m := list[0]
	m.Telefone, m.Email = "1133334444", "carla@oficina.local"

	f := NewMecanicoForm(catalog, &m, testOptions)
	assert.Equal(t, FormModeEdit, f.Mode())
	assert.Contains(t, f.View(), "Editar Mecânico")

	_, cmd := f.Update(save)
	msg := savedMsg(t, cmd)
	assert.Equal(t, m.ID, msg.ID)
	assert.Equal(t, "Mecânico atualizado", msg.Notice)

	got, err := catalog.Mecanico(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "1133334444", got.Telefone)
}

func TestVeiculoFormDuplicatePlate(t *testing.T) {
	catalog := newTestCatalog(t)
	id := clienteID(t, catalog, "Paula")

	f := NewVeiculoForm(catalog, id, nil, testOptions)
	assert.Contains(t, f.View(), "Cadastro de Veículo")
	f = fill(f, "abc1d23", "Fiat", "Uno", "2010", "Branco", "120000")

	f, cmd := f.Update(save)
	assert.Nil(t, cmd)
	assert.Equal(t, "Já existe um registro com esses dados", f.Err())

	// a new plate goes through
	f.fields[0].input.SetValue("XYZ9A87")
	_, cmd = f.Update(save)
	msg := savedMsg(t, cmd)
	assert.Equal(t, "Veículo cadastrado", msg.Notice)

	list, err := catalog.Veiculos(id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "XYZ9A87", list[0].Placa)
	assert.Equal(t, 120000, list[0].Quilometragem)
}

func TestParteFormRequiresCategory(t *testing.T) {
	catalog := newTestCatalog(t)
	f := NewParteForm(catalog, testOptions)
	assert.Contains(t, f.View(), "Cadastrar Parte do Checklist")

	f = fill(f, "Retrovisores")
	f, _ = f.Update(save)
	assert.Equal(t, "Selecione uma categoria", f.Err())
	assert.Equal(t, fieldCategoria, f.fields[f.focused].name)

	f, _ = f.Update(FieldChangedMsg{SelectID: "form-categoria", Value: string(storage.ForaDoVeiculo)})
	f, _ = f.Update(tab)
	f, _ = f.Update(runes("retrovisores.png"))

	// enter on the last field saves
	_, cmd := f.Update(enter)
	msg := savedMsg(t, cmd)
	assert.Equal(t, "Parte cadastrada", msg.Notice)

	partes, err := catalog.Partes(string(storage.ForaDoVeiculo))
	require.NoError(t, err)
	require.Len(t, partes, 1)
	assert.Equal(t, "Retrovisores", partes[0].Nome)
}

func TestFormCancel(t *testing.T) {
	f := NewMecanicoForm(newTestCatalog(t), nil, testOptions)

	f, cmd := f.Update(esc)
	require.NotNil(t, cmd)
	assert.Equal(t, FormCanceledMsg{}, cmd())
	assert.True(t, f.IsCanceled())
}

func TestFormMouseFocusesField(t *testing.T) {
	f := NewMecanicoForm(newTestCatalog(t), nil, testOptions)
	f.View()
	rects := f.layout()
	require.Len(t, rects, 4)

	target := rects[2]
	f, _ = f.Update(tea.MouseMsg{X: target.X + 1, Y: target.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 2, f.focused)

	situacao := rects[3]
	f, _ = f.Update(tea.MouseMsg{X: situacao.X + 1, Y: situacao.Y + situacao.Height - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 3, f.focused)
	assert.Contains(t, f.Announcement(), "expanded")
}
