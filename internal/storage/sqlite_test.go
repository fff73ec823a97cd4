package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreWithPath(filepath.Join(t.TempDir(), "oficina.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSituacao(t *testing.T) {
	assert.Equal(t, Inativo, Ativo.Toggle())
	assert.Equal(t, Ativo, Inativo.Toggle())
	assert.True(t, Ativo.Valid())
	assert.False(t, Situacao("ativo").Valid())
}

func TestCategoria(t *testing.T) {
	assert.Len(t, AllCategorias(), 5)
	assert.Equal(t, "Capô levantado", CapoLevantado.Label())
	assert.Equal(t, "OUTRA", Categoria("OUTRA").Label())
	assert.False(t, Categoria("OUTRA").Valid())
}

func TestMecanicoCRUD(t *testing.T) {
	store := newTestStore(t)

	m := &Mecanico{Nome: "João Lima", Telefone: "11987654321", Email: "joao@oficina.local"}
	require.NoError(t, store.CreateMecanico(m))
	assert.NotZero(t, m.ID)
	assert.Equal(t, Ativo, m.Situacao, "situacao defaults to ATIVO")

	got, err := store.GetMecanico(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Lima", got.Nome)

	got.Email = "joao.lima@oficina.local"
	require.NoError(t, store.UpdateMecanico(got))

	require.NoError(t, store.SetMecanicoSituacao(m.ID, Inativo))
	got, err = store.GetMecanico(m.ID)
	require.NoError(t, err)
	assert.Equal(t, Inativo, got.Situacao)
	assert.Equal(t, "joao.lima@oficina.local", got.Email)

	require.NoError(t, store.DeleteMecanico(m.ID))
	_, err = store.GetMecanico(m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteMecanico(m.ID), ErrNotFound)
}

func TestListMecanicosFilter(t *testing.T) {
	store := newTestStore(t)
	for _, m := range []Mecanico{
		{Nome: "Ana", Situacao: Ativo},
		{Nome: "Bruno", Situacao: Inativo},
		{Nome: "Carla", Situacao: Ativo},
	} {
		require.NoError(t, store.CreateMecanico(&m))
	}

	all, err := store.ListMecanicos("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ativos, err := store.ListMecanicos(Ativo)
	require.NoError(t, err)
	require.Len(t, ativos, 2)
	assert.Equal(t, "Ana", ativos[0].Nome)
	assert.Equal(t, "Carla", ativos[1].Nome)

	inativos, err := store.ListMecanicos(Inativo)
	require.NoError(t, err)
	require.Len(t, inativos, 1)
	assert.Equal(t, "Bruno", inativos[0].Nome)
}

func TestInvalidSituacao(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.CreateMecanico(&Mecanico{Nome: "X", Situacao: "todos"}))
	assert.Error(t, store.SetMecanicoSituacao(1, "ativo"))
}

func TestClienteWithVeiculos(t *testing.T) {
	store := newTestStore(t)

	c := &Cliente{
		Nome: "Pedro Alves",
		CPF:  "123.456.789-00",
		Veiculos: []Veiculo{
			{Placa: "ABC1D23", Modelo: "Onix", Marca: "Chevrolet", Ano: 2020, Quilometragem: 45000},
			{Placa: "XYZ9K88", Modelo: "HB20", Marca: "Hyundai", Ano: 2018},
		},
	}
	require.NoError(t, store.CreateCliente(c))

	got, err := store.GetCliente(c.ID)
	require.NoError(t, err)
	require.Len(t, got.Veiculos, 2)
	assert.Equal(t, "ABC1D23", got.Veiculos[0].Placa)
	assert.Equal(t, c.ID, got.Veiculos[1].ClienteID)

	list, err := store.ListClientes("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Veiculos, 2)

	require.NoError(t, store.DeleteCliente(c.ID))
	veiculos, err := store.ListVeiculos(c.ID)
	require.NoError(t, err)
	assert.Empty(t, veiculos, "vehicles are removed with their client")
}

func TestDuplicatePlaca(t *testing.T) {
	store := newTestStore(t)

	c := &Cliente{Nome: "Ana", Veiculos: []Veiculo{{Placa: "AAA0A00"}}}
	require.NoError(t, store.CreateCliente(c))

	err := store.AddVeiculo(&Veiculo{ClienteID: c.ID, Placa: "AAA0A00"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// a failing vehicle rolls back the whole client
	err = store.CreateCliente(&Cliente{Nome: "Bia", Veiculos: []Veiculo{{Placa: "AAA0A00"}}})
	assert.ErrorIs(t, err, ErrDuplicate)
	list, err := store.ListClientes("")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateVeiculo(t *testing.T) {
	store := newTestStore(t)

	c := &Cliente{Nome: "Ana", Veiculos: []Veiculo{{Placa: "AAA0A00"}, {Placa: "BBB1B11"}}}
	require.NoError(t, store.CreateCliente(c))

	v := c.Veiculos[0]
	v.Modelo = "Onix"
	v.Quilometragem = 1200
	require.NoError(t, store.UpdateVeiculo(&v))

	list, err := store.ListVeiculos(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onix", list[0].Modelo)
	assert.Equal(t, 1200, list[0].Quilometragem)

	v.Placa = "BBB1B11"
	assert.ErrorIs(t, store.UpdateVeiculo(&v), ErrDuplicate)

	assert.ErrorIs(t, store.UpdateVeiculo(&Veiculo{ID: 99, Placa: "CCC2C22"}), ErrNotFound)

	require.NoError(t, store.DeleteVeiculo(v.ID))
	assert.ErrorIs(t, store.DeleteVeiculo(v.ID), ErrNotFound)
}

func TestAddVeiculoUnknownCliente(t *testing.T) {
	store := newTestStore(t)
	err := store.AddVeiculo(&Veiculo{ClienteID: 99, Placa: "ZZZ0Z00"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListClientesOrderAndFilter(t *testing.T) {
	store := newTestStore(t)
	for _, c := range []Cliente{
		{Nome: "carlos", Situacao: Inativo},
		{Nome: "Ana"},
		{Nome: "Bruna"},
	} {
		require.NoError(t, store.CreateCliente(&c))
	}

	list, err := store.ListClientes("")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Ana", "Bruna", "carlos"}, []string{list[0].Nome, list[1].Nome, list[2].Nome})

	inativos, err := store.ListClientes(Inativo)
	require.NoError(t, err)
	require.Len(t, inativos, 1)

	require.NoError(t, store.SetClienteSituacao(inativos[0].ID, Ativo))
	inativos, err = store.ListClientes(Inativo)
	require.NoError(t, err)
	assert.Empty(t, inativos)
}

func TestPartes(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateParte(&ParteVeiculo{Nome: "Pneus", Categoria: VeiculoNoChao}))
	require.NoError(t, store.CreateParte(&ParteVeiculo{Nome: "Óleo", Categoria: CapoLevantado}))
	require.NoError(t, store.CreateParte(&ParteVeiculo{Nome: "Bateria", Categoria: CapoLevantado}))
	assert.Error(t, store.CreateParte(&ParteVeiculo{Nome: "?", Categoria: "OUTRA"}))

	all, err := store.ListPartes("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	capo, err := store.ListPartes(CapoLevantado)
	require.NoError(t, err)
	assert.Len(t, capo, 2)

	require.NoError(t, store.DeleteParte(capo[0].ID))
	assert.ErrorIs(t, store.DeleteParte(capo[0].ID), ErrNotFound)
}

func TestImportFile(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), "fixture.json")
	fixture := `{
		"clientes": [{"id": 40, "nome": "Pedro", "situacao": "ATIVO", "veiculos": [{"placa": "ABC1D23", "ano": 2020}]}],
		"mecanicos": [{"nome": "Ana"}, {"nome": "Bruno", "situacao": "INATIVO"}],
		"partes": [{"nome": "Pneus", "categoria_parte_veiculo": "VEICULO_NO_CHAO"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))

	res, err := store.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Clientes: 1, Veiculos: 1, Mecanicos: 2, Partes: 1}, res)

	clientes, err := store.ListClientes("")
	require.NoError(t, err)
	require.Len(t, clientes, 1)
	assert.NotEqual(t, int64(40), clientes[0].ID, "ids are assigned by the store")
}

func TestImportIsAtomic(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Import(Fixture{
		Mecanicos: []Mecanico{{Nome: "Ana"}},
		Partes:    []ParteVeiculo{{Nome: "?", Categoria: "OUTRA"}},
	})
	require.Error(t, err)

	mecanicos, err := store.ListMecanicos("")
	require.NoError(t, err)
	assert.Empty(t, mecanicos)
}

func TestImportFileErrors(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ImportFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = store.ImportFile(bad)
	assert.Error(t, err)
}
