package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/oficina/internal/storage"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	return fe.Field
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "123.456.789-09", FormatCPF("12345678909"))
	assert.Equal(t, "123.456.789-09", FormatCPF("123.456.789-09"))
	assert.Equal(t, "123", FormatCPF("123"))
	assert.Equal(t, "12345678909", OnlyDigits("123.456.789-09"))
}

func TestValidateCliente(t *testing.T) {
	valid := func() storage.Cliente {
		return storage.Cliente{
			Nome:     " Pedro Alves ",
			CPF:      "123.456.789-09",
			Telefone: "(11) 98765-4321",
			Email:    "pedro@exemplo.com",
			Endereco: "Rua A, 10",
		}
	}

	c := valid()
	require.NoError(t, ValidateCliente(&c))
	assert.Equal(t, "Pedro Alves", c.Nome)
	assert.Equal(t, "12345678909", c.CPF)
	assert.Equal(t, "11987654321", c.Telefone)

	tests := []struct {
		field  string
		mutate func(*storage.Cliente)
	}{
		{"nome", func(c *storage.Cliente) { c.Nome = "  " }},
		{"cpf", func(c *storage.Cliente) { c.CPF = "123" }},
		{"telefone", func(c *storage.Cliente) { c.Telefone = "9999" }},
		{"email", func(c *storage.Cliente) { c.Email = "pedro" }},
		{"endereco", func(c *storage.Cliente) { c.Endereco = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Equal(t, tt.field, fieldOf(t, ValidateCliente(&c)))
		})
	}
}

func TestVeiculoInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	valid := VeiculoInput{Placa: "abc1d23", Marca: "Chevrolet", Modelo: "Onix", Cor: "Prata", Ano: "2020", Quilometragem: "45000"}

	v, err := valid.Veiculo(now)
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", v.Placa)
	assert.Equal(t, 2020, v.Ano)
	assert.Equal(t, 45000, v.Quilometragem)

	old := valid
	old.Placa = "ABC1234"
	_, err = old.Veiculo(now)
	assert.NoError(t, err)

	tests := []struct {
		name   string
		field  string
		mutate func(*VeiculoInput)
	}{
		{"bad plate", "placa", func(in *VeiculoInput) { in.Placa = "AB12345" }},
		{"no brand", "marca", func(in *VeiculoInput) { in.Marca = "" }},
		{"no model", "modelo", func(in *VeiculoInput) { in.Modelo = " " }},
		{"no color", "cor", func(in *VeiculoInput) { in.Cor = "" }},
		{"short year", "ano", func(in *VeiculoInput) { in.Ano = "99" }},
		{"future year", "ano", func(in *VeiculoInput) { in.Ano = "2026" }},
		{"text mileage", "quilometragem", func(in *VeiculoInput) { in.Quilometragem = "muito" }},
		{"negative mileage", "quilometragem", func(in *VeiculoInput) { in.Quilometragem = "-1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := in.Veiculo(now)
			assert.Equal(t, tt.field, fieldOf(t, err))
		})
	}

	future := valid
	future.Ano = "2026"
	_, err = future.Veiculo(now)
	assert.EqualError(t, err, "ano: Ano não pode ser maior que 2025")
}

func TestValidateParte(t *testing.T) {
	p := storage.ParteVeiculo{Nome: "Faróis", Imagem: "farois.png"}
	assert.Equal(t, "categoria", fieldOf(t, ValidateParte(&p)))

	p.Categoria = storage.ForaDoVeiculo
	require.NoError(t, ValidateParte(&p))

	p.Imagem = " "
	assert.Equal(t, "imagem", fieldOf(t, ValidateParte(&p)))
}

func TestSaveAndDeleteRecords(t *testing.T) {
	catalog, store := newTestCatalog(t)

	m := &storage.Mecanico{Nome: "Davi Rocha", Telefone: "1133334444", Email: "davi@oficina.local"}
	require.NoError(t, catalog.SaveMecanico(m))
	require.NotZero(t, m.ID)

	m.Nome = "Davi R. Rocha"
	require.NoError(t, catalog.SaveMecanico(m))
	got, err := catalog.Mecanico(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Davi R. Rocha", got.Nome)

	require.NoError(t, catalog.DeleteMecanico(m.ID))
	_, err = catalog.Mecanico(m.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	c := &storage.Cliente{Nome: "Rui", CPF: "12345678909", Telefone: "11987654321", Email: "rui@x.com", Endereco: "Rua B"}
	require.NoError(t, catalog.SaveCliente(c))

	v := &storage.Veiculo{ClienteID: c.ID, Placa: "RUI1A23", Modelo: "Uno"}
	require.NoError(t, catalog.SaveVeiculo(v))
	v.Modelo = "Uno Way"
	require.NoError(t, catalog.SaveVeiculo(v))

	list, err := catalog.Veiculos(c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Uno Way", list[0].Modelo)

	require.NoError(t, catalog.DeleteVeiculo(v.ID))
	require.NoError(t, catalog.DeleteCliente(c.ID))
	assert.ErrorIs(t, catalog.DeleteCliente(c.ID), storage.ErrNotFound)

	p := &storage.ParteVeiculo{Nome: "Retrovisores", Imagem: "retrovisores.png", Categoria: storage.ForaDoVeiculo}
	require.NoError(t, catalog.CreateParte(p))
	require.NoError(t, catalog.DeleteParte(p.ID))
	partes, err := store.ListPartes(storage.ForaDoVeiculo)
	require.NoError(t, err)
	assert.Empty(t, partes)
}

func TestSaveRejectsInvalidRecords(t *testing.T) {
	catalog, store := newTestCatalog(t)

	err := catalog.SaveMecanico(&storage.Mecanico{Nome: "Sem contato"})
	assert.Equal(t, "telefone", fieldOf(t, err))

	err = catalog.CreateParte(&storage.ParteVeiculo{Nome: "Sem categoria", Imagem: "x.png"})
	assert.Equal(t, "categoria", fieldOf(t, err))

	list, err := store.ListMecanicos("")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
