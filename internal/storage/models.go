package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// Situacao is the active/inactive state of a client or mechanic.
type Situacao string

const (
	Ativo   Situacao = "ATIVO"
	Inativo Situacao = "INATIVO"
)

// Valid reports whether s is a known state.
func (s Situacao) Valid() bool {
	return s == Ativo || s == Inativo
}

// Toggle flips between active and inactive.
func (s Situacao) Toggle() Situacao {
	if s == Ativo {
		return Inativo
	}
	return Ativo
}

// Categoria is where on the vehicle a checklist part is inspected.
type Categoria string

const (
	DentroDoVeiculo   Categoria = "DENTRO_DO_VEICULO"
	ForaDoVeiculo     Categoria = "FORA_DO_VEICULO"
	VeiculoNoChao     Categoria = "VEICULO_NO_CHAO"
	VeiculoNoElevador Categoria = "VEICULO_NO_ELEVADOR"
	CapoLevantado     Categoria = "CAPO_LEVANTADO"
)

// CategoriaInfo provides display info for a category
type CategoriaInfo struct {
	Categoria Categoria
	Label     string
}

// AllCategorias returns every category in checklist order.
func AllCategorias() []CategoriaInfo {
	return []CategoriaInfo{
		{DentroDoVeiculo, "Dentro do veículo"},
		{ForaDoVeiculo, "Fora do veículo"},
		{VeiculoNoChao, "Veículo no chão"},
		{VeiculoNoElevador, "Veículo no elevador"},
		{CapoLevantado, "Capô levantado"},
	}
}

// Label returns the display label, or the raw value for unknown categories.
func (c Categoria) Label() string {
	for _, info := range AllCategorias() {
		if info.Categoria == c {
			return info.Label
		}
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Categoria) Valid() bool {
	for _, info := range AllCategorias() {
		if info.Categoria == c {
			return true
		}
	}
	return false
}

// Cliente is a workshop customer.
type Cliente struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	Telefone  string    `json:"telefone"`
	Email     string    `json:"email"`
	Endereco  string    `json:"endereco"`
	Situacao  Situacao  `json:"situacao"`
	Veiculos  []Veiculo `json:"veiculos,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Veiculo is a customer's vehicle. Placa is unique.
type Veiculo struct {
	ID            int64  `json:"id"`
	ClienteID     int64  `json:"cliente_id"`
	Placa         string `json:"placa"`
	Modelo        string `json:"modelo"`
	Marca         string `json:"marca"`
	Cor           string `json:"cor"`
	Ano           int    `json:"ano"`
	Quilometragem int    `json:"quilometragem"`
}

// Mecanico is a workshop mechanic.
type Mecanico struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Telefone  string    `json:"telefone"`
	Email     string    `json:"email"`
	Situacao  Situacao  `json:"situacao"`
	CreatedAt time.Time `json:"created_at"`
}

// ParteVeiculo is an item of the inspection checklist.
type ParteVeiculo struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Imagem    string    `json:"imagem"`
	Categoria Categoria `json:"categoria_parte_veiculo"`
}
