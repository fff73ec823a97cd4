package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/normanking/oficina/internal/storage"
)

// FiltroTodos is the status filter value that matches every record.
const FiltroTodos = "todos"

// Option is a label/value pair offered by a filter dropdown.
type Option struct {
	Label string
	Value string
}

// StatusOptions returns the status filter choices.
func StatusOptions() []Option {
	return []Option{
		{Label: "Todos", Value: FiltroTodos},
		{Label: "Ativo", Value: "ativo"},
		{Label: "Inativo", Value: "inativo"},
	}
}

// CategoriaOptions returns the checklist category choices, optionally led
// by an entry that matches every category.
func CategoriaOptions(includeAll bool) []Option {
	var opts []Option
	if includeAll {
		opts = append(opts, Option{Label: "Todas", Value: FiltroTodos})
	}
	for _, info := range storage.AllCategorias() {
		opts = append(opts, Option{Label: info.Label, Value: string(info.Categoria)})
	}
	return opts
}

// SituacaoFromFiltro translates a status filter value into a store filter.
// "todos" and the empty string mean no filter.
func SituacaoFromFiltro(filtro string) storage.Situacao {
	if filtro == "" || strings.EqualFold(filtro, FiltroTodos) {
		return ""
	}
	return storage.Situacao(strings.ToUpper(filtro))
}

// CategoriaFromFiltro translates a category filter value into a store filter.
func CategoriaFromFiltro(filtro string) storage.Categoria {
	if filtro == "" || strings.EqualFold(filtro, FiltroTodos) {
		return ""
	}
	return storage.Categoria(filtro)
}

func matchesFiltro(situacao storage.Situacao, filtro string) bool {
	return SituacaoFromFiltro(filtro) == "" || strings.EqualFold(string(situacao), filtro)
}

func matchesBusca(nome, busca string) bool {
	return strings.Contains(strings.ToLower(nome), strings.ToLower(busca))
}

// FilterMecanicos keeps the mechanics whose name contains busca
// (case-insensitive) and whose state matches filtro.
func FilterMecanicos(list []storage.Mecanico, filtro, busca string) []storage.Mecanico {
	var out []storage.Mecanico
	for _, m := range list {
		if matchesBusca(m.Nome, busca) && matchesFiltro(m.Situacao, filtro) {
			out = append(out, m)
		}
	}
	return out
}

// FilterClientes keeps the clients whose name contains busca and whose
// state matches filtro.
func FilterClientes(list []storage.Cliente, filtro, busca string) []storage.Cliente {
	var out []storage.Cliente
	for _, c := range list {
		if matchesBusca(c.Nome, busca) && matchesFiltro(c.Situacao, filtro) {
			out = append(out, c)
		}
	}
	return out
}

// FormatMecanicoID renders a mechanic id as MEC-001.
func FormatMecanicoID(id int64) string {
	return fmt.Sprintf("MEC-%03d", id)
}

// FormatClienteID renders a client id as CLI-001.
func FormatClienteID(id int64) string {
	return fmt.Sprintf("CLI-%03d", id)
}

// FormatSituacao capitalizes a state for display: ATIVO becomes Ativo.
func FormatSituacao(s storage.Situacao) string {
	if s == "" {
		return ""
	}
	lower := []rune(strings.ToLower(string(s)))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}

// FormatTelefone masks a Brazilian phone number. Numbers that are not 10 or
// 11 digits long are returned unchanged.
func FormatTelefone(raw string) string {
	var digits []rune
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}

	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", string(digits[:2]), string(digits[2:7]), string(digits[7:]))
	case 10:
		return fmt.Sprintf("(%s) %s-%s", string(digits[:2]), string(digits[2:6]), string(digits[6:]))
	default:
		return raw
	}
}
