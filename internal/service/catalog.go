package service

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/normanking/oficina/internal/logging"
	"github.com/normanking/oficina/internal/storage"
)

// Catalog is the read/toggle surface the screens use on top of the store.
type Catalog struct {
	store *storage.Store
	log   *logging.Logger
}

// NewCatalog creates a catalog over store.
func NewCatalog(store *storage.Store) *Catalog {
	return &Catalog{
		store: store,
		log:   logging.Global().WithComponent("catalog"),
	}
}

// Mecanicos lists mechanics matching the status filter and name search.
func (c *Catalog) Mecanicos(filtro, busca string) ([]storage.Mecanico, error) {
	list, err := c.store.ListMecanicos(SituacaoFromFiltro(filtro))
	if err != nil {
		return nil, fmt.Errorf("list mecanicos: %w", err)
	}
	return FilterMecanicos(list, filtro, busca), nil
}

// Clientes lists clients matching the status filter and name search.
func (c *Catalog) Clientes(filtro, busca string) ([]storage.Cliente, error) {
	list, err := c.store.ListClientes(SituacaoFromFiltro(filtro))
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	return FilterClientes(list, filtro, busca), nil
}

// Partes lists checklist parts for a category filter value.
func (c *Catalog) Partes(categoria string) ([]storage.ParteVeiculo, error) {
	list, err := c.store.ListPartes(CategoriaFromFiltro(categoria))
	if err != nil {
		return nil, fmt.Errorf("list partes: %w", err)
	}
	return list, nil
}

// ToggleMecanico flips a mechanic between active and inactive and returns
// the new state.
func (c *Catalog) ToggleMecanico(id int64) (storage.Situacao, error) {
	m, err := c.store.GetMecanico(id)
	if err != nil {
		return "", err
	}
	next := m.Situacao.Toggle()
	if err := c.store.SetMecanicoSituacao(id, next); err != nil {
		return "", err
	}
	c.log.Info("mecanico %s is now %s", FormatMecanicoID(id), next)
	return next, nil
}

// ToggleCliente flips a client between active and inactive.
func (c *Catalog) ToggleCliente(id int64) (storage.Situacao, error) {
	cl, err := c.store.GetCliente(id)
	if err != nil {
		return "", err
	}
	next := cl.Situacao.Toggle()
	if err := c.store.SetClienteSituacao(id, next); err != nil {
		return "", err
	}
	c.log.Info("cliente %s is now %s", FormatClienteID(id), next)
	return next, nil
}

// Kind tells which record a search hit refers to.
type Kind string

const (
	KindCliente  Kind = "cliente"
	KindMecanico Kind = "mecanico"
)

// SearchResult represents a fuzzy search match
type SearchResult struct {
	Kind         Kind
	ID           int64
	Nome         string
	Situacao     storage.Situacao
	Score        int
	MatchedChars []int
}

// candidateSource wraps search candidates for fuzzy matching
type candidateSource []SearchResult

func (s candidateSource) String(i int) string { return strings.ToLower(s[i].Nome) }
func (s candidateSource) Len() int            { return len(s) }

// Find fuzzy-matches query against client and mechanic names, best first.
func (c *Catalog) Find(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	clientes, err := c.store.ListClientes("")
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	mecanicos, err := c.store.ListMecanicos("")
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	source := make(candidateSource, 0, len(clientes)+len(mecanicos))
	for _, cl := range clientes {
		source = append(source, SearchResult{Kind: KindCliente, ID: cl.ID, Nome: cl.Nome, Situacao: cl.Situacao})
	}
	for _, m := range mecanicos {
		source = append(source, SearchResult{Kind: KindMecanico, ID: m.ID, Nome: m.Nome, Situacao: m.Situacao})
	}
	if len(source) == 0 {
		return nil, nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), source)
	results := make([]SearchResult, len(matches))
	for i, match := range matches {
		r := source[match.Index]
		r.Score = match.Score
		r.MatchedChars = match.MatchedIndexes
		results[i] = r
	}
	return results, nil
}

// Label renders a search hit as "MEC-001 Ana".
func (r SearchResult) Label() string {
	if r.Kind == KindMecanico {
		return FormatMecanicoID(r.ID) + " " + r.Nome
	}
	return FormatClienteID(r.ID) + " " + r.Nome
}
