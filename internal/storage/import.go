package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// Fixture is the JSON layout accepted by ImportFile.
type Fixture struct {
	Clientes  []Cliente      `json:"clientes"`
	Mecanicos []Mecanico     `json:"mecanicos"`
	Partes    []ParteVeiculo `json:"partes"`
}

// ImportResult counts the records written by an import.
type ImportResult struct {
	Clientes  int
	Veiculos  int
	Mecanicos int
	Partes    int
}

// ImportFile loads a fixture file into the store in one transaction.
// Record IDs in the file are ignored; the store assigns new ones.
func (s *Store) ImportFile(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read fixture: %w", err)
	}

	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return ImportResult{}, fmt.Errorf("parse fixture: %w", err)
	}
	return s.Import(fx)
}

// Import writes every record of fx, or none of them.
func (s *Store) Import(fx Fixture) (ImportResult, error) {
	var res ImportResult

	err := s.withTx(func(tx *sql.Tx) error {
		for i := range fx.Clientes {
			c := fx.Clientes[i]
			c.ID = 0
			for j := range c.Veiculos {
				c.Veiculos[j].ID = 0
			}
			if err := createCliente(tx, &c); err != nil {
				return fmt.Errorf("cliente %q: %w", c.Nome, err)
			}
			res.Clientes++
			res.Veiculos += len(c.Veiculos)
		}

		for i := range fx.Mecanicos {
			m := fx.Mecanicos[i]
			m.ID = 0
			if err := createMecanico(tx, &m); err != nil {
				return fmt.Errorf("mecanico %q: %w", m.Nome, err)
			}
			res.Mecanicos++
		}

		for i := range fx.Partes {
			p := fx.Partes[i]
			p.ID = 0
			if err := createParte(tx, &p); err != nil {
				return fmt.Errorf("parte %q: %w", p.Nome, err)
			}
			res.Partes++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	return res, nil
}
