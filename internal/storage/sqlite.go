package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Store handles SQLite database operations for workshop records
type Store struct {
	db *sql.DB
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NewStoreWithPath creates a new SQLite store at the specified path
func NewStoreWithPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		cpf TEXT NOT NULL DEFAULT '',
		telefone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		endereco TEXT NOT NULL DEFAULT '',
		situacao TEXT NOT NULL DEFAULT 'ATIVO',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS veiculos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cliente_id INTEGER NOT NULL,
		placa TEXT UNIQUE NOT NULL,
		modelo TEXT NOT NULL DEFAULT '',
		marca TEXT NOT NULL DEFAULT '',
		cor TEXT NOT NULL DEFAULT '',
		ano INTEGER NOT NULL DEFAULT 0,
		quilometragem INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (cliente_id) REFERENCES clientes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS mecanicos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		telefone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		situacao TEXT NOT NULL DEFAULT 'ATIVO',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS partes_veiculo (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		imagem TEXT NOT NULL DEFAULT '',
		categoria TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clientes_situacao ON clientes(situacao);
	CREATE INDEX IF NOT EXISTS idx_mecanicos_situacao ON mecanicos(situacao);
	CREATE INDEX IF NOT EXISTS idx_veiculos_cliente ON veiculos(cliente_id);
	CREATE INDEX IF NOT EXISTS idx_partes_categoria ON partes_veiculo(categoria);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// translate maps driver errors onto package sentinels.
func translate(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func checkAffected(result sql.Result, what string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

func normalizeSituacao(s Situacao) (Situacao, error) {
	if s == "" {
		return Ativo, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("invalid situacao %q", s)
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// CLIENTES
// ═══════════════════════════════════════════════════════════════════════════════

// CreateCliente stores a client together with its vehicles
func (s *Store) CreateCliente(c *Cliente) error {
	return s.withTx(func(tx *sql.Tx) error {
		return createCliente(tx, c)
	})
}

func createCliente(db dbtx, c *Cliente) error {
	situacao, err := normalizeSituacao(c.Situacao)
	if err != nil {
		return err
	}
	c.Situacao = situacao
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	result, err := db.Exec(`
		INSERT INTO clientes (nome, cpf, telefone, email, endereco, situacao, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Nome, c.CPF, c.Telefone, c.Email, c.Endereco, c.Situacao, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", translate(err))
	}
	if c.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("cliente id: %w", err)
	}

	for i := range c.Veiculos {
		c.Veiculos[i].ClienteID = c.ID
		if err := addVeiculo(db, &c.Veiculos[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCliente updates client fields; vehicles are managed separately
func (s *Store) UpdateCliente(c *Cliente) error {
	situacao, err := normalizeSituacao(c.Situacao)
	if err != nil {
		return err
	}
	c.Situacao = situacao

	result, err := s.db.Exec(`
		UPDATE clientes SET nome=?, cpf=?, telefone=?, email=?, endereco=?, situacao=?
		WHERE id=?
	`, c.Nome, c.CPF, c.Telefone, c.Email, c.Endereco, c.Situacao, c.ID)
	if err != nil {
		return fmt.Errorf("update cliente: %w", translate(err))
	}
	return checkAffected(result, "cliente", c.ID)
}

// SetClienteSituacao changes only the client's state
func (s *Store) SetClienteSituacao(id int64, situacao Situacao) error {
	if !situacao.Valid() {
		return fmt.Errorf("invalid situacao %q", situacao)
	}
	result, err := s.db.Exec("UPDATE clientes SET situacao=? WHERE id=?", situacao, id)
	if err != nil {
		return fmt.Errorf("update cliente situacao: %w", err)
	}
	return checkAffected(result, "cliente", id)
}

// DeleteCliente removes a client and, by cascade, its vehicles
func (s *Store) DeleteCliente(id int64) error {
	result, err := s.db.Exec("DELETE FROM clientes WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	return checkAffected(result, "cliente", id)
}

// GetCliente retrieves a client with its vehicles
func (s *Store) GetCliente(id int64) (*Cliente, error) {
	var c Cliente
	err := s.db.QueryRow(`
		SELECT id, nome, cpf, telefone, email, endereco, situacao, created_at
		FROM clientes WHERE id=?
	`, id).Scan(&c.ID, &c.Nome, &c.CPF, &c.Telefone, &c.Email, &c.Endereco, &c.Situacao, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cliente %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cliente: %w", err)
	}

	if c.Veiculos, err = s.ListVeiculos(id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClientes retrieves clients ordered by name, optionally filtered by
// state. An empty situacao lists every client.
func (s *Store) ListClientes(situacao Situacao) ([]Cliente, error) {
	query := `SELECT id, nome, cpf, telefone, email, endereco, situacao, created_at FROM clientes`
	var args []any
	if situacao != "" {
		query += ` WHERE situacao=?`
		args = append(args, situacao)
	}
	query += ` ORDER BY nome COLLATE NOCASE, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query clientes: %w", err)
	}
	defer rows.Close()

	var clientes []Cliente
	index := make(map[int64]int)
	for rows.Next() {
		var c Cliente
		if err := rows.Scan(&c.ID, &c.Nome, &c.CPF, &c.Telefone, &c.Email, &c.Endereco, &c.Situacao, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		index[c.ID] = len(clientes)
		clientes = append(clientes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	veiculos, err := s.queryVeiculos(`SELECT id, cliente_id, placa, modelo, marca, cor, ano, quilometragem FROM veiculos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for _, v := range veiculos {
		if i, ok := index[v.ClienteID]; ok {
			clientes[i].Veiculos = append(clientes[i].Veiculos, v)
		}
	}

	return clientes, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// VEICULOS
// ═══════════════════════════════════════════════════════════════════════════════

// AddVeiculo attaches a vehicle to an existing client
func (s *Store) AddVeiculo(v *Veiculo) error {
	return addVeiculo(s.db, v)
}

func addVeiculo(db dbtx, v *Veiculo) error {
	if v.Placa == "" {
		return fmt.Errorf("veiculo placa cannot be empty")
	}

	result, err := db.Exec(`
		INSERT INTO veiculos (cliente_id, placa, modelo, marca, cor, ano, quilometragem)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.ClienteID, v.Placa, v.Modelo, v.Marca, v.Cor, v.Ano, v.Quilometragem)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("cliente %d: %w", v.ClienteID, ErrNotFound)
		}
		return fmt.Errorf("insert veiculo %s: %w", v.Placa, translate(err))
	}
	if v.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("veiculo id: %w", err)
	}
	return nil
}

// ListVeiculos retrieves the vehicles of a client
func (s *Store) ListVeiculos(clienteID int64) ([]Veiculo, error) {
	return s.queryVeiculos(`
		SELECT id, cliente_id, placa, modelo, marca, cor, ano, quilometragem
		FROM veiculos WHERE cliente_id=? ORDER BY id
	`, clienteID)
}

// UpdateVeiculo updates vehicle fields; the owning client does not change
func (s *Store) UpdateVeiculo(v *Veiculo) error {
	if v.Placa == "" {
		return fmt.Errorf("veiculo placa cannot be empty")
	}

	result, err := s.db.Exec(`
		UPDATE veiculos SET placa=?, modelo=?, marca=?, cor=?, ano=?, quilometragem=?
		WHERE id=?
	`, v.Placa, v.Modelo, v.Marca, v.Cor, v.Ano, v.Quilometragem, v.ID)
	if err != nil {
		return fmt.Errorf("update veiculo %s: %w", v.Placa, translate(err))
	}
	return checkAffected(result, "veiculo", v.ID)
}

// DeleteVeiculo removes a vehicle
func (s *Store) DeleteVeiculo(id int64) error {
	result, err := s.db.Exec("DELETE FROM veiculos WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete veiculo: %w", err)
	}
	return checkAffected(result, "veiculo", id)
}

func (s *Store) queryVeiculos(query string, args ...any) ([]Veiculo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query veiculos: %w", err)
	}
	defer rows.Close()

	var veiculos []Veiculo
	for rows.Next() {
		var v Veiculo
		if err := rows.Scan(&v.ID, &v.ClienteID, &v.Placa, &v.Modelo, &v.Marca, &v.Cor, &v.Ano, &v.Quilometragem); err != nil {
			return nil, fmt.Errorf("scan veiculo: %w", err)
		}
		veiculos = append(veiculos, v)
	}
	return veiculos, rows.Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// MECANICOS
// ═══════════════════════════════════════════════════════════════════════════════

// CreateMecanico stores a mechanic
func (s *Store) CreateMecanico(m *Mecanico) error {
	return createMecanico(s.db, m)
}

func createMecanico(db dbtx, m *Mecanico) error {
	situacao, err := normalizeSituacao(m.Situacao)
	if err != nil {
		return err
	}
	m.Situacao = situacao
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	result, err := db.Exec(`
		INSERT INTO mecanicos (nome, telefone, email, situacao, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.Nome, m.Telefone, m.Email, m.Situacao, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert mecanico: %w", translate(err))
	}
	if m.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("mecanico id: %w", err)
	}
	return nil
}

// UpdateMecanico updates mechanic fields
func (s *Store) UpdateMecanico(m *Mecanico) error {
	situacao, err := normalizeSituacao(m.Situacao)
	if err != nil {
		return err
	}
	m.Situacao = situacao

	result, err := s.db.Exec(`
		UPDATE mecanicos SET nome=?, telefone=?, email=?, situacao=? WHERE id=?
	`, m.Nome, m.Telefone, m.Email, m.Situacao, m.ID)
	if err != nil {
		return fmt.Errorf("update mecanico: %w", translate(err))
	}
	return checkAffected(result, "mecanico", m.ID)
}

// SetMecanicoSituacao changes only the mechanic's state
func (s *Store) SetMecanicoSituacao(id int64, situacao Situacao) error {
	if !situacao.Valid() {
		return fmt.Errorf("invalid situacao %q", situacao)
	}
	result, err := s.db.Exec("UPDATE mecanicos SET situacao=? WHERE id=?", situacao, id)
	if err != nil {
		return fmt.Errorf("update mecanico situacao: %w", err)
	}
	return checkAffected(result, "mecanico", id)
}

// DeleteMecanico removes a mechanic
func (s *Store) DeleteMecanico(id int64) error {
	result, err := s.db.Exec("DELETE FROM mecanicos WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete mecanico: %w", err)
	}
	return checkAffected(result, "mecanico", id)
}

// GetMecanico retrieves a mechanic by ID
func (s *Store) GetMecanico(id int64) (*Mecanico, error) {
	var m Mecanico
	err := s.db.QueryRow(`
		SELECT id, nome, telefone, email, situacao, created_at FROM mecanicos WHERE id=?
	`, id).Scan(&m.ID, &m.Nome, &m.Telefone, &m.Email, &m.Situacao, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mecanico %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mecanico: %w", err)
	}
	return &m, nil
}

// ListMecanicos retrieves mechanics ordered by ID, optionally filtered by
// state. An empty situacao lists every mechanic.
func (s *Store) ListMecanicos(situacao Situacao) ([]Mecanico, error) {
	query := `SELECT id, nome, telefone, email, situacao, created_at FROM mecanicos`
	var args []any
	if situacao != "" {
		query += ` WHERE situacao=?`
		args = append(args, situacao)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mecanicos: %w", err)
	}
	defer rows.Close()

	var mecanicos []Mecanico
	for rows.Next() {
		var m Mecanico
		if err := rows.Scan(&m.ID, &m.Nome, &m.Telefone, &m.Email, &m.Situacao, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mecanico: %w", err)
		}
		mecanicos = append(mecanicos, m)
	}
	return mecanicos, rows.Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// PARTES DO VEICULO
// ═══════════════════════════════════════════════════════════════════════════════

// CreateParte stores a checklist part
func (s *Store) CreateParte(p *ParteVeiculo) error {
	return createParte(s.db, p)
}

func createParte(db dbtx, p *ParteVeiculo) error {
	if !p.Categoria.Valid() {
		return fmt.Errorf("invalid categoria %q", p.Categoria)
	}

	result, err := db.Exec(`
		INSERT INTO partes_veiculo (nome, imagem, categoria) VALUES (?, ?, ?)
	`, p.Nome, p.Imagem, p.Categoria)
	if err != nil {
		return fmt.Errorf("insert parte: %w", translate(err))
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("parte id: %w", err)
	}
	return nil
}

// DeleteParte removes a checklist part
func (s *Store) DeleteParte(id int64) error {
	result, err := s.db.Exec("DELETE FROM partes_veiculo WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete parte: %w", err)
	}
	return checkAffected(result, "parte", id)
}

// ListPartes retrieves checklist parts, optionally filtered by category.
// An empty categoria lists every part.
func (s *Store) ListPartes(categoria Categoria) ([]ParteVeiculo, error) {
	query := `SELECT id, nome, imagem, categoria FROM partes_veiculo`
	var args []any
	if categoria != "" {
		query += ` WHERE categoria=?`
		args = append(args, categoria)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query partes: %w", err)
	}
	defer rows.Close()

	var partes []ParteVeiculo
	for rows.Next() {
		var p ParteVeiculo
		if err := rows.Scan(&p.ID, &p.Nome, &p.Imagem, &p.Categoria); err != nil {
			return nil, fmt.Errorf("scan parte: %w", err)
		}
		partes = append(partes, p)
	}
	return partes, rows.Err()
}
