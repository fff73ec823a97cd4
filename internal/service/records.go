package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/normanking/oficina/internal/storage"
)

// FieldError reports a form field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// placaPattern accepts the old (ABC1234) and Mercosul (ABC1D23) plates.
var placaPattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

// OnlyDigits strips every non-digit rune, undoing CPF and phone masks.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF masks an 11-digit CPF as 000.000.000-00. Other input is
// returned unchanged.
func FormatCPF(raw string) string {
	d := OnlyDigits(raw)
	if len(d) != 11 {
		return raw
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[:3], d[3:6], d[6:9], d[9:])
}

// SituacaoOptions returns the choices of a record's state field.
func SituacaoOptions() []Option {
	return []Option{
		{Label: "Ativo", Value: string(storage.Ativo)},
		{Label: "Inativo", Value: string(storage.Inativo)},
	}
}

func validTelefone(raw string) bool {
	n := len(OnlyDigits(raw))
	return n == 10 || n == 11
}

// ValidateCliente checks a client before it is stored and strips the CPF
// and phone masks.
func ValidateCliente(c *storage.Cliente) error {
	c.Nome = strings.TrimSpace(c.Nome)
	c.Email = strings.TrimSpace(c.Email)
	c.Endereco = strings.TrimSpace(c.Endereco)
	c.CPF = OnlyDigits(c.CPF)
	c.Telefone = OnlyDigits(c.Telefone)

	switch {
	case c.Nome == "":
		return invalid("nome", "Nome obrigatório")
	case len(c.CPF) != 11:
		return invalid("cpf", "CPF inválido")
	case !validTelefone(c.Telefone):
		return invalid("telefone", "Telefone inválido")
	case !strings.Contains(c.Email, "@"):
		return invalid("email", "E-mail inválido")
	case c.Endereco == "":
		return invalid("endereco", "Endereço obrigatório")
	}
	return nil
}

// ValidateMecanico checks a mechanic before it is stored.
func ValidateMecanico(m *storage.Mecanico) error {
	m.Nome = strings.TrimSpace(m.Nome)
	m.Email = strings.TrimSpace(m.Email)
	m.Telefone = OnlyDigits(m.Telefone)

	switch {
	case m.Nome == "":
		return invalid("nome", "Nome obrigatório")
	case !validTelefone(m.Telefone):
		return invalid("telefone", "Telefone inválido")
	case !strings.Contains(m.Email, "@"):
		return invalid("email", "E-mail inválido")
	}
	return nil
}

// VeiculoInput is a vehicle as typed into a form.
type VeiculoInput struct {
	Placa         string
	Marca         string
	Modelo        string
	Cor           string
	Ano           string
	Quilometragem string
}

// Veiculo validates the input and converts it to a vehicle. Plates are
// stored upper case; the year may not be later than now.
func (in VeiculoInput) Veiculo(now time.Time) (storage.Veiculo, error) {
	v := storage.Veiculo{
		Placa:  strings.ToUpper(strings.TrimSpace(in.Placa)),
		Marca:  strings.TrimSpace(in.Marca),
		Modelo: strings.TrimSpace(in.Modelo),
		Cor:    strings.TrimSpace(in.Cor),
	}

	if !placaPattern.MatchString(v.Placa) {
		return v, invalid("placa", "Placa inválida (ex: ABC1234 ou ABC1D23)")
	}
	if v.Marca == "" {
		return v, invalid("marca", "Marca obrigatória")
	}
	if v.Modelo == "" {
		return v, invalid("modelo", "Modelo obrigatório")
	}
	if v.Cor == "" {
		return v, invalid("cor", "Cor obrigatória")
	}

	ano := strings.TrimSpace(in.Ano)
	year, err := strconv.Atoi(ano)
	if err != nil || year <= 0 || len(ano) != 4 {
		return v, invalid("ano", "Ano inválido")
	}
	if year > now.Year() {
		return v, invalid("ano", fmt.Sprintf("Ano não pode ser maior que %d", now.Year()))
	}
	v.Ano = year

	km, err := strconv.Atoi(strings.TrimSpace(in.Quilometragem))
	if err != nil || km < 0 {
		return v, invalid("quilometragem", "Quilometragem inválida")
	}
	v.Quilometragem = km
	return v, nil
}

// ValidateParte checks a checklist part before it is stored.
func ValidateParte(p *storage.ParteVeiculo) error {
	p.Nome = strings.TrimSpace(p.Nome)
	p.Imagem = strings.TrimSpace(p.Imagem)

	switch {
	case p.Nome == "":
		return invalid("nome", "Nome obrigatório")
	case !p.Categoria.Valid():
		return invalid("categoria", "Selecione uma categoria")
	case p.Imagem == "":
		return invalid("imagem", "Informe a imagem")
	}
	return nil
}

// Cliente returns a client.
func (c *Catalog) Cliente(id int64) (*storage.Cliente, error) {
	return c.store.GetCliente(id)
}

// Mecanico returns a mechanic.
func (c *Catalog) Mecanico(id int64) (*storage.Mecanico, error) {
	return c.store.GetMecanico(id)
}

// Veiculos lists the vehicles of a client.
func (c *Catalog) Veiculos(clienteID int64) ([]storage.Veiculo, error) {
	list, err := c.store.ListVeiculos(clienteID)
	if err != nil {
		return nil, fmt.Errorf("list veiculos: %w", err)
	}
	return list, nil
}

// SaveCliente validates and stores a client. A zero ID creates it.
func (c *Catalog) SaveCliente(cl *storage.Cliente) error {
	if err := ValidateCliente(cl); err != nil {
		return err
	}
	if cl.ID == 0 {
		if err := c.store.CreateCliente(cl); err != nil {
			return err
		}
		c.log.Info("cliente %s created", FormatClienteID(cl.ID))
		return nil
	}
	if err := c.store.UpdateCliente(cl); err != nil {
		return err
	}
	c.log.Info("cliente %s updated", FormatClienteID(cl.ID))
	return nil
}

// SaveMecanico validates and stores a mechanic. A zero ID creates it.
func (c *Catalog) SaveMecanico(m *storage.Mecanico) error {
	if err := ValidateMecanico(m); err != nil {
		return err
	}
	if m.ID == 0 {
		if err := c.store.CreateMecanico(m); err != nil {
			return err
		}
		c.log.Info("mecanico %s created", FormatMecanicoID(m.ID))
		return nil
	}
	if err := c.store.UpdateMecanico(m); err != nil {
		return err
	}
	c.log.Info("mecanico %s updated", FormatMecanicoID(m.ID))
	return nil
}

// SaveVeiculo stores a vehicle already built by VeiculoInput.Veiculo. A
// zero ID attaches it to v.ClienteID.
func (c *Catalog) SaveVeiculo(v *storage.Veiculo) error {
	if v.ID == 0 {
		if err := c.store.AddVeiculo(v); err != nil {
			return err
		}
		c.log.Info("veiculo %s added to %s", v.Placa, FormatClienteID(v.ClienteID))
		return nil
	}
	if err := c.store.UpdateVeiculo(v); err != nil {
		return err
	}
	c.log.Info("veiculo %s updated", v.Placa)
	return nil
}

// CreateParte validates and stores a checklist part.
func (c *Catalog) CreateParte(p *storage.ParteVeiculo) error {
	if err := ValidateParte(p); err != nil {
		return err
	}
	if err := c.store.CreateParte(p); err != nil {
		return err
	}
	c.log.Info("parte %d created in %s", p.ID, p.Categoria)
	return nil
}

// DeleteCliente removes a client and its vehicles.
func (c *Catalog) DeleteCliente(id int64) error {
	if err := c.store.DeleteCliente(id); err != nil {
		return err
	}
	c.log.Info("cliente %s deleted", FormatClienteID(id))
	return nil
}

// DeleteMecanico removes a mechanic.
func (c *Catalog) DeleteMecanico(id int64) error {
	if err := c.store.DeleteMecanico(id); err != nil {
		return err
	}
	c.log.Info("mecanico %s deleted", FormatMecanicoID(id))
	return nil
}

// DeleteVeiculo removes a vehicle.
func (c *Catalog) DeleteVeiculo(id int64) error {
	if err := c.store.DeleteVeiculo(id); err != nil {
		return err
	}
	c.log.Info("veiculo %d deleted", id)
	return nil
}

// DeleteParte removes a checklist part.
func (c *Catalog) DeleteParte(id int64) error {
	if err := c.store.DeleteParte(id); err != nil {
		return err
	}
	c.log.Info("parte %d deleted", id)
	return nil
}
