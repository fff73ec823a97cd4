package screens

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/session"
	"github.com/normanking/oficina/internal/tui/styles"
)

// LoggedInMsg is sent when a token was accepted
type LoggedInMsg struct {
	User session.Claims
}

// LoginScreen asks for the access token issued by the workshop API
type LoginScreen struct {
	session    *session.Manager
	tokenInput textinput.Model
	err        string
	width      int
	height     int
}

// NewLoginScreen creates a new login screen
func NewLoginScreen(mgr *session.Manager) LoginScreen {
	ti := textinput.New()
	ti.Placeholder = "Cole o token de acesso"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 4096
	ti.Width = 40
	ti.Focus()

	return LoginScreen{
		session:    mgr,
		tokenInput: ti,
	}
}

// Init initializes the login screen
func (m LoginScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the message shown for the last failed attempt
func (m LoginScreen) Err() string { return m.err }

// Update handles messages for the login screen
func (m LoginScreen) Update(msg tea.Msg) (LoginScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.handleSubmit()
		case "esc":
			m.err = ""
			return m, nil
		}
	}

	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

func (m LoginScreen) handleSubmit() (LoginScreen, tea.Cmd) {
	token := strings.TrimSpace(m.tokenInput.Value())
	if token == "" {
		m.err = "Informe o token de acesso"
		return m, nil
	}

	if err := m.session.Login(token); err != nil {
		m.err = loginError(err)
		m.tokenInput.SetValue("")
		return m, nil
	}

	user, _ := m.session.User()
	return m, func() tea.Msg { return LoggedInMsg{User: user} }
}

func loginError(err error) string {
	switch {
	case errors.Is(err, session.ErrExpired):
		return "Token expirado"
	case errors.Is(err, session.ErrMalformedToken):
		return "Token inválido"
	}
	return "Não foi possível salvar a sessão"
}

// View renders the login screen
func (m LoginScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return "Carregando..."
	}

	var form strings.Builder
	form.WriteString(styles.HeaderTitle.Render("Entrar") + "\n\n")
	form.WriteString(styles.HeaderUser.Render("Use o token emitido pelo sistema da oficina.") + "\n\n")
	form.WriteString(styles.InputLabelFocused.Render("Token") + "\n")
	form.WriteString(styles.Input.Width(44).Render(m.tokenInput.View()) + "\n\n")

	if m.err != "" {
		form.WriteString(styles.ErrorText.Render("⚠ "+m.err) + "\n\n")
	}
	form.WriteString(styles.HelpText.Render("[Enter] Entrar  [Ctrl+C] Encerrar"))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.Logo.Render("OFICINA"),
		"",
		styles.Modal.Width(52).Render(form.String()),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
