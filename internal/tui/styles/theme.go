package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui/selectbox"
)

// Colors for the console theme - AdaptiveColor for light/dark terminal support
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#06B6D4") // Cyan

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	Surface      = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1A1A1A"}
	SurfaceLight = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#262626"}
	Border       = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#333333"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#171717", Dark: "#FAFAFA"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#525252", Dark: "#A3A3A3"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#737373"}
)

// Base styles
var (
	HeaderTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	HeaderUser = lipgloss.NewStyle().
			Foreground(TextSecondary)

	Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	TabActive = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	Input = lipgloss.NewStyle().
		Foreground(TextPrimary)

	InputLabel = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Bold(true)

	InputLabelFocused = InputLabel.
				Foreground(Primary)

	TableBase = lipgloss.NewStyle().
			Foreground(TextPrimary).
			BorderForeground(Border).
			Align(lipgloss.Left)

	TableHighlight = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Bold(true)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			Background(Surface).
			Padding(0, 1)

	HelpText = lipgloss.NewStyle().
			Foreground(TextMuted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
)

// ApplyTheme selects the light or dark variant of adaptive colors.
func ApplyTheme(theme string) {
	lipgloss.SetHasDarkBackground(theme != "light")
}

// GlamourStyle returns the glamour standard style matching theme.
func GlamourStyle(theme string) string {
	if theme == "light" {
		return "light"
	}
	return "dark"
}

// SelectStyles returns dropdown styles built from the console palette.
func SelectStyles() selectbox.Styles {
	s := selectbox.DefaultStyles()
	s.Label = InputLabel
	s.Trigger = lipgloss.NewStyle().Foreground(TextPrimary)
	s.TriggerFocused = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	s.Placeholder = lipgloss.NewStyle().Foreground(TextMuted)
	s.Popup = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Primary)
	s.OptionActive = TableHighlight
	s.OptionSelected = lipgloss.NewStyle().Foreground(Success)
	return s
}

// SituacaoStyle colors an active/inactive state.
func SituacaoStyle(s storage.Situacao) lipgloss.Style {
	if s == storage.Ativo {
		return lipgloss.NewStyle().Foreground(Success)
	}
	return lipgloss.NewStyle().Foreground(TextMuted)
}

// RenderKeybind renders a keybind in consistent style
func RenderKeybind(key, description string) string {
	return HelpKey.Render("["+key+"]") + " " + HelpText.Render(description)
}
