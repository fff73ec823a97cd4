package selectbox

import "github.com/charmbracelet/lipgloss"

// Styles controls how the select renders. Styles only color text; they
// must not add padding or borders beyond Popup's border, since hit-testing
// relies on the fixed geometry described in layout.go.
type Styles struct {
	Label          lipgloss.Style
	Trigger        lipgloss.Style
	TriggerFocused lipgloss.Style
	Placeholder    lipgloss.Style
	Popup          lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionSelected lipgloss.Style
	Empty          lipgloss.Style

	// Variants are trigger styles looked up by Config.ClassName.
	Variants map[string]lipgloss.Style
}

// DefaultStyles returns the console palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7C3AED")
	muted := lipgloss.AdaptiveColor{Light: "#737373", Dark: "#737373"}
	text := lipgloss.AdaptiveColor{Light: "#171717", Dark: "#FAFAFA"}

	return Styles{
		Label:          lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#525252", Dark: "#A3A3A3"}).Bold(true),
		Trigger:        lipgloss.NewStyle().Foreground(text),
		TriggerFocused: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Placeholder:    lipgloss.NewStyle().Foreground(muted),
		Popup:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary),
		Option:         lipgloss.NewStyle().Foreground(text),
		OptionActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(primary).Bold(true),
		OptionSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Empty:          lipgloss.NewStyle().Foreground(muted).Italic(true),
		Variants: map[string]lipgloss.Style{
			"compact": lipgloss.NewStyle().Foreground(muted),
			"danger":  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		},
	}
}
