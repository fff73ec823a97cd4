package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/oficina/internal/tui/selectbox"
	"github.com/normanking/oficina/internal/tui/styles"
)

// HelpClosedMsg is sent when the help panel is dismissed
type HelpClosedMsg struct{}

// HelpScreen shows the keyboard reference rendered as markdown
type HelpScreen struct {
	markdown string
	style    string
	rendered string
	width    int
	height   int
}

// NewHelpScreen creates the help panel. style is a glamour standard style
// name such as "dark", "light" or "notty".
func NewHelpScreen(keys KeyMap, style string) HelpScreen {
	h := HelpScreen{
		markdown: helpMarkdown(keys, selectbox.DefaultKeyMap()),
		style:    style,
	}
	h.rendered = h.render(72)
	return h
}

func helpMarkdown(keys KeyMap, selectKeys selectbox.KeyMap) string {
	var b strings.Builder
	b.WriteString("# Ajuda\n\n")
	b.WriteString("## Painel\n\n")
	writeBindings(&b, keys.FullHelp())
	b.WriteString("\n## Filtros\n\n")
	b.WriteString("Com o filtro em foco, abra a lista e escolha uma opção. ")
	b.WriteString("Um clique fora da lista a fecha sem alterar o filtro.\n\n")
	writeBindings(&b, selectKeys.FullHelp())
	b.WriteString("\n## Cadastros\n\n")
	b.WriteString("Com a tabela em foco, `n` cria, `e` edita e `d` exclui o registro destacado. ")
	b.WriteString("Nos formulários, `tab` avança, `ctrl+s` salva e `esc` cancela. ")
	b.WriteString("`enter` na tabela de clientes abre os dados do cliente e seus veículos.\n")
	return b.String()
}

func writeBindings(b *strings.Builder, groups [][]key.Binding) {
	b.WriteString("| Tecla | Ação |\n|---|---|\n")
	for _, group := range groups {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
}

// render returns the markdown laid out for width, or the raw text if the
// renderer fails.
func (h HelpScreen) render(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(h.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return h.markdown
	}
	out, err := r.Render(h.markdown)
	if err != nil {
		return h.markdown
	}
	return strings.TrimRight(out, "\n")
}

// Init initializes the help panel
func (h HelpScreen) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help panel
func (h HelpScreen) Update(msg tea.Msg) (HelpScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.rendered = h.render(max(20, min(72, msg.Width-10)))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return HelpClosedMsg{} }
		}
	}
	return h, nil
}

// View renders the help panel centered on the screen
func (h HelpScreen) View() string {
	panel := styles.Modal.Render(h.rendered + "\n\n" + styles.HelpText.Render("esc para fechar"))
	if h.width == 0 || h.height == 0 {
		return panel
	}
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, panel)
}
