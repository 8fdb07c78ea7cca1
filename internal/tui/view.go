package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/csheth/appsimple/internal/typewriter"
)

func (m *model) View() string {
	parts := []string{
		heroTitleStyle.Render("AppSimple"),
		taglineStyle.Render(heroTagline),
		m.heroView(),
	}
	if notes := m.footnotesView(); notes != "" {
		parts = append(parts, notes)
	}
	if items := m.itemsView(); items != "" {
		parts = append(parts, items)
	}
	parts = append(parts, m.statusView())
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	var b strings.Builder
	footnote := 0
	for _, node := range m.buffer.Nodes() {
		if node.Link == nil {
			b.WriteString(node.Text)
			continue
		}
		b.WriteString(m.renderLink(node))
		if node.Link.URL != "" && !m.config.Hyperlinks && linkComplete(node) {
			footnote++
			b.WriteString(footnoteStyle.Render(fmt.Sprintf("[%d]", footnote)))
		}
	}
	b.WriteString(m.caret.View())

	body := b.String()
	if !m.config.Hyperlinks {
		body = wordwrap.String(body, m.layout.wrapWidth)
	}
	return heroBoxStyle.Width(m.layout.boxWidth).Render(body)
}

func (m *model) renderLink(node typewriter.Node) string {
	styled := linkStyleFor(node.Link.Style).Render(node.Text)
	if m.config.Hyperlinks && node.Link.URL != "" {
		return termenv.Hyperlink(node.Link.URL, styled)
	}
	return styled
}

// linkComplete reports whether every character of the token has been typed.
func linkComplete(node typewriter.Node) bool {
	return node.Link != nil && node.Text == node.Link.Token
}

func (m *model) footnotesView() string {
	if m.config.Hyperlinks {
		return ""
	}
	var lines []string
	for _, node := range m.buffer.Nodes() {
		if node.Link == nil || node.Link.URL == "" || !linkComplete(node) {
			continue
		}
		lines = append(lines, helperStyle.Render(fmt.Sprintf("[%d] %s  %s", len(lines)+1, node.Link.Token, node.Link.URL)))
	}
	return strings.Join(lines, "\n")
}

func (m *model) itemsView() string {
	if m.revealed == 0 {
		return ""
	}
	var rows []string
	for i, item := range m.config.Items {
		if i >= m.revealed {
			break
		}
		title := itemTitleStyle.Render(item.Title)
		if item.URL != "" {
			title = lipgloss.JoinHorizontal(lipgloss.Top, title, helperStyle.Render("  "+item.URL))
		}
		desc := itemDescStyle.Render(wordwrap.String(item.Description, m.layout.wrapWidth))
		rows = append(rows, itemBoxStyle.Render(title+"\n"+desc))
	}
	return strings.Join(rows, "\n")
}

func (m *model) statusView() string {
	stats := []string{
		fmt.Sprintf("State %s", m.animator.State()),
		fmt.Sprintf("Run %d", m.run),
		fmt.Sprintf("Options %d/%d", m.revealed, len(m.config.Items)),
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  ")) + helperStyle.Render("  ? for keys")
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"r", "Restart typing"},
		{"s", "Skip to the end"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	var cells []string
	for _, hint := range hints {
		key := keyStyle.Render(hint.Key)
		desc := keyDescStyle.Render(" " + hint.Description + "  ")
		cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
	}
	return legendBoxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func linkStyleFor(hint string) lipgloss.Style {
	switch hint {
	case "brand":
		return brandLinkStyle
	case "special":
		return unlinkedStyle
	default:
		return linkStyle
	}
}

var (
	helperStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	footnoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Padding(1, 2)
	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	caretStyle     = lipgloss.NewStyle().Foreground(heroAccentColor)
	brandLinkStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(heroAccentColor)
	linkStyle      = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("81"))
	unlinkedStyle  = lipgloss.NewStyle().Bold(true).Foreground(heroSecondaryTextColor)
	itemTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 1)
	itemDescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	itemBoxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(heroAccentColor).PaddingLeft(1)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
)
