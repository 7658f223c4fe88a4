package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎬 Shorts Maker Dashboard"))
	b.WriteString("\n\n")

	b.WriteString(m.stateText())
	b.WriteString("\n")
	if m.Notice != "" {
		b.WriteString(ErrorStyle.Render("⚠ " + m.Notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.typing {
		b.WriteString(HighlightStyle.Render("Topic:"))
		b.WriteString(" " + m.input + "▌\n")
		b.WriteString(InfoStyle.Render(TextTypingFooter))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.Status.Log) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent activity:"))
		b.WriteString("\n")
		for _, line := range tailLines(m.Status.Log, 6) {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(StatusStyle.Render("🔍 Fetching suggestions..."))
		b.WriteString("\n\n")
	} else if len(m.Suggestions) > 0 {
		b.WriteString(HighlightStyle.Render("Suggested topics"))
		b.WriteString("\n")
		for i, s := range m.Suggestions {
			if i >= 9 {
				break
			}
			b.WriteString(fmt.Sprintf(" %d. %s", i+1, s.Topic))
			if s.Source != "" {
				b.WriteString(InfoStyle.Render("  (" + s.Source + ")"))
			}
			b.WriteString("\n")
		}
		b.WriteString(InfoStyle.Render("Press a number to generate that topic"))
		b.WriteString("\n\n")
	}

	if len(m.Cards) > 0 {
		b.WriteString(BoxStyle.Render(m.renderCards()))
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(TextFooter))
	return b.String()
}

// renderCards formats the dashboard cards as the server ordered them,
// newest first.
func (m Model) renderCards() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Projects"))
	b.WriteString("\n\n")
	for _, card := range m.Cards {
		marker := "📄"
		if card.ProjectType == "translator" {
			marker = "🌐"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, card.Title))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s | step %d/%d | %s",
			card.ProjectType, card.CompletedSteps, card.TotalSteps, card.Status)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// tailLines returns the last n entries of lines.
func tailLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
