package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded border around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderPager draws the page window, e.g. "‹ 6 7 [8] 9 10 ›".
func renderPager(page, totalPages int, pages []int, hasPrev, hasNext bool) string {
	if totalPages == 0 {
		return renderMuted(MsgPageOf(0, 0))
	}
	var parts []string
	if hasPrev {
		parts = append(parts, PagerArrowStyle.Render("‹"))
	}
	for _, p := range pages {
		label := strconv.Itoa(p)
		if p == page {
			parts = append(parts, PagerCurrentStyle.Render("["+label+"]"))
			continue
		}
		parts = append(parts, PagerPageStyle.Render(label))
	}
	if hasNext {
		parts = append(parts, PagerArrowStyle.Render("›"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(parts)...)
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}
