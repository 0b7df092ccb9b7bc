package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mypyreveal/internal/model"
	"mypyreveal/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	emphasisStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	popupStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func (m AppModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(m.renderContext())
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s Error: %v", model.IconFailure, m.Err)))
		b.WriteString("\n")
	case m.Loading:
		b.WriteString(fmt.Sprintf("%s Running type checker...", m.Spinner.View()))
		if m.Attempt == model.RetryAfterError {
			b.WriteString(dimStyle.Render(" (" + model.IconRetry + " retrying with a trailing probe)"))
		}
		b.WriteString("\n")
	default:
		b.WriteString(popupStyle.Width(m.popupWidth()).Render(m.Viewport.View()))
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString(statusStyle.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("c: copy • ↑/↓: scroll • q: close"))
	return b.String()
}

func (m AppModel) title() string {
	if m.Request.Locals {
		return fmt.Sprintf("%s reveal_locals() line %d", model.IconLocals, m.Context.LineNumber)
	}
	title := fmt.Sprintf("%s reveal_type", model.IconType)
	if m.Result.Attempts > 1 {
		title += " " + model.IconRetry
	}
	return title
}

// renderContext shows the line the request was made on, truncated to the popup.
func (m AppModel) renderContext() string {
	if m.Context.ErrorMsg != "" {
		return dimStyle.Render(m.Context.ErrorMsg)
	}
	width := m.popupWidth()
	line := fmt.Sprintf("%4d │ %s", m.Context.LineNumber, strings.TrimRight(m.Context.Target, "\r"))
	return dimStyle.Render(runewidth.Truncate(line, width, "…"))
}

// renderBody renders the popup content padded to the minimum height.
func (m AppModel) renderBody() string {
	text := render.Terminal(m.Result.Content, func(s string) string { return emphasisStyle.Render(s) })
	if strings.TrimSpace(text) == "" {
		text = dimStyle.Render("no type information")
	}
	lines := strings.Split(text, "\n")
	clip := lipgloss.NewStyle().MaxWidth(m.bodyWidth())
	for i, l := range lines {
		lines[i] = clip.Render(l)
	}
	for len(lines) < m.MinHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) popupWidth() int {
	width := m.MaxWidth
	if m.WindowSize.Width > 0 && m.WindowSize.Width-2 < width {
		width = m.WindowSize.Width - 2
	}
	if width < 20 {
		width = 20
	}
	return width
}

// bodyWidth is the popup width less its border and padding.
func (m AppModel) bodyWidth() int {
	return m.popupWidth() - 4
}

func (m AppModel) bodyHeight() int {
	height := max(m.MinHeight, strings.Count(m.Result.Content, "<br>")+2)
	if m.WindowSize.Height > 0 {
		// title, context, status, footer and the popup border
		height = min(height, m.WindowSize.Height-6)
	}
	return max(height, 1)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, RevealCmd(m.ctx, m.revealer, m.Request))
}
