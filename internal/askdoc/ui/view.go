package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/askdoc/internal/askdoc/conversation"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.panel.IsOpen() {
		return m.closedView()
	}

	var b strings.Builder

	header := headerStyle.Render(m.opts.Title + "  [−]")
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.transcript.state.Pending {
		b.WriteString(m.spinner.View() + busyStyle.Render(" Thinking..."))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.transcript.state.Pending {
		b.WriteString(busyStyle.Render("> waiting for the reply..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) closedView() string {
	label := "💬 " + m.opts.Title
	if m.transcript.state.Pending {
		label += " " + m.spinner.View()
	}
	lines := []string{
		floatStyle.Render(label),
		helpStyle.Render("press ctrl+t to open the assistant, esc to quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) helpView() string {
	var parts []string
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// renderMessages lays out the transcript in insertion order
func (m Model) renderMessages() string {
	width := m.width - 2
	if width < 10 {
		width = 10
	}

	blocks := make([]string, 0, len(m.transcript.state.Messages))
	for _, msg := range m.transcript.state.Messages {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg conversation.Message, width int) string {
	if msg.IsUser() {
		return userLabelStyle.Render("You") + "\n" +
			userTextStyle.Width(width).Render(msg.Text)
	}

	body := botTextStyle.Width(width).Render(msg.Text)
	if m.renderer != nil {
		if out, err := m.renderer.Render(msg.Text); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return botLabelStyle.Render(m.opts.Title) + "\n" + body
}
