package detection

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"appdetect/pkg/detector"
	"appdetect/pkg/framework"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#01FAC6")).
		Padding(1, 2).
		Width(60)
)

// Render formats a detected framework for the terminal
func Render(appPath string, desc detector.Descriptor) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Framework Detection Results"))
	s.WriteString("\n\n")

	var content strings.Builder
	writeField(&content, "Path", appPath)
	writeField(&content, "Framework", desc.Framework)
	writeField(&content, "Memory", desc.Memory)
	content.WriteString(descriptionStyle.Render(desc.Description))
	content.WriteString("\n")

	if desc.Exec != "" {
		content.WriteString("\n")
		content.WriteString(focusedStyle.Render("Start command:"))
		content.WriteString("\n  ")
		content.WriteString(descriptionStyle.Render(desc.Exec))
	} else {
		content.WriteString("\n")
		content.WriteString(helpStyle.Render("No framework specific start command; the platform default applies."))
	}

	s.WriteString(boxStyle.Render(content.String()))
	return s.String()
}

// RenderUndetermined explains that no checker matched
func RenderUndetermined(appPath string) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Framework Detection Results"))
	s.WriteString("\n\n")

	var content strings.Builder
	writeField(&content, "Path", appPath)
	content.WriteString(warnStyle.Render("Could not classify this application."))
	content.WriteString("\n\n")
	content.WriteString(helpStyle.Render("Default memory if deployed anyway: " + framework.DefaultMemory))

	s.WriteString(boxStyle.Render(content.String()))
	return s.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(focusedStyle.Render(label + ":"))
	b.WriteString(selectedItemStyle.Render(value))
	b.WriteString("\n")
}
