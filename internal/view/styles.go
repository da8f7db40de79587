package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"gwi.com/covalence/internal/session"
)

const productName = "Covalence AI⚡"

var (
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("27"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// roleColors mirror the badge colours of the web client.
var roleColors = map[session.Role]lipgloss.Color{
	session.RoleAdmin:   lipgloss.Color("160"), // red
	session.RoleManager: lipgloss.Color("129"), // purple
	session.RoleAnalyst: lipgloss.Color("33"),  // blue
	session.RoleIntern:  lipgloss.Color("34"),  // green
}

// RoleColor returns the badge colour for role; unknown roles are gray.
func RoleColor(role session.Role) lipgloss.Color {
	if c, ok := roleColors[role]; ok {
		return c
	}
	return lipgloss.Color("245")
}

func RoleBadge(role session.Role) string {
	return lipgloss.NewStyle().
		Foreground(RoleColor(role)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(RoleColor(role)).
		Padding(0, 1).
		Render(string(role))
}

// FormatDate renders t like "Jan 15, 2024, 02:32 PM".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

func Error(msg string) string {
	return errorStyle.Render(msg)
}
