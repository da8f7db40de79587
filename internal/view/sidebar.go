package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gwi.com/covalence/internal/nav"
	"gwi.com/covalence/internal/session"
)

// Sidebar renders the product header, the signed-in identity and the
// sections visible to it, marking active.
func Sidebar(id *session.Identity, active nav.SectionID) string {
	var b strings.Builder
	b.WriteString(brandStyle.Render(productName))
	b.WriteString("\n")
	b.WriteString(taglineStyle.Render("Enterprise Data Assistant"))
	b.WriteString("\n\n")

	if id == nil {
		b.WriteString(mutedStyle.Render("Not signed in"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(Profile(id))
	b.WriteString("\n\n")

	active = nav.Resolve(id.Role, active)
	for _, s := range nav.VisibleSections(id.Role) {
		if s.ID == active {
			b.WriteString(activeStyle.Render("▸ " + s.Name))
		} else {
			b.WriteString(inactiveStyle.Render("  " + s.Name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Profile renders an avatar initial, the display name and a role badge.
func Profile(id *session.Identity) string {
	initial := "?"
	if r := []rune(strings.TrimSpace(id.FullName)); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}
	avatar := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("63")).
		Padding(0, 1).
		Render(initial)

	details := lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(id.FullName),
		mutedStyle.Render(id.Email),
		RoleBadge(id.Role),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", details)
}
