// Package nav derives which application sections a role may see.
//
// This is a presentation filter. Anything that needs real access control
// must check the role again where the data is served.
package nav

import "gwi.com/covalence/internal/session"

type SectionID string

const (
	Chat      SectionID = "chat"
	Analytics SectionID = "analytics"
	Admin     SectionID = "admin"
	Settings  SectionID = "settings"
)

type Section struct {
	ID   SectionID `json:"id"`
	Name string    `json:"name"`
}

var (
	chatSection      = Section{ID: Chat, Name: "Chat"}
	analyticsSection = Section{ID: Analytics, Name: "Analytics"}
	adminSection     = Section{ID: Admin, Name: "Admin"}
	settingsSection  = Section{ID: Settings, Name: "Settings"}
)

// VisibleSections returns the sections shown to role, in display order.
func VisibleSections(role session.Role) []Section {
	sections := []Section{chatSection, analyticsSection}
	if role == session.RoleAdmin {
		sections = append(sections, adminSection)
	}
	return append(sections, settingsSection)
}

func CanView(role session.Role, id SectionID) bool {
	for _, s := range VisibleSections(role) {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Resolve maps a requested section to the one actually shown: anything
// unknown or hidden from role falls back to chat.
func Resolve(role session.Role, requested SectionID) SectionID {
	if CanView(role, requested) {
		return requested
	}
	return Chat
}
