package auth

import (
	"fmt"
	"time"

	"gwi.com/covalence/internal/session"
)

// DemoPassword is shared by every roster account.
const DemoPassword = "demo123"

// Roster is the fixed set of demo accounts sign-in is checked against.
type Roster struct {
	accounts     []session.Identity
	passwordHash string
}

// NewRoster builds the four demo accounts, stamped with createdAt.
func NewRoster(createdAt time.Time) (*Roster, error) {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	ts := session.Timestamp(createdAt)
	return &Roster{
		accounts: []session.Identity{
			{ID: "1", Email: "admin@demo.com", Role: session.RoleAdmin, FullName: "Admin User", CreatedAt: ts},
			{ID: "2", Email: "manager@demo.com", Role: session.RoleManager, FullName: "Manager User", CreatedAt: ts},
			{ID: "3", Email: "analyst@demo.com", Role: session.RoleAnalyst, FullName: "Analyst User", CreatedAt: ts},
			{ID: "4", Email: "intern@demo.com", Role: session.RoleIntern, FullName: "Intern User", CreatedAt: ts},
		},
		passwordHash: hash,
	}, nil
}

// Lookup finds a roster account by exact email.
func (r *Roster) Lookup(email string) (*session.Identity, bool) {
	for i := range r.accounts {
		if r.accounts[i].Email == email {
			acct := r.accounts[i]
			return &acct, true
		}
	}
	return nil, false
}

func (r *Roster) CheckPassword(password string) bool {
	return CheckPasswordHash(password, r.passwordHash)
}

func (r *Roster) Accounts() []session.Identity {
	out := make([]session.Identity, len(r.accounts))
	copy(out, r.accounts)
	return out
}
