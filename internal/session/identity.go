package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Role is an access tier. Only the four constants below are valid, but a
// signed-up identity may carry any string.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAnalyst Role = "analyst"
	RoleIntern  Role = "intern"
)

// ValidRoles lists all valid roles, most privileged first.
var ValidRoles = []Role{RoleAdmin, RoleManager, RoleAnalyst, RoleIntern}

func (r Role) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ErrInvalidIdentity is returned when a stored identity fails validation.
var ErrInvalidIdentity = errors.New("invalid identity")

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Identity struct {
	ID        string
	Email     string
	Role      Role
	FullName  string
	CreatedAt time.Time
}

// identityRecord is the durable form of an Identity.
type identityRecord struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

// Timestamp normalises t to the precision the durable form keeps, so that an
// identity survives a save/restore unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Validate checks required fields and role membership.
func (i *Identity) Validate() error {
	switch {
	case i.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidIdentity)
	case i.Email == "":
		return fmt.Errorf("%w: missing email", ErrInvalidIdentity)
	case !i.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidIdentity, i.Role)
	case i.CreatedAt.IsZero():
		return fmt.Errorf("%w: missing created_at", ErrInvalidIdentity)
	}
	return nil
}

func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityRecord{
		ID:        i.ID,
		Email:     i.Email,
		Role:      string(i.Role),
		FullName:  i.FullName,
		CreatedAt: Timestamp(i.CreatedAt).Format(timestampLayout),
	})
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	var rec identityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	var createdAt time.Time
	if rec.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: created_at: %v", ErrInvalidIdentity, err)
		}
		createdAt = Timestamp(t)
	}
	*i = Identity{
		ID:        rec.ID,
		Email:     rec.Email,
		Role:      Role(rec.Role),
		FullName:  rec.FullName,
		CreatedAt: createdAt,
	}
	return nil
}

// Encode serialises an identity to its durable form.
func Encode(id *Identity) (string, error) {
	b, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode identity: %w", err)
	}
	return string(b), nil
}

// Decode parses and validates a durable identity. Any shape problem is
// reported as ErrInvalidIdentity.
func Decode(raw string) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		if errors.Is(err, ErrInvalidIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &id, nil
}
