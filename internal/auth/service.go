package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"gwi.com/covalence/internal/session"
)

// Sign-in errors. The messages are shown to the user as-is.
var (
	ErrInvalidPassword = errors.New(`Invalid password. Use "demo123" for demo accounts.`)
	ErrUnknownEmail    = errors.New("Invalid email. Use admin@demo.com, manager@demo.com, analyst@demo.com, or intern@demo.com")
)

// Service validates demo credentials and is the only writer of the session
// store.
type Service struct {
	roster   *Roster
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewService(roster *Roster, sessions *session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		roster:   roster,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Current returns the signed-in identity, or nil.
func (s *Service) Current() *session.Identity {
	return s.sessions.Current()
}

// Session returns the signed-in identity and the id of its session.
func (s *Service) Session() (*session.Identity, string) {
	return s.sessions.Active()
}

// SignIn checks the email against the roster first, so an unknown email
// reports ErrUnknownEmail whatever the password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	acct, ok := s.roster.Lookup(email)
	if !ok {
		s.logger.Info("sign-in rejected", "email", email, "reason", "unknown email")
		return nil, ErrUnknownEmail
	}
	if !s.roster.CheckPassword(password) {
		s.logger.Info("sign-in rejected", "email", email, "reason", "invalid password")
		return nil, ErrInvalidPassword
	}

	if err := s.sessions.Set(ctx, acct); err != nil {
		return nil, err
	}
	s.logger.Info("signed in", "id", acct.ID, "role", acct.Role)
	return acct, nil
}

// SignUp fabricates a new identity from the given fields. The role is kept
// exactly as supplied. The id is the creation time in Unix milliseconds,
// bumped past the previous sign-up when two land in the same millisecond.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string, role session.Role) (*session.Identity, error) {
	now := s.now()
	id := &session.Identity{
		ID:        strconv.FormatInt(s.nextID(now), 10),
		Email:     email,
		Role:      role,
		FullName:  fullName,
		CreatedAt: session.Timestamp(now),
	}
	if !role.Valid() {
		s.logger.Warn("sign-up with role outside the known set", "email", email, "role", role)
	}

	if err := s.sessions.Set(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("signed up", "id", id.ID, "role", id.Role)
	return id, nil
}

// SignOut clears the session. The in-memory identity is gone even when the
// returned error is non-nil.
func (s *Service) SignOut(ctx context.Context) error {
	prev := s.sessions.Current()
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	if prev != nil {
		s.logger.Info("signed out", "id", prev.ID)
	}
	return nil
}

func (s *Service) nextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
