package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// DefaultKey is the storage key the signed-in identity is kept under.
const DefaultKey = "demo_user"

// Storage is a durable key-value store, the server-side analogue of browser
// local storage.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// DecodeError reports a stored identity that could not be trusted.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("session decode error [%s]: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Store holds at most one active identity and mirrors it to Storage.
// It is created once at startup and mutated only by the auth service.
//
// Every Set or successful Restore starts a new session with a fresh id.
// The id is never persisted, so anything bound to it dies with the session.
type Store struct {
	mu        sync.RWMutex
	current   *Identity
	sessionID string

	storage Storage
	key     string
	logger  *slog.Logger
}

func NewStore(storage Storage, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, key: key, logger: logger}
}

// Restore loads the persisted identity. A value that fails validation is
// removed and the store stays signed out; the returned error is then a
// *DecodeError so callers can log it without treating it as fatal.
func (s *Store) Restore(ctx context.Context) (*Identity, error) {
	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok || raw == "" {
		s.current, s.sessionID = nil, ""
		return nil, nil
	}

	id, err := Decode(raw)
	if err != nil {
		s.current, s.sessionID = nil, ""
		if rmErr := s.storage.RemoveItem(ctx, s.key); rmErr != nil {
			s.logger.Warn("failed to remove untrusted session", "key", s.key, "error", rmErr)
		}
		return nil, &DecodeError{Key: s.key, Err: err}
	}

	s.current, s.sessionID = id, uuid.NewString()
	s.logger.Debug("session restored", "id", id.ID, "role", id.Role)
	return id.clone(), nil
}

// Current returns a copy of the active identity, or nil when signed out.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Active returns a copy of the active identity together with the id of the
// session it belongs to. Both are empty when signed out.
func (s *Store) Active() (*Identity, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone(), s.sessionID
}

// Set persists id and makes it the active identity in a new session. The
// previous identity, if any, is replaced. CreatedAt is kept at the precision
// the durable form stores.
func (s *Store) Set(ctx context.Context, id *Identity) error {
	if id == nil {
		return errors.New("nil identity")
	}
	raw, err := Encode(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	current := id.clone()
	current.CreatedAt = Timestamp(current.CreatedAt)
	s.current, s.sessionID = current, uuid.NewString()
	return nil
}

// Clear drops the active identity and removes the persisted copy. The
// in-memory session is cleared even if storage fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current, s.sessionID = nil, ""
	if err := s.storage.RemoveItem(ctx, s.key); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (i *Identity) clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
