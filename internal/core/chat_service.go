package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gwi.com/covalence/internal/session"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrResponsePending = errors.New("a response is already pending for this chat")
	ErrEmptyMessage    = errors.New("message content cannot be empty")
)

const maxTitleLength = 48

// DefaultResponseDelay is the simulated time the assistant takes to answer.
const DefaultResponseDelay = 1500 * time.Millisecond

type conversation struct {
	Conversation
	messages []Message
	pending  bool
}

// ChatService keeps conversations in memory. Messages are append-only and
// are never persisted.
type ChatService struct {
	mu    sync.Mutex
	chats map[string]*conversation

	delay  time.Duration
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewChatService(delay time.Duration, logger *slog.Logger) *ChatService {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		chats:  make(map[string]*conversation),
		delay:  delay,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateChat starts a conversation with the assistant greeting. If
// firstMessage is non-empty it is posted straight away and the returned
// messages include the reply.
func (s *ChatService) CreateChat(ctx context.Context, owner *session.Identity, firstMessage *string) (*Conversation, []Message, error) {
	s.mu.Lock()
	c := &conversation{
		Conversation: Conversation{
			ID:        s.newID(),
			OwnerID:   owner.ID,
			CreatedAt: s.now(),
		},
	}
	c.messages = append(c.messages, Message{
		ID:        s.newID(),
		Author:    AuthorAssistant,
		Text:      greetingText,
		Timestamp: s.now(),
	})
	s.chats[c.ID] = c
	s.mu.Unlock()

	s.logger.Debug("chat created", "chat_id", c.ID, "owner", owner.ID)

	if firstMessage != nil && strings.TrimSpace(*firstMessage) != "" {
		if _, err := s.PostMessage(ctx, c.ID, owner, *firstMessage); err != nil {
			s.logger.Warn("failed to answer first message", "chat_id", c.ID, "error", err)
		}
	}

	chat, messages, err := s.GetChat(c.ID, owner)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

// ListChats returns owner's conversations, newest first.
func (s *ChatService) ListChats(owner *session.Identity) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := make([]Conversation, 0)
	for _, c := range s.chats {
		if c.OwnerID == owner.ID {
			chats = append(chats, c.Conversation)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	return chats
}

func (s *ChatService) GetChat(chatID string, owner *session.Identity) (*Conversation, []Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok || c.OwnerID != owner.ID {
		return nil, nil, ErrChatNotFound
	}
	chat := c.Conversation
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return &chat, messages, nil
}

// PostMessage appends the user's message, waits out the response delay and
// appends the generated reply. Only one reply may be pending per chat; a
// concurrent post gets ErrResponsePending.
func (s *ChatService) PostMessage(ctx context.Context, chatID string, owner *session.Identity, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	c, ok := s.chats[chatID]
	if !ok || c.OwnerID != owner.ID {
		s.mu.Unlock()
		return nil, ErrChatNotFound
	}
	if c.pending {
		s.mu.Unlock()
		return nil, ErrResponsePending
	}
	c.messages = append(c.messages, Message{
		ID:        s.newID(),
		Author:    AuthorUser,
		Text:      content,
		Timestamp: s.now(),
	})
	if c.Title == nil {
		title := titleFrom(content)
		c.Title = &title
	}
	c.pending = true
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		s.mu.Lock()
		c.pending = false
		s.mu.Unlock()
		return nil, fmt.Errorf("response cancelled: %w", err)
	}

	reply := Respond(content, owner.Role)

	s.mu.Lock()
	defer s.mu.Unlock()
	msg := Message{
		ID:           s.newID(),
		Author:       AuthorAssistant,
		Text:         reply.Text,
		Timestamp:    s.now(),
		ResponseType: reply.ResponseType,
		Payload:      reply.Payload,
	}
	c.messages = append(c.messages, msg)
	c.pending = false

	s.logger.Debug("reply generated", "chat_id", chatID, "response_type", reply.ResponseType)
	return &msg, nil
}

func (s *ChatService) wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func titleFrom(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if r := []rune(title); len(r) > maxTitleLength {
		title = strings.TrimSpace(string(r[:maxTitleLength])) + "..."
	}
	return title
}
