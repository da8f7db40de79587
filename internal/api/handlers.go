package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gwi.com/covalence/internal/auth"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/mockdata"
	"gwi.com/covalence/internal/nav"
	"gwi.com/covalence/internal/session"
)

type APIHandler struct {
	authService *auth.Service
	tokens      *auth.TokenIssuer
	chatService *core.ChatService
	mock        *mockdata.Data
	logger      *slog.Logger
}

func NewAPIHandler(as *auth.Service, tokens *auth.TokenIssuer, cs *core.ChatService, mock *mockdata.Data, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{
		authService: as,
		tokens:      tokens,
		chatService: cs,
		mock:        mock,
		logger:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string            `json:"token"`
	User  *session.Identity `json:"user"`
}

func (h *APIHandler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) || errors.Is(err, auth.ErrUnknownEmail) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("sign-in failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (h *APIHandler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.FullName, session.Role(req.Role))
	if err != nil {
		h.logger.Error("sign-up failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign up")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *APIHandler) respondWithToken(w http.ResponseWriter, status int, user *session.Identity) {
	current, sessionID := h.authService.Session()
	if current == nil || current.ID != user.ID {
		// another sign-in replaced this one before the token was issued
		writeError(w, http.StatusConflict, "Session changed, please sign in again")
		return
	}
	token, err := h.tokens.Generate(current, sessionID)
	if err != nil {
		h.logger.Error("failed to generate token", "id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, status, AuthResponse{Token: token, User: user})
}

func (h *APIHandler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SignOut(r.Context()); err != nil {
		// the in-memory session is already gone
		h.logger.Warn("sign-out could not clear storage", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]*session.Identity{"user": h.authService.Current()})
}

type NavigationResponse struct {
	Role     session.Role  `json:"role"`
	Sections []nav.Section `json:"sections"`
}

func (h *APIHandler) NavigationHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, NavigationResponse{Role: user.Role, Sections: nav.VisibleSections(user.Role)})
}

type CreateChatRequest struct {
	FirstMessage *string `json:"first_message,omitempty"`
}

type ChatResponse struct {
	*core.Conversation
	Messages []core.Message `json:"messages"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())

	var req CreateChatRequest
	if r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	chat, messages, err := h.chatService.CreateChat(r.Context(), user, req.FirstMessage)
	if err != nil {
		h.logger.Error("failed to create chat", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	writeJSON(w, http.StatusCreated, ChatResponse{Conversation: chat, Messages: messages})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.chatService.ListChats(user))
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChat(chatID, user)
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		h.logger.Error("failed to get chat", "user", user.ID, "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get chat details")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Conversation: chat, Messages: messages})
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := h.chatService.PostMessage(r.Context(), chatID, user, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrChatNotFound):
			writeError(w, http.StatusNotFound, "Chat not found")
		case errors.Is(err, core.ErrResponsePending):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to post message", "user", user.ID, "chat_id", chatID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to post message")
		}
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *APIHandler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mock.Analytics)
}

type SettingsResponse struct {
	Profile  *session.Identity          `json:"profile"`
	Sections []mockdata.SettingsSection `json:"sections"`
}

func (h *APIHandler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SettingsResponse{
		Profile:  auth.IdentityFromContext(r.Context()),
		Sections: h.mock.Settings.Sections,
	})
}

func (h *APIHandler) AdminDatasetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mock.Admin.Datasets)
}

func (h *APIHandler) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mock.Admin.Users)
}

func (h *APIHandler) AdminLogsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mock.Admin.ActivityLogs)
}
