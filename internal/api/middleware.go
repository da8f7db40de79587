package api

import (
	"errors"
	"net/http"
	"strings"

	"gwi.com/covalence/internal/auth"
	"gwi.com/covalence/internal/session"
)

// JWTAuthMiddleware accepts a bearer token only while the session it was
// issued for is still active. Signing out therefore revokes every issued
// token, including for an account that later signs back in.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := h.tokens.Validate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, sessionID := h.authService.Session()
		if user == nil || user.ID != claims.Subject || sessionID != claims.SessionID {
			writeError(w, http.StatusUnauthorized, "Session is no longer active")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), user)))
	})
}

// RequireRole rejects identities whose role is not in roles. It must run
// after JWTAuthMiddleware.
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.IdentityFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "Not signed in")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Insufficient role")
		})
	}
}
