package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gwi.com/covalence/internal/session"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/auth/signin", apiHandler.SignInHandler)
		r.Post("/auth/signup", apiHandler.SignUpHandler)
		r.Post("/auth/signout", apiHandler.SignOutHandler)
		r.Get("/session", apiHandler.SessionHandler)

		// Signed-in routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Get("/navigation", apiHandler.NavigationHandler)

			r.Post("/chats", apiHandler.CreateChatHandler)
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Get("/chats/{chatID}", apiHandler.GetChatDetailsHandler)
			r.Post("/chats/{chatID}/messages", apiHandler.PostMessageHandler)

			r.Get("/analytics", apiHandler.AnalyticsHandler)
			r.Get("/settings", apiHandler.SettingsHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(session.RoleAdmin))
				r.Get("/datasets", apiHandler.AdminDatasetsHandler)
				r.Get("/users", apiHandler.AdminUsersHandler)
				r.Get("/logs", apiHandler.AdminLogsHandler)
			})
		})
	})

	return r
}
