// Package httpapi assembles the HTTP routing table.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"studio/internal/http/handlers"
	"studio/internal/middleware"
)

// NewRouter wires all endpoints. Everything under /api except auth and health
// requires a session token; the admin subtree additionally checks the email
// allow-list inside its handlers.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.Signup)
			r.Post("/login", app.Login)
			r.With(middleware.AuthJWT(app.Config.JWTSecret)).Get("/profile", app.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Config.JWTSecret))

			r.Get("/me", app.Me)
			r.Post("/generate", app.Generate)
			r.Post("/uploads", app.Upload)
			r.Get("/download/{id}", app.DownloadProject)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", app.ListProjects)
				r.Get("/{id}", app.GetProject)
				r.Delete("/{id}", app.DeleteProject)
				r.Get("/{id}/download", app.DownloadProject)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", app.AdminStats)
				r.Get("/users", app.AdminListUsers)
				r.Post("/users/{id}/credits", app.AdminGrantCredits)
				r.Post("/credits", app.AdminGrantCredits)
				r.Get("/logs", app.AdminListLogs)
			})
		})
	})

	return r
}
