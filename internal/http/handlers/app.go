// Package handlers holds the HTTP endpoints. Every handler hangs off App so
// the router stays a flat wiring table.
package handlers

import (
	"encoding/json"
	"net/http"

	"studio/internal/domain"
	"studio/internal/export"
	"studio/internal/infra"
	"studio/internal/infra/geoip"
	"studio/internal/middleware"
	"studio/internal/orchestrator"
	"studio/internal/storage"
)

// App carries the shared dependencies for all HTTP handlers.
type App struct {
	Config       *infra.Config
	Logger       infra.Logger
	Users        domain.UserRepository
	Projects     domain.ProjectRepository
	Creatives    domain.CreativeRepository
	Usage        domain.UsageRepository
	Stats        domain.StatsRepository
	Orchestrator *orchestrator.Orchestrator
	Exporter     *export.Exporter
	Uploads      *storage.FileStore
	GeoIP        geoip.CountryResolver
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) currentUserEmail(r *http.Request) string {
	return middleware.UserEmailFromContext(r.Context())
}

// countryFor resolves the request IP to an ISO country code. Lookups are best
// effort: a missing database or unresolvable address yields an empty string.
func (a *App) countryFor(ip string) string {
	if a.GeoIP == nil {
		return ""
	}
	code, err := a.GeoIP.CountryCode(ip)
	if err != nil {
		return ""
	}
	return code
}
