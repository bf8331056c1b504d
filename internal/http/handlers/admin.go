package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"studio/internal/domain"
	"studio/internal/middleware"
)

type creditGrantRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Amount int    `json:"amount"`
}

type userOverviewDTO struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Plan             string `json:"plan"`
	CreditsRemaining int    `json:"creditsRemaining"`
	TotalProjects    int    `json:"totalProjects"`
	CreatedAt        string `json:"createdAt"`
}

type usageEntryDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	ProjectID     string `json:"projectId,omitempty"`
	Action        string `json:"action"`
	CreditsUsed   int    `json:"creditsUsed"`
	SourceAddress string `json:"sourceAddress"`
	Country       string `json:"country,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// requireAdmin gates the admin surface on the configured email allow-list.
func (a *App) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	email := a.currentUserEmail(r)
	if email == "" || !a.Config.IsAdminEmail(email) {
		a.error(w, http.StatusForbidden, "forbidden", "admin access required")
		return false
	}
	return true
}

// AdminStats returns platform-wide aggregates.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	summary, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("admin: stats summary")
		a.error(w, http.StatusInternalServerError, "internal", "stats unavailable")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"totalUsers":     summary.TotalUsers,
		"totalProjects":  summary.TotalProjects,
		"totalCreatives": summary.TotalCreatives,
		"callsLast24h":   summary.CallsLast24h,
	})
}

// AdminListUsers returns a paginated account listing.
func (a *App) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	overviews, err := a.Stats.ListUserOverviews(r.Context(), limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Msg("admin: list users")
		a.error(w, http.StatusInternalServerError, "internal", "listing unavailable")
		return
	}
	out := make([]userOverviewDTO, 0, len(overviews))
	for _, o := range overviews {
		out = append(out, userOverviewDTO{
			ID:               o.ID,
			Email:            o.Email,
			Plan:             string(o.Plan),
			CreditsRemaining: o.CreditsRemaining,
			TotalProjects:    o.TotalProjects,
			CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"users": out, "limit": limit, "offset": offset})
}

// AdminGrantCredits tops up a user's balance and records the grant in the
// usage log.
func (a *App) AdminGrantCredits(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	var req creditGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "id"))
	if userID == "" {
		userID = strings.TrimSpace(req.UserID)
	}
	if userID == "" {
		email := strings.TrimSpace(req.Email)
		if email == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "userId or email required")
			return
		}
		user, err := a.Users.GetByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				a.error(w, http.StatusNotFound, "not_found", "user not found")
				return
			}
			a.Logger.Error().Err(err).Msg("admin: lookup user for grant")
			a.error(w, http.StatusInternalServerError, "internal", "grant failed")
			return
		}
		userID = user.ID
	}

	remaining, err := a.Users.AddCredits(r.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("admin: grant credits")
		a.error(w, http.StatusInternalServerError, "internal", "grant failed")
		return
	}

	sourceIP := middleware.ClientIP(r)
	if err := a.Usage.Append(r.Context(), &domain.UsageLogEntry{
		UserID:        userID,
		Action:        domain.ActionAdminCreditGrant,
		CreditsUsed:   -req.Amount,
		SourceAddress: sourceIP,
		Country:       a.countryFor(sourceIP),
	}); err != nil {
		a.Logger.Error().Err(err).Msg("admin: append usage log")
	}

	a.json(w, http.StatusOK, map[string]any{"userId": userID, "creditsRemaining": remaining})
}

// AdminListLogs returns the newest usage-log entries.
func (a *App) AdminListLogs(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	limit := queryInt(r, "limit", 50)
	entries, err := a.Usage.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("admin: list logs")
		a.error(w, http.StatusInternalServerError, "internal", "logs unavailable")
		return
	}
	out := make([]usageEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, usageEntryDTO{
			ID:            e.ID,
			UserID:        e.UserID,
			ProjectID:     e.ProjectID,
			Action:        e.Action,
			CreditsUsed:   e.CreditsUsed,
			SourceAddress: e.SourceAddress,
			Country:       e.Country,
			CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"logs": out})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
