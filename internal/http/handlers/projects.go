package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studio/internal/domain"
)

type projectDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Style          string `json:"style"`
	Status         string `json:"status"`
	TotalCreatives int    `json:"totalCreatives"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type projectDetailResponse struct {
	Project   projectDTO    `json:"project"`
	Creatives []creativeDTO `json:"creatives"`
}

func projectDTOFrom(p *domain.Project) projectDTO {
	return projectDTO{
		ID:             p.ID,
		Name:           p.Name,
		Style:          p.Style,
		Status:         string(p.Status),
		TotalCreatives: p.TotalCreatives,
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ownedProject loads a project and enforces that it belongs to the
// authenticated user. Foreign projects come back as not found rather than
// forbidden so ids cannot be probed.
func (a *App) ownedProject(w http.ResponseWriter, r *http.Request) *domain.Project {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return nil
	}
	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project id required")
		return nil
	}
	project, err := a.Projects.GetByID(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return nil
		}
		a.Logger.Error().Err(err).Msg("projects: lookup")
		a.error(w, http.StatusInternalServerError, "internal", "lookup failed")
		return nil
	}
	if project.UserID != userID {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return nil
	}
	return project
}

// ListProjects returns the authenticated user's projects, newest first.
func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projects, err := a.Projects.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("projects: list")
		a.error(w, http.StatusInternalServerError, "internal", "list failed")
		return
	}
	out := make([]projectDTO, 0, len(projects))
	for i := range projects {
		out = append(out, projectDTOFrom(&projects[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"projects": out})
}

// GetProject returns one project with its creatives.
func (a *App) GetProject(w http.ResponseWriter, r *http.Request) {
	project := a.ownedProject(w, r)
	if project == nil {
		return
	}
	creatives, err := a.Creatives.ListByProject(r.Context(), project.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("projects: list creatives")
		a.error(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	a.json(w, http.StatusOK, projectDetailResponse{
		Project:   projectDTOFrom(project),
		Creatives: creativeDTOs(creatives),
	})
}

// DeleteProject removes a project and its creatives.
func (a *App) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project := a.ownedProject(w, r)
	if project == nil {
		return
	}
	if err := a.Projects.Delete(r.Context(), project.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		a.Logger.Error().Err(err).Msg("projects: delete")
		a.error(w, http.StatusInternalServerError, "internal", "delete failed")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
