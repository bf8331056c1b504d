package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"studio/internal/domain"
	"studio/internal/middleware"
)

// DownloadProject streams the project's creatives as a ZIP archive. A project
// without stored creatives is treated as not found.
func (a *App) DownloadProject(w http.ResponseWriter, r *http.Request) {
	project := a.ownedProject(w, r)
	if project == nil {
		return
	}

	creatives, err := a.Creatives.ListByProject(r.Context(), project.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("download: list creatives")
		a.error(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	if len(creatives) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "project has no creatives")
		return
	}

	archive, err := a.Exporter.BuildArchive(r.Context(), creatives)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", project.ID).Msg("download: build archive")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	sourceIP := middleware.ClientIP(r)
	if err := a.Usage.Append(r.Context(), &domain.UsageLogEntry{
		UserID:        project.UserID,
		ProjectID:     project.ID,
		Action:        domain.ActionDownloadCreatives,
		CreditsUsed:   0,
		SourceAddress: sourceIP,
		Country:       a.countryFor(sourceIP),
	}); err != nil {
		a.Logger.Error().Err(err).Msg("download: append usage log")
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=creatives-%s.zip", project.ID))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
