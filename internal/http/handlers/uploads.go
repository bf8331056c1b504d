package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

const maxUploadBytes = 50 << 20

var uploadExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Upload stores a reference asset (logo or product shot) and returns the key
// callers pass back on generation requests.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Uploads == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "uploads are not enabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := uploadExtensions[contentType]
	if !ok {
		a.error(w, http.StatusBadRequest, "unsupported_type", "only png, jpeg, and webp uploads are accepted")
		return
	}

	key := "uploads/" + userID + "/" + uuid.NewString() + ext
	storedKey, err := a.Uploads.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("upload: write file")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store upload")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"key":         storedKey,
		"filename":    header.Filename,
		"contentType": contentType,
		"bytes":       len(data),
	})
}
