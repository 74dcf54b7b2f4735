package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-featured-image/internal/errors"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/service"
)

// setExternalImageRequest — тело PUT /posts/{id}/external-image.
type setExternalImageRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// resolutionResponse — представление состояния резолвинга для фронта.
type resolutionResponse struct {
	PostID      string     `json:"post_id"`
	State       string     `json:"state"`
	Source      string     `json:"source"`
	URL         string     `json:"url,omitempty"`
	ResolvedURL string     `json:"resolved_url,omitempty"`
	Kind        string     `json:"kind,omitempty"`
	PhotoID     string     `json:"photo_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func resolutionToResponse(res *models.Resolution) resolutionResponse {
	out := resolutionResponse{
		PostID:    res.PostID.String(),
		State:     string(res.State()),
		Source:    string(res.Source),
		URL:       res.RawURL,
		LastError: res.LastError,
		UpdatedAt: res.UpdatedAt,
	}

	if res.Resolved != nil {
		out.ResolvedURL = res.Resolved.ChosenURL
		out.Kind = string(res.Resolved.Kind)
		out.PhotoID = res.Resolved.PhotoID
		at := res.Resolved.ResolvedAt
		out.ResolvedAt = &at
	}

	return out
}

// postIDParam извлекает и валидирует {id} маршрута.
func postIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errInvalidArgument()
	}

	return id, nil
}

// SetExternalImage — PUT /posts/{id}/external-image.
// Сохраняет источник обложки и сразу запускает резолвинг.
func (h *Handlers) SetExternalImage(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req setExternalImageRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	res, err := h.Service.SetExternalImage(r.Context(), service.SetExternalImageInput{
		PostID: postID,
		Source: models.ParseSourceMode(req.Source),
		RawURL: req.URL,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolutionToResponse(res))
}

// ResolveExternalImage — POST /posts/{id}/external-image/resolve.
// Повторно запускает резолвинг сохранённого источника;
// query-параметр force=true обходит идемпотентное короткое замыкание.
func (h *Handlers) ResolveExternalImage(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		force, err = strconv.ParseBool(v)
		if err != nil {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}
	}

	res, err := h.Service.Resolve(r.Context(), postID, force)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolutionToResponse(res))
}

// GetExternalImage — GET /posts/{id}/external-image.
// Возвращает сохранённое состояние без запуска резолвинга.
func (h *Handlers) GetExternalImage(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.Service.ExternalImage(r.Context(), postID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolutionToResponse(res))
}
