package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-featured-image/internal/errors"
)

type displayImageResponse struct {
	URL       string            `json:"url"`
	Kind      string            `json:"kind,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	LastError string            `json:"last_error,omitempty"`
}

// DisplayImage — GET /posts/{id}/display-image.
// Возвращает изображение для показа; пустой url означает откат
// на штатную обложку хост-системы.
func (h *Handlers) DisplayImage(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	img, err := h.Service.DisplayImage(r.Context(), postID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, displayImageResponse{
		URL:       img.URL,
		Kind:      string(img.Kind),
		Attrs:     img.Attrs,
		LastError: img.LastError,
	})
}
