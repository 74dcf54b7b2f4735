package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-featured-image/internal/errors"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/service"
)

// previewRequest — тело POST /preview.
type previewRequest struct {
	URL    string `json:"url"`
	Policy string `json:"policy,omitempty"`
}

type previewResponse struct {
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	PhotoID   string `json:"photo_id,omitempty"`
	FromCache bool   `json:"from_cache"`
}

// Preview — POST /preview.
// Stateless-резолвинг URL без записи: проверка перед сохранением.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	res, err := h.Service.PreviewResolve(r.Context(), service.PreviewInput{
		RawURL: req.URL,
		Policy: models.SizePolicy(req.Policy),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		URL:       res.URL,
		Kind:      string(res.Kind),
		PhotoID:   res.PhotoID,
		FromCache: res.FromCache,
	})
}
