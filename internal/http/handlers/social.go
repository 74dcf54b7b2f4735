package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-featured-image/internal/errors"
	"github.com/pribylovaa/go-featured-image/internal/service"
)

type socialMetaResponse struct {
	OGImage       string `json:"og_image,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGURL         string `json:"og_url,omitempty"`
	TwitterCard   string `json:"twitter_card,omitempty"`
	TwitterImage  string `json:"twitter_image,omitempty"`
}

// SocialMeta — GET /posts/{id}/social-meta.
// Сведения о странице приходят query-параметрами: title, description, url.
func (h *Handlers) SocialMeta(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()

	meta, err := h.Service.SocialMeta(r.Context(), postID, service.PageMeta{
		Title:       q.Get("title"),
		Description: q.Get("description"),
		URL:         q.Get("url"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, socialMetaResponse{
		OGImage:       meta.OGImage,
		OGTitle:       meta.OGTitle,
		OGDescription: meta.OGDescription,
		OGURL:         meta.OGURL,
		TwitterCard:   meta.TwitterCard,
		TwitterImage:  meta.TwitterImage,
	})
}
