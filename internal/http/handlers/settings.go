package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-featured-image/internal/errors"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/service"
)

// settingsResponse — настройки для фронта; ключ только в маскированном виде.
type settingsResponse struct {
	APIKeyMasked  string `json:"api_key_masked"`
	HasAPIKey     bool   `json:"has_api_key"`
	SizePolicy    string `json:"size_policy"`
	CacheTTLValue int    `json:"cache_ttl_value"`
	CacheTTLUnit  string `json:"cache_ttl_unit"`
}

// updateSettingsRequest — тело PUT /settings.
type updateSettingsRequest struct {
	APIKey        string `json:"api_key"`
	SizePolicy    string `json:"size_policy"`
	CacheTTLValue int    `json:"cache_ttl_value"`
	CacheTTLUnit  string `json:"cache_ttl_unit"`
}

func settingsToResponse(v *service.SettingsView) settingsResponse {
	return settingsResponse{
		APIKeyMasked:  v.APIKeyMasked,
		HasAPIKey:     v.HasAPIKey,
		SizePolicy:    string(v.SizePolicy),
		CacheTTLValue: v.CacheTTLValue,
		CacheTTLUnit:  string(v.CacheTTLUnit),
	}
}

// GetSettings — GET /settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Settings(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsToResponse(v))
}

// UpdateSettings — PUT /settings.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	v, err := h.Service.UpdateSettings(r.Context(), service.UpdateSettingsInput{
		APIKey:        req.APIKey,
		SizePolicy:    models.SizePolicy(req.SizePolicy),
		CacheTTLValue: req.CacheTTLValue,
		CacheTTLUnit:  models.TTLUnit(req.CacheTTLUnit),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsToResponse(v))
}
