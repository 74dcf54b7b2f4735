package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-featured-image/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid_image_url", service.ErrInvalidImageURL, http.StatusUnprocessableEntity, "invalid_image_url"},
		{"missing_api_key", service.ErrMissingAPIKey, http.StatusUnprocessableEntity, "missing_api_key"},
		{"provider_unavailable", service.ErrProviderUnavailable, http.StatusBadGateway, "provider_unavailable"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline_exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"nil", nil, http.StatusInternalServerError, "internal"},
		{"wrapped", fmt.Errorf("service/resolve/Resolve: %w", service.ErrNotFound), http.StatusNotFound, "not_found"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestWriteError_AddsRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rr := httptest.NewRecorder()
	WriteError(rr, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"request_id":"req-42"`)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
