package http

// Тесты HTTP-слоя: собираем роутер поверх настоящего сервисного слоя
// с in-memory хранилищем и мок-резолвером, проверяем статусы и тела.
//
// Подготовка окружения:
//   go test ./internal/http -v -race -count=1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-featured-image/internal/config"
	"github.com/pribylovaa/go-featured-image/internal/flickr"
	"github.com/pribylovaa/go-featured-image/internal/secrets"
	"github.com/pribylovaa/go-featured-image/internal/service"
	"github.com/pribylovaa/go-featured-image/internal/storage/memory"
	"github.com/pribylovaa/go-featured-image/mocks"
)

const flickrPageURL = "https://www.flickr.com/photos/someuser/123456789/"

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockResolver) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mr := mocks.NewMockResolver(ctrl)

	sec, err := secrets.New("test-site-secret")
	require.NoError(t, err)

	svc := service.New(memory.New(), mr, sec, config.Config{})

	return NewRouter(svc, Options{}), mr
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetExternalImage_DirectImage_OK(t *testing.T) {
	h, _ := newTestRouter(t)

	postID := uuid.New()
	rr := doJSON(t, h, http.MethodPut, "/posts/"+postID.String()+"/external-image", map[string]string{
		"source": "external",
		"url":    "https://example.com/cover.jpg",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		State       string `json:"state"`
		ResolvedURL string `json:"resolved_url"`
		Kind        string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "resolved", resp.State)
	require.Equal(t, "https://example.com/cover.jpg", resp.ResolvedURL)
	require.Equal(t, "direct", resp.Kind)
}

func TestSetExternalImage_ProviderPage_PendingThenResolve(t *testing.T) {
	h, mr := newTestRouter(t)

	// PUT только сохраняет источник: провайдер не вызывается.
	postID := uuid.New()
	rr := doJSON(t, h, http.MethodPut, "/posts/"+postID.String()+"/external-image", map[string]string{
		"source": "external",
		"url":    flickrPageURL,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		State       string `json:"state"`
		ResolvedURL string `json:"resolved_url"`
		PhotoID     string `json:"photo_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "pending", resp.State)
	require.Equal(t, "", resp.ResolvedURL)

	// Резолвинг выполняется отдельной операцией.
	mr.EXPECT().Resolve(gomock.Any(), flickrPageURL, gomock.Any()).
		Return(&flickr.Result{URL: "https://img.example/large.jpg", PhotoID: "123456789"}, nil)

	rr = doJSON(t, h, http.MethodPost, "/posts/"+postID.String()+"/external-image/resolve", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "resolved", resp.State)
	require.Equal(t, "https://img.example/large.jpg", resp.ResolvedURL)
	require.Equal(t, "123456789", resp.PhotoID)

	// Состояние читается обратно без повторного резолвинга.
	rr = doJSON(t, h, http.MethodGet, "/posts/"+postID.String()+"/external-image", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSetExternalImage_BadPostID(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPut, "/posts/not-a-uuid/external-image", map[string]string{
		"source": "external",
		"url":    "https://example.com/cover.jpg",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestSetExternalImage_UnknownField(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPut, "/posts/"+uuid.NewString()+"/external-image", map[string]string{
		"source":  "external",
		"url":     "https://example.com/cover.jpg",
		"unknown": "field",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResolveExternalImage_NotFound(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPost, "/posts/"+uuid.NewString()+"/external-image/resolve", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResolveExternalImage_Force(t *testing.T) {
	h, mr := newTestRouter(t)

	postID := uuid.New()

	rr := doJSON(t, h, http.MethodPut, "/posts/"+postID.String()+"/external-image", map[string]string{
		"source": "external",
		"url":    flickrPageURL,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	mr.EXPECT().Resolve(gomock.Any(), flickrPageURL, gomock.Any()).
		Return(&flickr.Result{URL: "https://img.example/a.jpg", PhotoID: "123456789"}, nil)
	rr = doJSON(t, h, http.MethodPost, "/posts/"+postID.String()+"/external-image/resolve", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// force=true обращается к провайдеру повторно.
	mr.EXPECT().Resolve(gomock.Any(), flickrPageURL, gomock.Any()).
		Return(&flickr.Result{URL: "https://img.example/fresh.jpg", PhotoID: "123456789"}, nil)
	rr = doJSON(t, h, http.MethodPost, fmt.Sprintf("/posts/%s/external-image/resolve?force=true", postID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ResolvedURL string `json:"resolved_url"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "https://img.example/fresh.jpg", resp.ResolvedURL)
}

func TestPreview_InvalidURL_Unprocessable(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPost, "/preview", map[string]string{
		"url": "http://example.com/insecure.jpg",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "invalid_image_url", resp.Error.Code)
}

func TestPreview_ProviderUnavailable(t *testing.T) {
	h, mr := newTestRouter(t)

	mr.EXPECT().Resolve(gomock.Any(), flickrPageURL, gomock.Any()).
		Return(nil, flickr.ErrHTTP)

	rr := doJSON(t, h, http.MethodPost, "/preview", map[string]string{"url": flickrPageURL})
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestDisplayImage_EmptyWithoutRecord(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodGet, "/posts/"+uuid.NewString()+"/display-image", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "", resp.URL)
}

func TestDisplayImage_LazyResolveAfterSet(t *testing.T) {
	h, mr := newTestRouter(t)

	postID := uuid.New()
	rr := doJSON(t, h, http.MethodPut, "/posts/"+postID.String()+"/external-image", map[string]string{
		"source": "external",
		"url":    flickrPageURL,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Запрос обложки резолвит pending-запись на месте.
	mr.EXPECT().Resolve(gomock.Any(), flickrPageURL, gomock.Any()).
		Return(&flickr.Result{URL: "https://img.example/lazy.jpg", PhotoID: "123456789"}, nil)

	rr = doJSON(t, h, http.MethodGet, "/posts/"+postID.String()+"/display-image", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		URL  string `json:"url"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "https://img.example/lazy.jpg", resp.URL)
	require.Equal(t, "flickr", resp.Kind)

	// Повторный запрос обслуживается из сохранённого состояния.
	rr = doJSON(t, h, http.MethodGet, "/posts/"+postID.String()+"/display-image", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSettings_RoundTrip(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		HasAPIKey    bool   `json:"has_api_key"`
		SizePolicy   string `json:"size_policy"`
		APIKeyMasked string `json:"api_key_masked"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.False(t, got.HasAPIKey)
	require.Equal(t, "optimize_social", got.SizePolicy)

	rr = doJSON(t, h, http.MethodPut, "/settings", map[string]any{
		"api_key":         "abcdefgh12",
		"size_policy":     "largest_available",
		"cache_ttl_value": 30,
		"cache_ttl_unit":  "minutes",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.True(t, got.HasAPIKey)
	require.Equal(t, "largest_available", got.SizePolicy)
	require.Equal(t, "xxxxxxgh12", got.APIKeyMasked)

	// Ключ наружу не возвращается открытым текстом.
	require.NotContains(t, rr.Body.String(), "abcdefgh12")
}

func TestUpdateSettings_InvalidPolicy(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPut, "/settings", map[string]any{
		"size_policy":     "biggest",
		"cache_ttl_value": 1,
		"cache_ttl_unit":  "days",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSocialMeta_OK(t *testing.T) {
	h, _ := newTestRouter(t)

	postID := uuid.New()
	rr := doJSON(t, h, http.MethodPut, "/posts/"+postID.String()+"/external-image", map[string]string{
		"source": "external",
		"url":    "https://example.com/cover.jpg",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/posts/"+postID.String()+"/social-meta?title=Hello&url=https%3A%2F%2Fblog.example%2Fpost", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OGImage     string `json:"og_image"`
		OGTitle     string `json:"og_title"`
		TwitterCard string `json:"twitter_card"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "https://example.com/cover.jpg", resp.OGImage)
	require.Equal(t, "Hello", resp.OGTitle)
	require.Equal(t, "summary_large_image", resp.TwitterCard)
}

func TestRequestID_PropagatedToErrorBody(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/posts/bad/external-image/resolve", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))

	var resp struct {
		Error struct {
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "req-42", resp.Error.RequestID)
}
