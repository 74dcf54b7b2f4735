package flickr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-featured-image/internal/cache"
	"github.com/pribylovaa/go-featured-image/internal/models"
)

const testPageURL = "https://www.flickr.com/photos/someuser/123456789/"

// sizesJSON — типичный ответ getSizes: три фото-размера, у всех
// ширина/высота приходят числами.
const sizesJSON = `{
	"sizes": {
		"size": [
			{"label": "Large", "width": 1600, "height": 900, "source": "https://img.example/a.jpg", "media": "photo"},
			{"label": "Medium", "width": 800, "height": 600, "source": "https://img.example/b.jpg", "media": "photo"},
			{"label": "Original", "width": 2000, "height": 3000, "source": "https://img.example/c.jpg", "media": "photo"}
		]
	},
	"stat": "ok"
}`

func newTestServer(t *testing.T, calls *atomic.Int64, body string, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}

		q := r.URL.Query()
		require.Equal(t, "flickr.photos.getSizes", q.Get("method"))
		require.Equal(t, "test-key", q.Get("api_key"))
		require.Equal(t, "123456789", q.Get("photo_id"))
		require.Equal(t, "json", q.Get("format"))
		require.Equal(t, "1", q.Get("nojsoncallback"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestResolver(srv *httptest.Server, c cache.Cache) *Resolver {
	r := New(srv.Client(), c)
	r.SetEndpoint(srv.URL)

	return r
}

func testSettings() Settings {
	return Settings{
		APIKey:   "test-key",
		Policy:   models.PolicyOptimizeSocial,
		CacheTTL: time.Hour,
	}
}

func TestResolve_OptimizeSocial(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	res, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.NoError(t, err)
	// Приоритет у широкого горизонтального кадра, а не у самого крупного.
	require.Equal(t, "https://img.example/a.jpg", res.URL)
	require.Equal(t, "123456789", res.PhotoID)
	require.False(t, res.FromCache)
}

func TestResolve_LargestAvailable(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	st := testSettings()
	st.Policy = models.PolicyLargestAvailable

	res, err := r.Resolve(context.Background(), testPageURL, st)
	require.NoError(t, err)
	require.Equal(t, "https://img.example/c.jpg", res.URL)
}

func TestResolve_CacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newTestServer(t, &calls, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	ctx := context.Background()

	first, err := r.Resolve(ctx, testPageURL, testSettings())
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := r.Resolve(ctx, testPageURL, testSettings())
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.URL, second.URL)

	require.Equal(t, int64(1), calls.Load())
}

func TestResolve_PolicyIsolatedInCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newTestServer(t, &calls, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	ctx := context.Background()

	social, err := r.Resolve(ctx, testPageURL, testSettings())
	require.NoError(t, err)

	st := testSettings()
	st.Policy = models.PolicyLargestAvailable

	largest, err := r.Resolve(ctx, testPageURL, st)
	require.NoError(t, err)

	require.NotEqual(t, social.URL, largest.URL)
	require.Equal(t, int64(2), calls.Load())
}

func TestResolve_StringDimensions(t *testing.T) {
	t.Parallel()

	// Flickr отдаёт ширину/высоту то числом, то строкой.
	body := `{
		"sizes": {
			"size": [
				{"label": "Large", "width": "1600", "height": "900", "source": "https://img.example/a.jpg", "media": "photo"},
				{"label": "Medium", "width": 800, "height": 600, "source": "https://img.example/b.jpg", "media": "photo"}
			]
		},
		"stat": "ok"
	}`

	srv := newTestServer(t, nil, body, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	res, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.NoError(t, err)
	require.Equal(t, "https://img.example/a.jpg", res.URL)
}

func TestResolve_InvalidPhotoURL(t *testing.T) {
	t.Parallel()

	r := New(nil, cache.NewMemory())

	_, err := r.Resolve(context.Background(), "https://example.com/page", testSettings())
	require.ErrorIs(t, err, ErrInvalidPhotoURL)
}

func TestResolve_MissingAPIKey(t *testing.T) {
	t.Parallel()

	r := New(nil, cache.NewMemory())

	st := testSettings()
	st.APIKey = ""

	_, err := r.Resolve(context.Background(), testPageURL, st)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestResolve_APIError(t *testing.T) {
	t.Parallel()

	body := `{"stat": "fail", "code": 1, "message": "Photo not found"}`

	srv := newTestServer(t, nil, body, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.ErrorIs(t, err, ErrAPI)
	require.Contains(t, err.Error(), "Photo not found")
}

func TestResolve_HTTPStatusError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, "oops", http.StatusBadGateway)
	r := newTestResolver(srv, cache.NewMemory())

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.ErrorIs(t, err, ErrHTTP)
}

func TestResolve_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, "<html>not json</html>", http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.ErrorIs(t, err, ErrAPI)
}

func TestResolve_NoSuitableSize(t *testing.T) {
	t.Parallel()

	// Только видео — политика optimize_social отбрасывает всё.
	body := `{
		"sizes": {
			"size": [
				{"label": "Video Player", "width": 640, "height": 360, "source": "https://img.example/v.mp4", "media": "video"}
			]
		},
		"stat": "ok"
	}`

	srv := newTestServer(t, nil, body, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.ErrorIs(t, err, ErrNoSuitableSize)
}

func TestResolve_SizeOverride(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)

	c := cache.NewMemory()
	r := newTestResolver(srv, c)
	r.SetSizeOverride(func(chosen string, sizes []Size, photoID string, policy models.SizePolicy) string {
		return "https://img.example/override.jpg"
	})

	ctx := context.Background()

	res, err := r.Resolve(ctx, testPageURL, testSettings())
	require.NoError(t, err)
	require.Equal(t, "https://img.example/override.jpg", res.URL)

	// Переопределённый URL попадает и в кэш.
	cached, hit, err := c.Get(ctx, "123456789", models.PolicyOptimizeSocial)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "https://img.example/override.jpg", cached)
}

func TestResolve_SizeOverrideEmpty(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())
	r.SetSizeOverride(func(chosen string, sizes []Size, photoID string, policy models.SizePolicy) string {
		return ""
	})

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.ErrorIs(t, err, ErrNoSuitableSize)
}

func TestResolve_TTLOverride(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, cache.NewMemory())

	var gotTTL time.Duration
	r.SetTTLOverride(func(ttl time.Duration, photoID string) time.Duration {
		gotTTL = ttl
		return 30 * time.Second
	})

	_, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.NoError(t, err)
	require.Equal(t, time.Hour, gotTTL)
}

func TestResolve_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	r := newTestResolver(srv, cache.NewMemory())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Дедлайн вызывающего не маскируется под сбой провайдера.
	_, err := r.Resolve(ctx, testPageURL, testSettings())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrHTTP)
}

func TestResolve_NilCache(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, sizesJSON, http.StatusOK)
	r := newTestResolver(srv, nil)

	res, err := r.Resolve(context.Background(), testPageURL, testSettings())
	require.NoError(t, err)
	require.Equal(t, "https://img.example/a.jpg", res.URL)
}
