// flickr резолвит URL страницы фото Flickr в прямой URL изображения.
//
// Схема: извлечение photo_id из URL страницы -> проверка кэша ->
// один вызов flickr.photos.getSizes с ограниченным таймаутом ->
// выбор размера по политике -> запись результата в кэш с TTL.
// Повторы внутри одной попытки не выполняются: решение о ретрае
// принимает вызывающий при следующем триггере.
package flickr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pribylovaa/go-featured-image/internal/cache"
	"github.com/pribylovaa/go-featured-image/internal/classify"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/pkg/log"
	"github.com/pribylovaa/go-featured-image/internal/pkg/redact"
)

var (
	// ErrInvalidPhotoURL — из URL не извлекается идентификатор фото.
	// Транспорт: HTTP 400.
	ErrInvalidPhotoURL = errors.New("unable to determine flickr photo id from url")

	// ErrMissingAPIKey — нужен вызов провайдера, но API-ключ не настроен.
	// Транспорт: HTTP 422.
	ErrMissingAPIKey = errors.New("flickr api key is not configured")

	// ErrHTTP — транспортный сбой или не-200 ответ провайдера.
	// Транспорт: HTTP 502.
	ErrHTTP = errors.New("flickr http error")

	// ErrAPI — провайдер ответил, но сигнализировал бизнес-ошибку
	// или прислал пустой список размеров. Транспорт: HTTP 502.
	ErrAPI = errors.New("flickr api error")

	// ErrNoSuitableSize — список размеров есть, но политика ничего не
	// выбрала (в т.ч. когда хук переопределения обнулил выбор).
	// Транспорт: HTTP 502.
	ErrNoSuitableSize = errors.New("no suitable flickr image size")
)

const (
	// DefaultEndpoint — REST-эндпойнт Flickr.
	DefaultEndpoint = "https://www.flickr.com/services/rest/"
	// DefaultTimeout — таймаут вызова провайдера.
	DefaultTimeout = 15 * time.Second
	// DefaultCacheTTL применяется при неположительном настроенном TTL.
	DefaultCacheTTL = 24 * time.Hour
	// MinCacheTTL — нижняя граница TTL кэша.
	MinCacheTTL = time.Minute

	// maxResponseBytes ограничивает читаемое тело ответа провайдера.
	maxResponseBytes = 1 << 20
)

// SizeOverrideFunc позволяет переопределить выбранный URL перед записью
// в кэш. Пустой результат трактуется как «подходящего размера нет».
type SizeOverrideFunc func(chosen string, sizes []Size, photoID string, policy models.SizePolicy) string

// TTLOverrideFunc позволяет переопределить TTL кэша для конкретного фото.
// Неположительный результат заменяется DefaultCacheTTL.
type TTLOverrideFunc func(ttl time.Duration, photoID string) time.Duration

// Settings — расшифрованный срез настроек, нужный для одного резолвинга.
// Открытый APIKey живёт только в памяти на время вызова.
type Settings struct {
	APIKey   string
	Policy   models.SizePolicy
	CacheTTL time.Duration
}

// Result — итог резолвинга страницы фото.
type Result struct {
	URL       string
	PhotoID   string
	FromCache bool
}

// Resolver выполняет резолвинг страниц фото через Flickr API.
// Экземпляр безопасен для конкурентного использования; гонка двух
// вызывающих, одновременно промахнувшихся мимо кэша, допустима —
// в кэше побеждает последняя запись, оба получают корректный URL.
type Resolver struct {
	client   *http.Client
	cache    cache.Cache
	endpoint string

	sizeOverride SizeOverrideFunc
	ttlOverride  TTLOverrideFunc
}

// New создаёт Resolver. Нулевые аргументы заменяются значениями по
// умолчанию (клиент с 15-секундным таймаутом, боевой эндпойнт).
func New(client *http.Client, c cache.Cache) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Resolver{
		client:   client,
		cache:    c,
		endpoint: DefaultEndpoint,
	}
}

// SetEndpoint заменяет эндпойнт провайдера (используется в тестах).
func (r *Resolver) SetEndpoint(endpoint string) {
	if endpoint != "" {
		r.endpoint = endpoint
	}
}

// SetSizeOverride устанавливает хук переопределения выбранного URL.
func (r *Resolver) SetSizeOverride(f SizeOverrideFunc) {
	r.sizeOverride = f
}

// SetTTLOverride устанавливает хук переопределения TTL кэша.
func (r *Resolver) SetTTLOverride(f TTLOverrideFunc) {
	r.ttlOverride = f
}

// Resolve превращает URL страницы фото в прямой URL изображения.
//
// Порядок: извлечение photo_id -> кэш -> (при промахе) проверка ключа ->
// вызов getSizes -> выбор политики -> хук -> запись в кэш.
// Ошибки кэша не фатальны: промах с ошибкой эквивалентен промаху.
func (r *Resolver) Resolve(ctx context.Context, pageURL string, st Settings) (*Result, error) {
	const op = "flickr.Resolve"

	lg := log.From(ctx)

	photoID, ok := classify.PhotoID(pageURL)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPhotoURL)
	}

	policy := st.Policy
	if !policy.Valid() {
		policy = models.PolicyOptimizeSocial
	}

	if r.cache != nil {
		cached, hit, err := r.cache.Get(ctx, photoID, policy)
		if err != nil {
			lg.Warn("cache_get_failed",
				slog.String("op", op),
				slog.String("photo_id", photoID),
				slog.String("err", err.Error()),
			)
		}
		if hit {
			return &Result{URL: cached, PhotoID: photoID, FromCache: true}, nil
		}
	}

	if st.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
	}

	sizes, err := r.fetchSizes(ctx, photoID, st.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	chosen := ChooseBestSize(sizes, policy)
	if chosen == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSuitableSize)
	}

	if r.sizeOverride != nil {
		chosen = r.sizeOverride(chosen, sizes, photoID, policy)
		if chosen == "" {
			return nil, fmt.Errorf("%s: %w: size override returned empty url", op, ErrNoSuitableSize)
		}
	}

	ttl := st.CacheTTL
	if r.ttlOverride != nil {
		ttl = r.ttlOverride(ttl, photoID)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if ttl < MinCacheTTL {
		ttl = MinCacheTTL
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, photoID, policy, chosen, ttl); err != nil {
			lg.Warn("cache_set_failed",
				slog.String("op", op),
				slog.String("photo_id", photoID),
				slog.String("err", err.Error()),
			)
		}
	}

	return &Result{URL: chosen, PhotoID: photoID, FromCache: false}, nil
}

// fetchSizes выполняет один GET flickr.photos.getSizes.
func (r *Resolver) fetchSizes(ctx context.Context, photoID, apiKey string) ([]Size, error) {
	const op = "flickr.fetchSizes"

	lg := log.From(ctx)

	q := url.Values{}
	q.Set("method", "flickr.photos.getSizes")
	q.Set("api_key", apiKey)
	q.Set("photo_id", photoID)
	q.Set("format", "json")
	q.Set("nojsoncallback", "1")

	reqURL := r.endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// Отмена/дедлайн вызывающего — не сбой провайдера.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}

		lg.Warn("provider_http_error",
			slog.String("op", op),
			slog.String("url", redact.URL(reqURL)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %v", op, ErrHTTP, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %w: unexpected status %d", op, ErrHTTP, resp.StatusCode)
	}

	var payload sizesResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: unexpected response body", op, ErrAPI)
	}

	if payload.Stat != "ok" {
		if payload.Message != "" {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrAPI, payload.Message)
		}

		return nil, fmt.Errorf("%s: %w: stat %q", op, ErrAPI, payload.Stat)
	}

	if len(payload.Sizes.Size) == 0 {
		return nil, fmt.Errorf("%s: %w: empty size list", op, ErrAPI)
	}

	return payload.Sizes.Size, nil
}
