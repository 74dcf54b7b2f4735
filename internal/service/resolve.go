package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-featured-image/internal/classify"
	"github.com/pribylovaa/go-featured-image/internal/flickr"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/pkg/log"
	"github.com/pribylovaa/go-featured-image/internal/pkg/redact"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

// Входные структуры сервисного слоя.
type SetExternalImageInput struct {
	PostID uuid.UUID
	Source models.SourceMode
	RawURL string
}

type PreviewInput struct {
	RawURL string
	// Policy переопределяет политику из настроек; пустое значение —
	// использовать настройку.
	Policy models.SizePolicy
}

// PreviewResult — итог stateless-превью, без записи в хранилище.
type PreviewResult struct {
	URL       string
	Kind      models.ImageKind
	PhotoID   string
	FromCache bool
}

// SetExternalImage сохраняет источник обложки поста и фиксирует итог
// классификации. Сетевых вызовов не делает: страница провайдера
// сохраняется в состоянии pending, обращение к провайдеру выполняют
// только Resolve и ленивый DisplayImage.
//
// Валидация:
//   - postID не должен быть нулевым (uuid.Nil) — иначе ErrInvalidArgument;
//   - source должен быть известным режимом — иначе ErrInvalidArgument.
//
// Поведение:
//   - source != external удаляет запись целиком;
//   - пустой URL переводит пост в состояние «без внешней обложки»;
//   - некорректный URL фиксируется как Failed, прежний результат очищается;
//   - прямая ссылка на изображение резолвится локально без сети;
//   - страница провайдера с тем же входом, что и действующий результат,
//     оставляет результат в силе (идемпотентность), иначе — pending.
func (s *Service) SetExternalImage(ctx context.Context, in SetExternalImageInput) (*models.Resolution, error) {
	const op = "service/resolve/SetExternalImage"

	lg := log.From(ctx).With("op", op, "post_id", in.PostID.String())

	if in.PostID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Source != models.SourceMedia && in.Source != models.SourceExternal {
		lg.Warn("invalid argument: unknown source mode", "source", string(in.Source))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	prior, err := s.storage.ResolutionByPost(ctx, in.PostID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		lg.Error("storage error on ResolutionByPost", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return s.record(ctx, prior, in.PostID, in.Source, strings.TrimSpace(in.RawURL))
}

// Resolve повторно запускает резолвинг сохранённого источника поста.
// force=true игнорирует идемпотентное короткое замыкание и заставляет
// обратиться к провайдеру заново (кэш размеров при этом остаётся в силе).
//
// Ошибки: ErrNotFound, если источник для поста не сохранялся.
func (s *Service) Resolve(ctx context.Context, postID uuid.UUID, force bool) (*models.Resolution, error) {
	const op = "service/resolve/Resolve"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	prior, err := s.storage.ResolutionByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("resolution not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on ResolutionByPost", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return s.apply(ctx, prior, postID, prior.Source, prior.RawURL, force)
}

// ExternalImage возвращает сохранённое состояние резолвинга поста,
// не запуская резолвинг.
//
// Ошибки: ErrNotFound, если источник для поста не сохранялся.
func (s *Service) ExternalImage(ctx context.Context, postID uuid.UUID) (*models.Resolution, error) {
	const op = "service/resolve/ExternalImage"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	res, err := s.storage.ResolutionByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on ResolutionByPost", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return res, nil
}

// record — машина состояний без сети. Страницы провайдера фиксируются
// как pending (либо остаются resolved при неизменном входе), остальные
// виды входа обрабатываются так же, как в apply: до провайдера они не
// доходят.
func (s *Service) record(ctx context.Context, prior *models.Resolution, postID uuid.UUID, source models.SourceMode, rawURL string) (*models.Resolution, error) {
	const op = "service/resolve/record"

	if source == models.SourceExternal && classify.Classify(rawURL) == classify.ProviderPage {
		lg := log.From(ctx).With("op", op, "post_id", postID.String())

		// Тот же вход уже успешно резолвлен — результат остаётся в силе.
		if prior != nil && prior.Resolved != nil && prior.CachedInput == rawURL && prior.LastError == "" {
			return prior, nil
		}

		next := &models.Resolution{
			PostID:    postID,
			Source:    source,
			RawURL:    rawURL,
			UpdatedAt: time.Now().UTC(),
		}

		return s.save(ctx, lg, next)
	}

	return s.apply(ctx, prior, postID, source, rawURL, false)
}

// apply — машина состояний резолвинга. Классифицирует вход, выполняет
// необходимую работу и сохраняет итоговое состояние.
//
// Отмена контекста при обращении к провайдеру не затирает сохранённое
// состояние: ошибка возвращается вызывающему как есть.
func (s *Service) apply(ctx context.Context, prior *models.Resolution, postID uuid.UUID, source models.SourceMode, rawURL string, force bool) (*models.Resolution, error) {
	const op = "service/resolve/apply"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	now := time.Now().UTC()

	next := &models.Resolution{
		PostID:    postID,
		Source:    source,
		RawURL:    rawURL,
		UpdatedAt: now,
	}

	// Возврат к медиатеке удаляет запись целиком: и URL, и результат.
	if source != models.SourceExternal {
		next.RawURL = ""

		if err := s.storage.DeleteResolution(ctx, postID); err != nil {
			lg.Error("storage error on DeleteResolution", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		return next, nil
	}

	// Внешний режим без URL: резолвить нечего, прежний результат очищается.
	if rawURL == "" {
		return s.save(ctx, lg, next)
	}

	switch classify.Classify(rawURL) {
	case classify.Invalid:
		// URL сохраняется для показа администратору, результат сбрасывается.
		lg.Warn("invalid image url", "url", redact.URL(rawURL))
		next.LastError = "invalid image url"

		return s.save(ctx, lg, next)

	case classify.DirectImage:
		next.CachedInput = rawURL
		next.Resolved = &models.ResolvedImage{
			ChosenURL:   rawURL,
			OriginalURL: rawURL,
			Kind:        models.ImageKindDirect,
			ResolvedAt:  now,
		}

		return s.save(ctx, lg, next)
	}

	// Страница провайдера.
	//
	// Идемпотентное короткое замыкание: тот же вход уже успешно
	// резолвлен — без force провайдер не вызывается повторно.
	if !force && prior != nil && prior.Resolved != nil && prior.CachedInput == rawURL && prior.LastError == "" {
		return prior, nil
	}

	if d := s.cfg.Timeouts.Service; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	pset, err := s.providerSettings(ctx)
	if err != nil {
		lg.Error("settings load failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	res, err := s.resolver.Resolve(ctx, rawURL, pset)
	if err != nil {
		// Отмена/таймаут вызывающего — не доменный сбой: состояние
		// не перезаписывается.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		lg.Warn("provider resolve failed", "url", redact.URL(rawURL), "err", err)

		// Graceful degradation: при наличии прежнего результата он
		// сохраняется вместе с текстом ошибки.
		if prior != nil && prior.Resolved != nil {
			keep := *prior.Resolved
			next.Resolved = &keep
			next.CachedInput = prior.CachedInput
		}
		next.LastError = resolveErrorText(err)

		return s.save(ctx, lg, next)
	}

	next.CachedInput = rawURL
	next.Resolved = &models.ResolvedImage{
		ChosenURL:   res.URL,
		OriginalURL: rawURL,
		Kind:        models.ImageKindFlickr,
		PhotoID:     res.PhotoID,
		ResolvedAt:  now,
	}

	return s.save(ctx, lg, next)
}

// save сохраняет состояние и маппит ошибку хранилища в ErrInternal.
func (s *Service) save(ctx context.Context, lg *slog.Logger, next *models.Resolution) (*models.Resolution, error) {
	const op = "service/resolve/save"

	if err := s.storage.SaveResolution(ctx, next); err != nil {
		lg.Error("storage error on SaveResolution", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return next, nil
}

// PreviewResolve выполняет stateless-резолвинг URL без записи в хранилище.
// Используется админкой для проверки URL перед сохранением.
func (s *Service) PreviewResolve(ctx context.Context, in PreviewInput) (*PreviewResult, error) {
	const op = "service/resolve/PreviewResolve"

	lg := log.From(ctx).With("op", op)

	rawURL := strings.TrimSpace(in.RawURL)
	if rawURL == "" {
		lg.Warn("invalid argument: empty url")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	switch classify.Classify(rawURL) {
	case classify.Invalid:
		lg.Warn("invalid image url", "url", redact.URL(rawURL))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidImageURL)

	case classify.DirectImage:
		return &PreviewResult{URL: rawURL, Kind: models.ImageKindDirect}, nil
	}

	if d := s.cfg.Timeouts.Service; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	pset, err := s.providerSettings(ctx)
	if err != nil {
		lg.Error("settings load failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if in.Policy.Valid() {
		pset.Policy = in.Policy
	}

	res, err := s.resolver.Resolve(ctx, rawURL, pset)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if errors.Is(err, flickr.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
		}

		lg.Warn("provider resolve failed", "url", redact.URL(rawURL), "err", err)

		return nil, fmt.Errorf("%s: %w: %s", op, ErrProviderUnavailable, resolveErrorText(err))
	}

	return &PreviewResult{
		URL:       res.URL,
		Kind:      models.ImageKindFlickr,
		PhotoID:   res.PhotoID,
		FromCache: res.FromCache,
	}, nil
}

// DisplayImage возвращает изображение для показа на фронте.
//
// Если источник внешний, но резолвинг ещё не выполнялся (pending) —
// выполняется ленивый резолвинг на месте. Пост без сохранённого
// источника или в режиме медиатеки отдаёт пустой URL: показ обложки
// остаётся за штатным механизмом.
func (s *Service) DisplayImage(ctx context.Context, postID uuid.UUID) (*models.DisplayImage, error) {
	const op = "service/resolve/DisplayImage"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	res, err := s.storage.ResolutionByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.DisplayImage{}, nil
		}

		lg.Error("storage error on ResolutionByPost", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if res.State() == models.StatePending {
		resolved, err := s.apply(ctx, res, postID, res.Source, res.RawURL, false)
		if err != nil {
			return nil, err
		}
		res = resolved
	}

	out := &models.DisplayImage{LastError: res.LastError}

	if res.Resolved != nil {
		out.URL = res.Resolved.ChosenURL
		out.Kind = res.Resolved.Kind

		if s.thumbnailAttrs != nil {
			out.Attrs = s.thumbnailAttrs(postID, out.URL)
		}
	}

	return out, nil
}

// resolveErrorText превращает ошибку резолвера в короткий текст для
// поля last_error. Тексты стабильны и пригодны для показа администратору.
func resolveErrorText(err error) string {
	switch {
	case errors.Is(err, flickr.ErrMissingAPIKey):
		return "flickr api key is not configured"
	case errors.Is(err, flickr.ErrNoSuitableSize):
		return "no suitable image size"
	case errors.Is(err, flickr.ErrInvalidPhotoURL):
		return "invalid image url"
	case errors.Is(err, flickr.ErrAPI):
		return "flickr api error"
	case errors.Is(err, flickr.ErrHTTP):
		return "flickr request failed"
	default:
		return "resolve failed"
	}
}
