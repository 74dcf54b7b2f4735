// service содержит бизнес-логику сервиса внешних обложек:
// машину состояний резолвинга, превью, настройки и социальные мета-теги.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-featured-image/internal/config"
	"github.com/pribylovaa/go-featured-image/internal/flickr"
	"github.com/pribylovaa/go-featured-image/internal/secrets"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность отсутствует.
	// Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidImageURL — URL не классифицируется ни как прямая
	// ссылка на изображение, ни как страница поддерживаемого провайдера.
	// Транспорт: HTTP 422.
	ErrInvalidImageURL = errors.New("invalid image url")
	// ErrMissingAPIKey — резолвинг требует вызова провайдера,
	// но API-ключ не настроен. Транспорт: HTTP 422.
	ErrMissingAPIKey = errors.New("provider api key is not configured")
	// ErrProviderUnavailable — провайдер недоступен или ответил ошибкой.
	// Транспорт: HTTP 502.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInternal - внутренняя ошибка (storage/шифрование и т.п.).
	// Транспорт: HTTP 500.
	ErrInternal = errors.New("internal error")
)

// Resolver описывает абстракцию резолвера страниц фото провайдера.
//
// Требования к реализации:
// 1) Реализация обязана уважать ctx (отмена/таймауты).
// 2) Повторный вызов с тем же URL и политикой должен обслуживаться
// из кэша реализации, пока TTL не истёк.
// 3) Доменные сбои сигнализируются сентинельными ошибками пакета flickr.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string, st flickr.Settings) (*flickr.Result, error)
}

// ThumbnailAttrsFunc возвращает дополнительные HTML-атрибуты
// для тега изображения конкретного поста (alt, class и т.п.).
type ThumbnailAttrsFunc func(postID uuid.UUID, imageURL string) map[string]string

// OGEnabledFunc позволяет отключить вывод og/twitter-тегов для поста.
type OGEnabledFunc func(postID uuid.UUID) bool

// Service — описывает бизнес-логику сервиса внешних обложек.
type Service struct {
	storage  storage.Storage
	resolver Resolver
	secrets  *secrets.Store
	cfg      config.Config

	thumbnailAttrs ThumbnailAttrsFunc
	ogEnabled      OGEnabledFunc
}

// New создает новый экземпляр Service.
func New(st storage.Storage, resolver Resolver, sec *secrets.Store, cfg config.Config) *Service {
	return &Service{
		storage:  st,
		resolver: resolver,
		secrets:  sec,
		cfg:      cfg,
	}
}

// SetThumbnailAttrs устанавливает хук дополнительных атрибутов изображения.
func (s *Service) SetThumbnailAttrs(f ThumbnailAttrsFunc) {
	s.thumbnailAttrs = f
}

// SetOGEnabled устанавливает хук включения og/twitter-тегов.
func (s *Service) SetOGEnabled(f OGEnabledFunc) {
	s.ogEnabled = f
}
