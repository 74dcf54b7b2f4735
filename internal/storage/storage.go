// storage описывает контракт персистентного слоя сервиса.
//
// Поддерживаются две реализации: postgres (боевая) и in-memory
// (тесты и локальный запуск без базы).
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

// Ошибки уровня хранилища.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
)

// Storage — контракт хранилища состояний резолвинга и настроек.
type Storage interface {
	// ResolutionByPost возвращает состояние резолвинга для поста.
	// Если записи нет — ErrNotFound.
	ResolutionByPost(ctx context.Context, postID uuid.UUID) (*models.Resolution, error)

	// SaveResolution сохраняет состояние резолвинга (insert или update).
	SaveResolution(ctx context.Context, res *models.Resolution) error

	// DeleteResolution удаляет состояние резолвинга поста.
	// Отсутствие записи не считается ошибкой.
	DeleteResolution(ctx context.Context, postID uuid.UUID) error

	// Settings возвращает настройки сервиса.
	// Если настройки ещё не сохранялись — ErrNotFound.
	Settings(ctx context.Context) (*models.Settings, error)

	// SaveSettings сохраняет настройки сервиса.
	SaveSettings(ctx context.Context, s *models.Settings) error

	// Close освобождает ресурсы хранилища.
	Close() error
}
