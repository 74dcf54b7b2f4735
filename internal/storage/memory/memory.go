// memory — потокобезопасное in-memory хранилище.
//
// Используется в тестах и при локальном запуске без Postgres.
// Данные живут только в памяти процесса.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

// Storage — in-memory реализация storage.Storage.
type Storage struct {
	mu          sync.RWMutex
	resolutions map[uuid.UUID]*models.Resolution
	settings    *models.Settings
}

// New создаёт пустое in-memory хранилище.
func New() *Storage {
	return &Storage{
		resolutions: make(map[uuid.UUID]*models.Resolution),
	}
}

// ResolutionByPost возвращает копию состояния резолвинга поста.
func (s *Storage) ResolutionByPost(_ context.Context, postID uuid.UUID) (*models.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resolutions[postID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return res.Clone(), nil
}

// SaveResolution сохраняет копию состояния резолвинга.
func (s *Storage) SaveResolution(_ context.Context, res *models.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolutions[res.PostID] = res.Clone()

	return nil
}

// DeleteResolution удаляет состояние резолвинга поста.
func (s *Storage) DeleteResolution(_ context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.resolutions, postID)

	return nil
}

// Settings возвращает копию сохранённых настроек.
func (s *Storage) Settings(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, storage.ErrNotFound
	}

	cp := *s.settings

	return &cp, nil
}

// SaveSettings сохраняет копию настроек.
func (s *Storage) SaveSettings(_ context.Context, st *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	s.settings = &cp

	return nil
}

// Close реализует storage.Storage; освобождать нечего.
func (s *Storage) Close() error {
	return nil
}
