package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-featured-image/internal/flickr"
	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/pkg/log"
	"github.com/pribylovaa/go-featured-image/internal/pkg/redact"
	"github.com/pribylovaa/go-featured-image/internal/secrets"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

// SettingsView — настройки в безопасном для показа виде:
// вместо ключа отдаётся маска с последними четырьмя символами.
type SettingsView struct {
	APIKeyMasked  string
	HasAPIKey     bool
	SizePolicy    models.SizePolicy
	CacheTTLValue int
	CacheTTLUnit  models.TTLUnit
	CacheTTL      time.Duration
}

type UpdateSettingsInput struct {
	// APIKey — ключ открытым текстом. Если значение совпадает с маской
	// текущего ключа (форма отправлена без изменений) — ключ сохраняется
	// прежним. Пустая строка очищает ключ.
	APIKey        string
	SizePolicy    models.SizePolicy
	CacheTTLValue int
	CacheTTLUnit  models.TTLUnit
}

// Settings возвращает текущие настройки с маскированным ключом.
// Если настройки ещё не сохранялись — значения по умолчанию.
func (s *Service) Settings(ctx context.Context) (*SettingsView, error) {
	const op = "service/settings/Settings"

	lg := log.From(ctx).With("op", op)

	st, err := s.loadSettings(ctx)
	if err != nil {
		lg.Error("storage error on Settings", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	apiKey := s.secrets.Decrypt(st.APIKeyEncrypted)

	return &SettingsView{
		APIKeyMasked:  secrets.Obscure(apiKey),
		HasAPIKey:     apiKey != "",
		SizePolicy:    st.SizePolicy,
		CacheTTLValue: st.CacheTTLValue,
		CacheTTLUnit:  st.CacheTTLUnit,
		CacheTTL:      st.CacheTTL,
	}, nil
}

// UpdateSettings валидирует, нормализует и сохраняет настройки.
//
// Нормализация TTL: значение и единица приводятся к длительности;
// неположительный итог заменяется суткам, итог меньше минуты
// поднимается до минуты.
func (s *Service) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*SettingsView, error) {
	const op = "service/settings/UpdateSettings"

	lg := log.From(ctx).With("op", op)

	if !in.SizePolicy.Valid() {
		lg.Warn("invalid argument: unknown size policy", "policy", string(in.SizePolicy))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !in.CacheTTLUnit.Valid() {
		lg.Warn("invalid argument: unknown ttl unit", "unit", string(in.CacheTTLUnit))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	current, err := s.loadSettings(ctx)
	if err != nil {
		lg.Error("storage error on Settings", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	currentKey := s.secrets.Decrypt(current.APIKeyEncrypted)

	// Повторная отправка маски означает «ключ не менялся».
	apiKey := in.APIKey
	if currentKey != "" && apiKey == secrets.Obscure(currentKey) {
		apiKey = currentKey
	}

	encrypted := ""
	if apiKey != "" {
		encrypted, err = s.secrets.Encrypt(apiKey)
		if err != nil {
			lg.Error("api key encryption failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	next := &models.Settings{
		APIKeyEncrypted: encrypted,
		SizePolicy:      in.SizePolicy,
		CacheTTLValue:   in.CacheTTLValue,
		CacheTTLUnit:    in.CacheTTLUnit,
		CacheTTL:        normalizeTTL(in.CacheTTLValue, in.CacheTTLUnit),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.storage.SaveSettings(ctx, next); err != nil {
		lg.Error("storage error on SaveSettings", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("settings updated",
		"api_key", redact.Key(apiKey),
		"policy", string(next.SizePolicy),
		"cache_ttl", next.CacheTTL.String())

	return &SettingsView{
		APIKeyMasked:  secrets.Obscure(apiKey),
		HasAPIKey:     apiKey != "",
		SizePolicy:    next.SizePolicy,
		CacheTTLValue: next.CacheTTLValue,
		CacheTTLUnit:  next.CacheTTLUnit,
		CacheTTL:      next.CacheTTL,
	}, nil
}

// loadSettings возвращает сохранённые настройки либо значения по умолчанию.
func (s *Service) loadSettings(ctx context.Context) (*models.Settings, error) {
	st, err := s.storage.Settings(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.DefaultSettings(), nil
		}

		return nil, err
	}

	return st, nil
}

// providerSettings собирает срез настроек для одного вызова резолвера:
// ключ расшифровывается в память только на время резолвинга.
func (s *Service) providerSettings(ctx context.Context) (flickr.Settings, error) {
	st, err := s.loadSettings(ctx)
	if err != nil {
		return flickr.Settings{}, err
	}

	return flickr.Settings{
		APIKey:   s.secrets.Decrypt(st.APIKeyEncrypted),
		Policy:   st.SizePolicy,
		CacheTTL: st.CacheTTL,
	}, nil
}

// normalizeTTL переводит пару «значение + единица» в длительность
// с принудительными границами: по умолчанию сутки, минимум минута.
func normalizeTTL(value int, unit models.TTLUnit) time.Duration {
	var d time.Duration

	switch unit {
	case models.TTLMinutes:
		d = time.Duration(value) * time.Minute
	case models.TTLHours:
		d = time.Duration(value) * time.Hour
	case models.TTLDays:
		d = time.Duration(value) * 24 * time.Hour
	}

	if d <= 0 {
		return 24 * time.Hour
	}

	if d < time.Minute {
		return time.Minute
	}

	return d
}
