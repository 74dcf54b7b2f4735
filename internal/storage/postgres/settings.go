package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

// Настройки хранятся единственной строкой с фиксированным id = 1.
const settingsRowID = 1

// Settings возвращает сохранённые настройки сервиса.
// Ошибки: storage.ErrNotFound, либо ошибка выполнения запроса.
func (s *Storage) Settings(ctx context.Context) (*models.Settings, error) {
	const op = "storage/postgres/settings/Settings"

	q := `
	SELECT api_key_encrypted, size_policy, cache_ttl_value, cache_ttl_unit, cache_ttl_ns, updated_at
	FROM plugin_settings WHERE id = $1`

	var st models.Settings
	var policy, unit string
	var ttlNS int64

	err := s.db.QueryRow(ctx, q, settingsRowID).Scan(
		&st.APIKeyEncrypted,
		&policy,
		&st.CacheTTLValue,
		&unit,
		&ttlNS,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st.SizePolicy = models.SizePolicy(policy)
	st.CacheTTLUnit = models.TTLUnit(unit)
	st.CacheTTL = time.Duration(ttlNS)

	return &st, nil
}

// SaveSettings сохраняет настройки сервиса (upsert единственной строки).
func (s *Storage) SaveSettings(ctx context.Context, st *models.Settings) error {
	const op = "storage/postgres/settings/SaveSettings"

	q := `
	INSERT INTO plugin_settings (id, api_key_encrypted, size_policy, cache_ttl_value, cache_ttl_unit, cache_ttl_ns, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (id) DO UPDATE SET
		api_key_encrypted = EXCLUDED.api_key_encrypted,
		size_policy = EXCLUDED.size_policy,
		cache_ttl_value = EXCLUDED.cache_ttl_value,
		cache_ttl_unit = EXCLUDED.cache_ttl_unit,
		cache_ttl_ns = EXCLUDED.cache_ttl_ns,
		updated_at = now()`

	if _, err := s.db.Exec(ctx, q,
		settingsRowID,
		st.APIKeyEncrypted,
		string(st.SizePolicy),
		st.CacheTTLValue,
		string(st.CacheTTLUnit),
		int64(st.CacheTTL),
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
