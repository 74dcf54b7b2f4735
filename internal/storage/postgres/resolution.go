package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/storage"
)

// resolutionColumns — единый список колонок таблицы external_images,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const resolutionColumns = `
post_id, source, raw_url, cached_input, chosen_url, original_url, image_kind, photo_id, resolved_at, last_error, updated_at
`

// scanResolution сканирует одну строку состояния резолвинга в доменную
// модель. Резолвленное изображение хранится в nullable-колонках: NULL в
// chosen_url означает отсутствие результата.
func scanResolution(row pgx.Row) (*models.Resolution, error) {
	var res models.Resolution
	var source string
	var chosenURL, originalURL, imageKind, photoID *string
	var resolvedAt *time.Time

	if err := row.Scan(
		&res.PostID,
		&source,
		&res.RawURL,
		&res.CachedInput,
		&chosenURL,
		&originalURL,
		&imageKind,
		&photoID,
		&resolvedAt,
		&res.LastError,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}

	res.Source = models.ParseSourceMode(source)

	if chosenURL != nil && *chosenURL != "" {
		img := models.ResolvedImage{ChosenURL: *chosenURL}
		if originalURL != nil {
			img.OriginalURL = *originalURL
		}
		if imageKind != nil {
			img.Kind = models.ImageKind(*imageKind)
		}
		if photoID != nil {
			img.PhotoID = *photoID
		}
		if resolvedAt != nil {
			img.ResolvedAt = *resolvedAt
		}
		res.Resolved = &img
	}

	return &res, nil
}

// ResolutionByPost возвращает состояние резолвинга для поста.
// Ошибки: storage.ErrNotFound, либо ошибка выполнения запроса.
func (s *Storage) ResolutionByPost(ctx context.Context, postID uuid.UUID) (*models.Resolution, error) {
	const op = "storage/postgres/resolution/ResolutionByPost"

	q := `SELECT ` + resolutionColumns + ` FROM external_images WHERE post_id = $1`

	row := s.db.QueryRow(ctx, q, postID)

	result, err := scanResolution(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// SaveResolution сохраняет состояние резолвинга целиком (upsert по post_id).
func (s *Storage) SaveResolution(ctx context.Context, res *models.Resolution) error {
	const op = "storage/postgres/resolution/SaveResolution"

	var chosenURL, originalURL, imageKind, photoID *string
	var resolvedAt *time.Time

	if res.Resolved != nil {
		chosenURL = &res.Resolved.ChosenURL
		originalURL = &res.Resolved.OriginalURL
		kind := string(res.Resolved.Kind)
		imageKind = &kind
		photoID = &res.Resolved.PhotoID
		at := res.Resolved.ResolvedAt
		resolvedAt = &at
	}

	q := `
	INSERT INTO external_images (post_id, source, raw_url, cached_input, chosen_url, original_url, image_kind, photo_id, resolved_at, last_error, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	ON CONFLICT (post_id) DO UPDATE SET
		source = EXCLUDED.source,
		raw_url = EXCLUDED.raw_url,
		cached_input = EXCLUDED.cached_input,
		chosen_url = EXCLUDED.chosen_url,
		original_url = EXCLUDED.original_url,
		image_kind = EXCLUDED.image_kind,
		photo_id = EXCLUDED.photo_id,
		resolved_at = EXCLUDED.resolved_at,
		last_error = EXCLUDED.last_error,
		updated_at = now()`

	if _, err := s.db.Exec(ctx, q,
		res.PostID,
		string(res.Source),
		res.RawURL,
		res.CachedInput,
		chosenURL,
		originalURL,
		imageKind,
		photoID,
		resolvedAt,
		res.LastError,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteResolution удаляет состояние резолвинга поста.
// Отсутствие записи не считается ошибкой.
func (s *Storage) DeleteResolution(ctx context.Context, postID uuid.UUID) error {
	const op = "storage/postgres/resolution/DeleteResolution"

	q := `DELETE FROM external_images WHERE post_id = $1`

	if _, err := s.db.Exec(ctx, q, postID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
