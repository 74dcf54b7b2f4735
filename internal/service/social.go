package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-featured-image/internal/models"
	"github.com/pribylovaa/go-featured-image/internal/pkg/log"
)

// PageMeta — сведения о странице поста для сборки og/twitter-тегов.
type PageMeta struct {
	Title       string
	Description string
	URL         string
}

// SocialMeta собирает og/twitter-теги поста.
//
// Изображение берётся тем же путём, что и обложка для рендера
// (DisplayImage, включая ленивый резолвинг pending-записей и устаревший
// результат при graceful degradation). Хук ogEnabled может отключить
// теги целиком для конкретного поста.
func (s *Service) SocialMeta(ctx context.Context, postID uuid.UUID, page PageMeta) (*models.SocialMeta, error) {
	const op = "service/social/SocialMeta"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	meta := &models.SocialMeta{
		OGTitle:       page.Title,
		OGDescription: page.Description,
		OGURL:         page.URL,
	}

	if s.ogEnabled != nil && !s.ogEnabled(postID) {
		return meta, nil
	}

	img, err := s.DisplayImage(ctx, postID)
	if err != nil {
		lg.Error("display image lookup failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if img.URL == "" {
		return meta, nil
	}

	meta.OGImage = img.URL
	meta.TwitterCard = "summary_large_image"
	meta.TwitterImage = img.URL

	return meta, nil
}
