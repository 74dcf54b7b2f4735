// cache — кэш результатов выбора размера у провайдера.
//
// Ключ — пара (photo_id, политика размера): одну страницу фото могут
// использовать много записей, и кэш гасит повторные вызовы Flickr API.
// Кэш советующий: потеря всех записей (рестарт in-memory бэкенда) ведёт
// лишь к дополнительным вызовам провайдера, но не к неверным результатам.
// Просроченные записи лениво читаются как отсутствующие; фонового
// вычищения нет.
package cache

import (
	"context"
	"time"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

// Cache — минимальный контракт кэша выбранных URL.
type Cache interface {
	// Get возвращает URL и признак его наличия в кэше.
	Get(ctx context.Context, photoID string, policy models.SizePolicy) (string, bool, error)
	// Set сохраняет URL с TTL.
	Set(ctx context.Context, photoID string, policy models.SizePolicy, url string, ttl time.Duration) error
	// Close освобождает ресурсы бэкенда.
	Close() error
}

// key строит ключ записи. Идентификатор фото числовой, политика — enum,
// поэтому простая конкатенация безопасна и читаема в redis-cli.
func key(prefix, photoID string, policy models.SizePolicy) string {
	return prefix + photoID + ":" + string(policy)
}
