// models содержит доменные сущности сервиса внешних обложек.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceMode — источник обложки записи.
type SourceMode string

const (
	// SourceMedia — обложка из медиатеки хост-системы; внешний резолвинг не выполняется.
	SourceMedia SourceMode = "media"
	// SourceExternal — обложка по внешнему URL (прямая ссылка или страница Flickr).
	SourceExternal SourceMode = "external"
)

// ParseSourceMode нормализует произвольную строку к допустимому режиму.
// Всё, что не "external", трактуется как "media".
func ParseSourceMode(s string) SourceMode {
	if s == string(SourceExternal) {
		return SourceExternal
	}

	return SourceMedia
}

// SizePolicy — правило выбора одного размера из списка, который вернул провайдер.
type SizePolicy string

const (
	// PolicyOptimizeSocial — кандидаты media=photo с непустым source;
	// предпочтение ширине >= 1200 при width >= height (альбомная ориентация).
	PolicyOptimizeSocial SizePolicy = "optimize_social"
	// PolicyLargestAvailable — просто самый широкий размер без фильтрации.
	PolicyLargestAvailable SizePolicy = "largest_available"
)

// Valid сообщает, является ли значение известной политикой.
func (p SizePolicy) Valid() bool {
	return p == PolicyOptimizeSocial || p == PolicyLargestAvailable
}

// ImageKind — вид разрешённого изображения.
type ImageKind string

const (
	// ImageKindDirect — прямой URL файла изображения; используется как есть.
	ImageKindDirect ImageKind = "direct"
	// ImageKindFlickr — изображение, полученное через Flickr API по URL страницы фото.
	ImageKindFlickr ImageKind = "flickr"
)

// ResolvedImage — результат успешного резолвинга для одной записи.
// Перезаписывается целиком при каждом повторном резолвинге, никогда не сливается.
type ResolvedImage struct {
	// ChosenURL — итоговый URL изображения для показа.
	ChosenURL string
	// OriginalURL — введённый пользователем URL, из которого получен ChosenURL.
	OriginalURL string
	// Kind — direct или flickr.
	Kind ImageKind
	// PhotoID — идентификатор фото у провайдера; пуст для direct.
	PhotoID string
	// ResolvedAt — момент резолвинга (UTC).
	ResolvedAt time.Time
}

// ResolutionState — фаза жизненного цикла внешней обложки записи.
type ResolutionState string

const (
	// StateNoExternalImage — внешняя обложка не настроена.
	StateNoExternalImage ResolutionState = "no_external_image"
	// StatePending — URL задан, но резолвинг ещё не выполнялся.
	StatePending ResolutionState = "pending"
	// StateResolved — есть действующий результат (возможно, устаревший при LastError != "").
	StateResolved ResolutionState = "resolved"
	// StateFailed — последняя попытка неуспешна и показать нечего.
	StateFailed ResolutionState = "failed"
)

// Resolution — агрегированное состояние резолвинга одной записи (post).
//
// Инварианты:
//   - Source == external и RawURL != "" — иначе состояние NoExternalImage;
//   - LastError != "" не исключает Resolved != nil: при сбое провайдера
//     сохраняется последний рабочий результат (graceful degradation);
//   - CachedInput — RawURL, для которого получен Resolved; совпадение с текущим
//     RawURL при пустом LastError позволяет пропустить повторный резолвинг.
type Resolution struct {
	// PostID — идентификатор записи в хост-системе.
	PostID uuid.UUID
	// Source — media или external.
	Source SourceMode
	// RawURL — URL, введённый в редакторе.
	RawURL string
	// CachedInput — входной URL, давший текущий Resolved.
	CachedInput string
	// Resolved — последний успешный результат; nil, если его не было.
	Resolved *ResolvedImage
	// LastError — сообщение последней неуспешной попытки; пусто при успехе.
	LastError string
	// UpdatedAt — момент последнего изменения состояния (UTC).
	UpdatedAt time.Time
}

// State выводит фазу состояния из содержимого.
func (r *Resolution) State() ResolutionState {
	switch {
	case r == nil, r.Source != SourceExternal, r.RawURL == "":
		return StateNoExternalImage
	case r.Resolved != nil:
		return StateResolved
	case r.LastError != "":
		return StateFailed
	default:
		return StatePending
	}
}

// Clone возвращает глубокую копию состояния.
// Хранилища отдают и принимают копии, чтобы вызывающие не делили память.
func (r *Resolution) Clone() *Resolution {
	if r == nil {
		return nil
	}

	out := *r
	if r.Resolved != nil {
		img := *r.Resolved
		out.Resolved = &img
	}

	return &out
}

// TTLUnit — единица измерения TTL кэша в настройках.
type TTLUnit string

const (
	TTLMinutes TTLUnit = "minutes"
	TTLHours   TTLUnit = "hours"
	TTLDays    TTLUnit = "days"
)

// Valid сообщает, является ли значение известной единицей.
func (u TTLUnit) Valid() bool {
	return u == TTLMinutes || u == TTLHours || u == TTLDays
}

// Settings — общесервисные настройки интеграции с Flickr.
//
// APIKeyEncrypted хранит ключ в зашифрованном виде (secrets.Store);
// открытый текст существует только в памяти на время вызова провайдера.
type Settings struct {
	// APIKeyEncrypted — ключ Flickr API, зашифрованный при записи.
	APIKeyEncrypted string
	// SizePolicy — политика выбора размера по умолчанию.
	SizePolicy SizePolicy
	// CacheTTLValue и CacheTTLUnit — значение TTL так, как его ввёл администратор.
	CacheTTLValue int
	CacheTTLUnit  TTLUnit
	// CacheTTL — нормализованный TTL (минимум минута, по умолчанию сутки).
	CacheTTL time.Duration
	// UpdatedAt — момент последнего изменения (UTC).
	UpdatedAt time.Time
}

// DefaultSettings — настройки до первого сохранения администратором.
func DefaultSettings() *Settings {
	return &Settings{
		SizePolicy:    PolicyOptimizeSocial,
		CacheTTLValue: 24,
		CacheTTLUnit:  TTLHours,
		CacheTTL:      24 * time.Hour,
	}
}

// DisplayImage — данные для отображения обложки потребителем (рендер, соцразметка).
type DisplayImage struct {
	// URL — итоговый URL изображения.
	URL string
	// Kind — direct или flickr.
	Kind ImageKind
	// Attrs — атрибуты тега <img>; базовый набор может быть переопределён хуком.
	Attrs map[string]string
	// LastError — сообщение последней ошибки резолвинга, если показывается
	// устаревший результат; для оператора, не для конечного пользователя.
	LastError string
}

// SocialMeta — значения мета-тегов Open Graph / Twitter для записи.
type SocialMeta struct {
	OGImage       string
	TwitterCard   string
	TwitterImage  string
	OGTitle       string
	OGDescription string
	OGURL         string
}
