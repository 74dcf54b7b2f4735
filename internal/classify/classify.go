// classify определяет вид пользовательского URL внешней обложки.
// Пакет чистый: без побочных эффектов и сетевых вызовов, корректно
// обрабатывает любые строки (битый URL — это Invalid, а не паника).
package classify

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Result — вид URL.
type Result string

const (
	// Invalid — пустой, не абсолютный, не-HTTPS или нераспознанный URL.
	Invalid Result = "invalid"
	// DirectImage — прямая ссылка на файл изображения (jpg/jpeg/png).
	DirectImage Result = "direct_image"
	// ProviderPage — страница фото на Flickr.
	ProviderPage Result = "provider_page"
)

// flickrPhotoRe распознаёт страницу фото и захватывает числовой идентификатор.
// После цифр допускается только "/" или конец строки; query/fragment не матчатся.
var flickrPhotoRe = regexp.MustCompile(`(?i)^https://(?:www\.)?flickr\.com/photos/[^/]+/([0-9]+)(?:/|$)`)

// imageExtensions — расширения, считающиеся прямой ссылкой на изображение.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Classify относит URL к одному из трёх видов.
func Classify(raw string) Result {
	if !IsHTTPS(raw) {
		return Invalid
	}

	if flickrPhotoRe.MatchString(raw) {
		return ProviderPage
	}

	if isDirectImage(raw) {
		return DirectImage
	}

	return Invalid
}

// PhotoID извлекает идентификатор фото из URL страницы Flickr.
func PhotoID(raw string) (string, bool) {
	m := flickrPhotoRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// IsHTTPS сообщает, что URL абсолютный и использует схему https.
func IsHTTPS(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.Scheme == "https" && u.Host != ""
}

// isDirectImage проверяет расширение пути; query и fragment игнорируются.
func isDirectImage(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	ext := strings.ToLower(path.Ext(u.Path))
	_, ok := imageExtensions[ext]
	return ok
}
