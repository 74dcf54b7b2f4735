// redact — маскирование чувствительных значений в логах.
package redact

import "strings"

// Key маскирует API-ключ для логов: видны только последние 4 символа.
// Короткие значения (<= 4) маскируются целиком.
func Key(s string) string {
	if s == "" {
		return "***"
	}

	runes := []rune(s)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}

	return "***" + string(runes[len(runes)-4:])
}

// URL маскирует query-часть URL (туда попадает api_key при вызове провайдера).
func URL(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i] + "?***"
	}

	return s
}
