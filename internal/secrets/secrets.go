// secrets шифрует чувствительные настройки (ключ Flickr API) при хранении.
//
// Схема: AES-256-GCM, ключ — SHA-256 от общесервисного секрета, случайный
// nonce добавляется префиксом к шифртексту, результат кодируется base64.
// Секрет обязателен: запасного "зашитого" ключа нет, пустой секрет — ошибка
// конфигурации, а не тихая деградация стойкости.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyKey — общесервисный секрет не задан.
var ErrEmptyKey = errors.New("site secret key is empty")

// Store выполняет симметричное шифрование с выведенным из секрета ключом.
// Экземпляр безопасен для конкурентного использования.
type Store struct {
	aead cipher.AEAD
}

// New создаёт Store из общесервисного секрета.
func New(siteSecret string) (*Store, error) {
	const op = "secrets.New"

	if siteSecret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyKey)
	}

	key := sha256.Sum256([]byte(siteSecret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{aead: aead}, nil
}

// Encrypt шифрует строку. Пустой вход даёт пустой выход.
// Недетерминирован: каждый вызов использует свежий случайный nonce,
// поэтому два шифртекста одного и того же значения различаются.
func (s *Store) Encrypt(plaintext string) (string, error) {
	const op = "secrets.Encrypt"

	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt расшифровывает строку, полученную из Encrypt.
// Любой некорректный вход (битый base64, короткий payload, ошибка шифра)
// возвращает пустую строку: сбой расшифровки трактуется как
// "секрет не настроен", а не как фатальная ошибка.
func (s *Store) Decrypt(value string) string {
	if value == "" {
		return ""
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return ""
	}

	ns := s.aead.NonceSize()
	if len(data) < ns {
		return ""
	}

	plaintext, err := s.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return ""
	}

	return string(plaintext)
}

// Obscure маскирует секрет для отображения: видны только последние
// 4 символа, строки длиной <= 4 маскируются целиком.
// Результат нельзя скармливать Decrypt — это не шифрование.
func Obscure(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("x", len(runes))
	}

	return strings.Repeat("x", len(runes)-4) + string(runes[len(runes)-4:])
}
