package util

import (
	"encoding/hex"
	"strings"

	"file-storage-server/internal/apperr"

	"github.com/google/uuid"
)

// IDLength : канонический идентификатор — 32 hex-символа (16 байт uuid)
const IDLength = 32

// NewID : генерирует новый канонический идентификатор
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ValidateID : проверяет формат идентификатора до любого обращения к БД.
// Некорректная форма — это ErrInvalidID (ответ 400), а не "не найдено":
// иначе битый идентификатор всплывал бы из хранилища как 404
func ValidateID(raw string) (string, error) {
	if len(raw) != IDLength {
		return "", apperr.ErrInvalidID
	}

	normalized := strings.ToLower(raw)
	if _, err := hex.DecodeString(normalized); err != nil {
		return "", apperr.ErrInvalidID
	}

	return normalized, nil
}
