package util

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"file-storage-server/internal/apperr"

	"github.com/jmoiron/sqlx"
)

// ShareTokenLength : длина публичного токена в hex-символах
const ShareTokenLength = 64

// generateRandomToken : генерирует случайный токен длиной length символов
func generateRandomToken(length int) (string, error) {
	byteLength := (length + 1) / 2 // т.к. hex кодирует 1 байт = 2 символа
	bytes := make([]byte, byteLength)

	_, err := rand.Read(bytes)
	if err != nil {
		return "", LogError("[util] ошибка генерации токена", err)
	}

	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateUniqueShareToken : выдаёт токен, которого ещё нет в share_tokens
func GenerateUniqueShareToken(ctx context.Context, exec sqlx.ExtContext) (string, error) {
	for {
		token, err := generateRandomToken(ShareTokenLength)
		if err != nil {
			return "", err
		}

		var exists bool
		err = sqlx.GetContext(ctx, exec, &exists, `
			SELECT EXISTS (SELECT 1 FROM share_tokens WHERE token = $1)
		`, token)
		if err != nil {
			return "", LogError("[util] ошибка проверки токена", err)
		}

		if exists == false {
			return token, nil
		}
	}
}

// ValidateShareToken : проверяет формат публичного токена
func ValidateShareToken(raw string) (string, error) {
	if len(raw) != ShareTokenLength {
		return "", apperr.ErrInvalidID
	}

	normalized := strings.ToLower(raw)
	if _, err := hex.DecodeString(normalized); err != nil {
		return "", apperr.ErrInvalidID
	}

	return normalized, nil
}
