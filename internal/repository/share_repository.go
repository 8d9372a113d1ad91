package repository

import (
	"context"
	"database/sql"
	"errors"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type ShareRepository struct {
	*config.Database
}

func NewShareRepository(database *config.Database) *ShareRepository {
	return &ShareRepository{database}
}

// Create : сохраняет выпущенный публичный токен
func (r *ShareRepository) Create(ctx context.Context, exec sqlx.ExtContext, share *model.ShareToken) error {
	query := `
		INSERT INTO share_tokens (token, file_uuid, owner_uuid, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := exec.ExecContext(ctx, query, share.Token, share.FileUUID, share.OwnerUUID, share.IssuedAt, share.ExpiresAt)
	if err != nil {
		return util.LogError("[ShareRepo] не удалось сохранить токен", err)
	}
	return nil
}

// GetByToken : возвращает запись токена как есть; срок действия и состояние
// файла проверяет сервис в момент обращения
func (r *ShareRepository) GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ShareToken, error) {
	query := `
		SELECT token, file_uuid, owner_uuid, issued_at, expires_at
		FROM share_tokens
		WHERE token = $1
	`

	var share model.ShareToken
	err := sqlx.GetContext(ctx, exec, &share, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &share, nil
}

// Delete : отзыв токена владельцем до истечения срока
func (r *ShareRepository) Delete(ctx context.Context, exec sqlx.ExtContext, token string, ownerUUID string) (int64, error) {
	query := `DELETE FROM share_tokens WHERE token = $1 AND owner_uuid = $2`

	result, err := exec.ExecContext(ctx, query, token, ownerUUID)
	if err != nil {
		return 0, util.LogError("[ShareRepo] не удалось отозвать токен", err)
	}
	return result.RowsAffected()
}

// DeleteAllForFile : каскад при purge файла
func (r *ShareRepository) DeleteAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM share_tokens WHERE file_uuid = $1`, fileUUID)
	if err != nil {
		return util.LogError("[ShareRepo] не удалось удалить токены файла", err)
	}
	return nil
}
