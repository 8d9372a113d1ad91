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

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

const fileColumns = `
	uuid, owner_uuid, parent_uuid, filename, size_bytes, mime_type, sha256,
	storage_path, state, restore_parent_uuid, created_at, updated_at, deleted_at
`

// Create : сохраняем новый файл (состояние active)
func (r *FileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) error {
	query := `
		INSERT INTO files (uuid, owner_uuid, parent_uuid, filename, size_bytes, mime_type, sha256, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		file.UUID,
		file.OwnerUUID,
		file.ParentUUID,
		file.Filename,
		file.SizeBytes,
		file.MimeType,
		file.Sha256,
		file.StoragePath)

	return err
}

// GetByUUID : возвращает файл владельца в любом состоянии, включая tombstone
func (r *FileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE uuid = $1 AND owner_uuid = $2`

	var file model.File
	err := sqlx.GetContext(ctx, exec, &file, query, fileUUID, ownerUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// GetAnyByUUID : возвращает файл без проверки владельца — только для
// разрешения публичных токенов
func (r *FileRepository) GetAnyByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE uuid = $1`

	var file model.File
	err := sqlx.GetContext(ctx, exec, &file, query, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// ListActiveByOwner : активные файлы владельца, опционально в одной коллекции
func (r *FileRepository) ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, limit int) ([]model.File, error) {
	var rows *sqlx.Rows
	var err error

	if parentUUID == nil {
		query := `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_uuid = $1 AND state = 'active'
			ORDER BY created_at DESC
			LIMIT $2
		`
		rows, err = exec.QueryxContext(ctx, query, ownerUUID, limit)
	} else {
		query := `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_uuid = $1 AND state = 'active' AND parent_uuid = $2
			ORDER BY created_at DESC
			LIMIT $3
		`
		rows, err = exec.QueryxContext(ctx, query, ownerUUID, *parentUUID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var file model.File
		if err := rows.StructScan(&file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// ListTrashedByOwner : содержимое корзины владельца (только файлы)
func (r *FileRepository) ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_uuid = $1 AND state = 'trashed'
		ORDER BY deleted_at DESC
	`

	files := []model.File{}
	if err := sqlx.SelectContext(ctx, exec, &files, query, ownerUUID); err != nil {
		return nil, util.LogError("[FileRepo] не удалось получить файлы из корзины", err)
	}
	return files, nil
}

// ExistsActiveName : занято ли имя активным соседом в области видимости.
// excludeUUID исключает саму переименовываемую запись, поэтому rename
// файла в его собственное имя конфликтом не считается
func (r *FileRepository) ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, filename string, excludeUUID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM files
			WHERE owner_uuid = $1
			  AND state = 'active'
			  AND filename = $2
			  AND COALESCE(parent_uuid, '') = COALESCE($3, '')
			  AND uuid <> $4
		)
	`
	var exists bool
	err := sqlx.GetContext(ctx, exec, &exists, query, ownerUUID, filename, parentUUID, excludeUUID)
	if err != nil {
		return false, util.LogError("[FileRepo] не удалось проверить имя", err)
	}
	return exists, nil
}

// Rename : CAS-переименование, только активный файл владельца
func (r *FileRepository) Rename(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, newFilename string) (int64, error) {
	query := `
		UPDATE files
		SET filename = $3, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'active'
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, ownerUUID, newFilename)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkTrashed : active → trashed. Снимок parent_uuid сохраняется
// в restore_parent_uuid — по нему restore вернёт файл на место
func (r *FileRepository) MarkTrashed(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error) {
	query := `
		UPDATE files
		SET state = 'trashed',
		    deleted_at = NOW(),
		    updated_at = NOW(),
		    restore_parent_uuid = parent_uuid,
		    parent_uuid = NULL
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'active'
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, ownerUUID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkRestored : trashed → active с итоговым именем и областью видимости
func (r *FileRepository) MarkRestored(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, filename string, parentUUID *string) (int64, error) {
	query := `
		UPDATE files
		SET state = 'active',
		    deleted_at = NULL,
		    updated_at = NOW(),
		    filename = $3,
		    parent_uuid = $4,
		    restore_parent_uuid = NULL
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'trashed'
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, ownerUUID, filename, parentUUID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkPurged : trashed → purged. Запись остаётся tombstone-ом, ссылка на
// содержимое обнуляется; прежний storage_path вызывающий читает сам
// в той же транзакции до перехода
func (r *FileRepository) MarkPurged(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error) {
	query := `
		UPDATE files
		SET state = 'purged', storage_path = '', updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'trashed'
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, ownerUUID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *FileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
