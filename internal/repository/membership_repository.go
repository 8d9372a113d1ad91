package repository

import (
	"context"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// MembershipRepository : таблица связей collection_files.
// Читающие запросы отфильтровывают purged-стороны сами: каскад при purge
// гарантирует чистоту, но осиротевшая запись после сбоя между коммитом
// и каскадом не должна всплывать в выдаче
type MembershipRepository struct {
	*config.Database
}

func NewMembershipRepository(database *config.Database) *MembershipRepository {
	return &MembershipRepository{database}
}

// Add : добавляет пару (файл, коллекция). Повторное добавление — явная
// ошибка ErrAlreadyMember, а не тихий no-op
func (r *MembershipRepository) Add(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error {
	query := `
		INSERT INTO collection_files (file_uuid, collection_uuid, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (file_uuid, collection_uuid) DO NOTHING
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, collectionUUID)
	if err != nil {
		return util.LogError("[MembershipRepo] не удалось добавить файл в коллекцию", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrAlreadyMember
	}
	return nil
}

// Remove : убирает пару; отсутствующая пара — ErrNotFound
func (r *MembershipRepository) Remove(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error {
	query := `
		DELETE FROM collection_files
		WHERE file_uuid = $1 AND collection_uuid = $2
	`
	result, err := exec.ExecContext(ctx, query, fileUUID, collectionUUID)
	if err != nil {
		return util.LogError("[MembershipRepo] не удалось удалить файл из коллекции", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListFilesOf : файлы коллекции. Файлы в корзине остаются в выдаче
// (корзина неглубокая и видимая), purged не показываются никогда
func (r *MembershipRepository) ListFilesOf(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) ([]model.File, error) {
	query := `
		SELECT f.uuid, f.owner_uuid, f.parent_uuid, f.filename, f.size_bytes,
		       f.mime_type, f.sha256, f.storage_path, f.state,
		       f.restore_parent_uuid, f.created_at, f.updated_at, f.deleted_at
		FROM files AS f
		INNER JOIN collection_files AS cf ON f.uuid = cf.file_uuid
		WHERE cf.collection_uuid = $1 AND f.state <> 'purged'
		ORDER BY f.created_at DESC
	`

	files := []model.File{}
	if err := sqlx.SelectContext(ctx, exec, &files, query, collectionUUID); err != nil {
		return nil, util.LogError("[MembershipRepo] не удалось получить файлы коллекции", err)
	}
	return files, nil
}

// ListCollectionsOf : коллекции, в которых состоит файл
func (r *MembershipRepository) ListCollectionsOf(ctx context.Context, exec sqlx.ExtContext, fileUUID string) ([]model.Collection, error) {
	query := `
		SELECT c.uuid, c.owner_uuid, c.name, c.state, c.created_at, c.updated_at, c.deleted_at
		FROM collections AS c
		INNER JOIN collection_files AS cf ON c.uuid = cf.collection_uuid
		WHERE cf.file_uuid = $1 AND c.state <> 'purged'
		ORDER BY c.created_at DESC
	`

	collections := []model.Collection{}
	if err := sqlx.SelectContext(ctx, exec, &collections, query, fileUUID); err != nil {
		return nil, util.LogError("[MembershipRepo] не удалось получить коллекции файла", err)
	}
	return collections, nil
}

// RemoveAllForFile : каскад при purge файла
func (r *MembershipRepository) RemoveAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM collection_files WHERE file_uuid = $1`, fileUUID)
	if err != nil {
		return util.LogError("[MembershipRepo] не удалось удалить связи файла", err)
	}
	return nil
}

// RemoveAllForCollection : каскад при purge коллекции
func (r *MembershipRepository) RemoveAllForCollection(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM collection_files WHERE collection_uuid = $1`, collectionUUID)
	if err != nil {
		return util.LogError("[MembershipRepo] не удалось удалить связи коллекции", err)
	}
	return nil
}
