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

type CollectionRepository struct {
	*config.Database
}

func NewCollectionRepository(database *config.Database) *CollectionRepository {
	return &CollectionRepository{database}
}

const collectionColumns = `uuid, owner_uuid, name, state, created_at, updated_at, deleted_at`

// Create : сохраняем новую коллекцию (состояние active)
func (r *CollectionRepository) Create(ctx context.Context, exec sqlx.ExtContext, collection *model.Collection) error {
	query := `
		INSERT INTO collections (uuid, owner_uuid, name)
		VALUES ($1, $2, $3)
	`
	_, err := exec.ExecContext(ctx, query, collection.UUID, collection.OwnerUUID, collection.Name)
	return err
}

// GetByUUID : возвращает коллекцию владельца в любом состоянии
func (r *CollectionRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (*model.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE uuid = $1 AND owner_uuid = $2`

	var collection model.Collection
	err := sqlx.GetContext(ctx, exec, &collection, query, collectionUUID, ownerUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

// ListActiveByOwner : активные коллекции владельца
func (r *CollectionRepository) ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE owner_uuid = $1 AND state = 'active'
		ORDER BY created_at DESC
	`

	collections := []model.Collection{}
	if err := sqlx.SelectContext(ctx, exec, &collections, query, ownerUUID); err != nil {
		return nil, util.LogError("[CollectionRepo] не удалось получить список коллекций", err)
	}
	return collections, nil
}

// ListTrashedByOwner : содержимое корзины владельца (только коллекции)
func (r *CollectionRepository) ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE owner_uuid = $1 AND state = 'trashed'
		ORDER BY deleted_at DESC
	`

	collections := []model.Collection{}
	if err := sqlx.SelectContext(ctx, exec, &collections, query, ownerUUID); err != nil {
		return nil, util.LogError("[CollectionRepo] не удалось получить коллекции из корзины", err)
	}
	return collections, nil
}

// ExistsActiveName : занято ли имя среди активных коллекций владельца
func (r *CollectionRepository) ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, name string, excludeUUID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM collections
			WHERE owner_uuid = $1 AND state = 'active' AND name = $2 AND uuid <> $3
		)
	`
	var exists bool
	err := sqlx.GetContext(ctx, exec, &exists, query, ownerUUID, name, excludeUUID)
	if err != nil {
		return false, util.LogError("[CollectionRepo] не удалось проверить имя", err)
	}
	return exists, nil
}

// Rename : CAS-переименование, только активная коллекция владельца
func (r *CollectionRepository) Rename(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, newName string) (int64, error) {
	query := `
		UPDATE collections
		SET name = $3, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'active'
	`
	result, err := exec.ExecContext(ctx, query, collectionUUID, ownerUUID, newName)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkTrashed : active → trashed. Файлы-участники не затрагиваются —
// корзина неглубокая
func (r *CollectionRepository) MarkTrashed(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error) {
	query := `
		UPDATE collections
		SET state = 'trashed', deleted_at = NOW(), updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'active'
	`
	result, err := exec.ExecContext(ctx, query, collectionUUID, ownerUUID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkRestored : trashed → active с итоговым именем
func (r *CollectionRepository) MarkRestored(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, name string) (int64, error) {
	query := `
		UPDATE collections
		SET state = 'active', deleted_at = NULL, updated_at = NOW(), name = $3
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'trashed'
	`
	result, err := exec.ExecContext(ctx, query, collectionUUID, ownerUUID, name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MarkPurged : trashed → purged, запись остаётся tombstone-ом
func (r *CollectionRepository) MarkPurged(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error) {
	query := `
		UPDATE collections
		SET state = 'purged', updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND state = 'trashed'
	`
	result, err := exec.ExecContext(ctx, query, collectionUUID, ownerUUID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
