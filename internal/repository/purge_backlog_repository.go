package repository

import (
	"context"

	"file-storage-server/config"
	"file-storage-server/internal/model"
	"file-storage-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// PurgeBacklogRepository : очередь блобов на удаление из S3.
// Заполняется в транзакции purge, вычитывается фоновым sweeper-ом
type PurgeBacklogRepository struct {
	*config.Database
}

func NewPurgeBacklogRepository(database *config.Database) *PurgeBacklogRepository {
	return &PurgeBacklogRepository{database}
}

func (r *PurgeBacklogRepository) Enqueue(ctx context.Context, exec sqlx.ExtContext, storagePath string, fileUUID string) error {
	query := `
		INSERT INTO blob_purge_backlog (storage_path, file_uuid)
		VALUES ($1, $2)
		ON CONFLICT (storage_path) DO NOTHING
	`
	_, err := exec.ExecContext(ctx, query, storagePath, fileUUID)
	if err != nil {
		return util.LogError("[PurgeBacklogRepo] не удалось поставить блоб в очередь", err)
	}
	return nil
}

func (r *PurgeBacklogRepository) List(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.BlobPurgeEntry, error) {
	query := `
		SELECT storage_path, file_uuid, enqueued_at
		FROM blob_purge_backlog
		ORDER BY enqueued_at
		LIMIT $1
	`

	entries := []model.BlobPurgeEntry{}
	if err := sqlx.SelectContext(ctx, exec, &entries, query, limit); err != nil {
		return nil, util.LogError("[PurgeBacklogRepo] не удалось прочитать очередь", err)
	}
	return entries, nil
}

func (r *PurgeBacklogRepository) Remove(ctx context.Context, exec sqlx.ExtContext, storagePath string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM blob_purge_backlog WHERE storage_path = $1`, storagePath)
	if err != nil {
		return util.LogError("[PurgeBacklogRepo] не удалось убрать блоб из очереди", err)
	}
	return nil
}
