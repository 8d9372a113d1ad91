package ports

import (
	"context"

	"file-storage-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// ShareRepository : SQL слой публичных токенов
type ShareRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, share *model.ShareToken) error
	GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ShareToken, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, token string, ownerUUID string) (int64, error)
	DeleteAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
}

// PurgeBacklogRepository : очередь блобов, ожидающих удаления из S3
type PurgeBacklogRepository interface {
	Enqueue(ctx context.Context, exec sqlx.ExtContext, storagePath string, fileUUID string) error
	List(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.BlobPurgeEntry, error)
	Remove(ctx context.Context, exec sqlx.ExtContext, storagePath string) error
}
