package ports

import (
	"context"

	"file-storage-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// FileRepository : SQL слой файлов.
// Методы-переходы (MarkTrashed/MarkRestored/MarkPurged, Rename) выполняют
// compare-and-swap по state и возвращают число затронутых строк: 0 означает,
// что запись либо отсутствует, либо уже в другом состоянии — вызывающий
// различает это повторным чтением
type FileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (*model.File, error)
	GetAnyByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.File, error)
	ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, limit int) ([]model.File, error)
	ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.File, error)
	ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, filename string, excludeUUID string) (bool, error)
	Rename(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, newFilename string) (int64, error)
	MarkTrashed(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error)
	MarkRestored(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, filename string, parentUUID *string) (int64, error)
	MarkPurged(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}
