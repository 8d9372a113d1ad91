package ports

import (
	"context"

	"file-storage-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// CollectionRepository : SQL слой коллекций
type CollectionRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, collection *model.Collection) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (*model.Collection, error)
	ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error)
	ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error)
	ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, name string, excludeUUID string) (bool, error)
	Rename(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, newName string) (int64, error)
	MarkTrashed(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error)
	MarkRestored(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, name string) (int64, error)
	MarkPurged(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error)
}

// MembershipRepository : связь многие-ко-многим файлов и коллекций.
// Повторное добавление пары — явная ошибка ErrAlreadyMember, а не тихий успех
type MembershipRepository interface {
	Add(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error
	Remove(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error
	ListFilesOf(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) ([]model.File, error)
	ListCollectionsOf(ctx context.Context, exec sqlx.ExtContext, fileUUID string) ([]model.Collection, error)
	RemoveAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
	RemoveAllForCollection(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) error
}
