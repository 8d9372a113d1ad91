package ports

import (
	"context"

	"file-storage-server/internal/model"
	"file-storage-server/internal/model/requestresponse"
)

type FileService interface {
	Upload(ctx context.Context, file *model.File, force bool) (string, error)
	GetFile(ctx context.Context, fileUUID string) (*model.GetFileResult, error)
	ListFiles(ctx context.Context, ownerUUID string, parentUUID string, limit int) ([]requestresponse.FileResponse, error)
	RenameFile(ctx context.Context, fileUUID string, ownerUUID string, newFilename string, force bool) (*model.File, error)
}

type CollectionService interface {
	Create(ctx context.Context, ownerUUID string, name string, force bool) (*model.Collection, error)
	List(ctx context.Context, ownerUUID string) ([]model.Collection, error)
	Get(ctx context.Context, collectionUUID string, ownerUUID string) (*model.Collection, []model.File, error)
	Rename(ctx context.Context, collectionUUID string, ownerUUID string, newName string, force bool) (*model.Collection, error)
	AddFile(ctx context.Context, fileUUID string, collectionUUID string, ownerUUID string) error
	RemoveFile(ctx context.Context, fileUUID string, collectionUUID string, ownerUUID string) error
	ListCollectionsOfFile(ctx context.Context, fileUUID string, ownerUUID string) ([]model.Collection, error)
}

// LifecycleService : переходы active → trashed → purged и trashed → active.
// Restore* возвращают итоговое имя после разрешения конфликтов; второй
// результат RestoreFile сообщает, что исходная коллекция была удалена
// безвозвратно и файл восстановлен в корень "unfiled"
type LifecycleService interface {
	TrashFile(ctx context.Context, fileUUID string, ownerUUID string) error
	TrashCollection(ctx context.Context, collectionUUID string, ownerUUID string) error
	RestoreFile(ctx context.Context, fileUUID string, ownerUUID string, newName string, force bool) (*model.File, bool, error)
	RestoreCollection(ctx context.Context, collectionUUID string, ownerUUID string, newName string, force bool) (*model.Collection, error)
	Purge(ctx context.Context, itemUUID string, ownerUUID string, itemType string) error
	ListTrash(ctx context.Context, ownerUUID string) ([]model.TrashRecord, error)
}

type ShareService interface {
	Issue(ctx context.Context, fileUUID string, ownerUUID string, ttlDays int) (*model.ShareToken, error)
	Resolve(ctx context.Context, token string) (*model.GetFileResult, error)
	Revoke(ctx context.Context, token string, ownerUUID string) error
}
