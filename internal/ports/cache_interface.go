package ports

import (
	"context"

	"file-storage-server/internal/model"
)

// CacheRepository : Redis слой.
// Кэшируются только метаданные активных файлов; любой переход состояния
// инвалидирует запись, валидность публичных токенов не кэшируется вовсе
type CacheRepository interface {
	SetFile(ctx context.Context, file *model.File) error
	GetFile(ctx context.Context, uuid string) (*model.File, error)
	DeleteFile(ctx context.Context, uuid string) error
}
