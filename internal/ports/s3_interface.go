package ports

import (
	"context"
	"time"
)

// S3Storage : blob-хранилище (внешний коллаборатор)
type S3Storage interface {
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
