package model

import "time"

// BlobPurgeEntry : ключ блоба, чьё содержимое ещё не удалено из S3.
// Запись попадает сюда в той же транзакции, что и переход файла в purged,
// поэтому сбой удаления из S3 никогда не откатывает метаданные
type BlobPurgeEntry struct {
	StoragePath string    `db:"storage_path" json:"storage_path"`
	FileUUID    string    `db:"file_uuid" json:"file_uuid"`
	EnqueuedAt  time.Time `db:"enqueued_at" json:"enqueued_at"`
}
