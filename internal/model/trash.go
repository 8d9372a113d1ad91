package model

import "time"

// TrashRecord : элемент корзины — производное представление файла или
// коллекции в состоянии trashed, отдельно ничего не материализуется
type TrashRecord struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // file | collection
	DeletedAt time.Time `json:"deleted_at"`
	// Поля только для файлов
	SizeBytes int64 `json:"size_bytes,omitempty"`
	// OriginalParentUUID : куда файл вернётся при восстановлении,
	// пусто — корень "unfiled"
	OriginalParentUUID string `json:"original_parent_uuid,omitempty"`
}
