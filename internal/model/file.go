package model

import "time"

// Состояния жизненного цикла файла и коллекции.
// purged — терминальное: запись остаётся в БД как tombstone,
// но ссылка на содержимое (storage_path) обнуляется
const (
	StateActive  = "active"
	StateTrashed = "trashed"
	StatePurged  = "purged"
)

const (
	TypeFile       = "file"
	TypeCollection = "collection"
)

type File struct {
	UUID      string `db:"uuid" json:"uuid"`
	OwnerUUID string `db:"owner_uuid" json:"owner_uuid"`
	// ParentUUID : коллекция, задающая область уникальности имени.
	// nil — корень "unfiled" владельца
	ParentUUID  *string `db:"parent_uuid" json:"parent_uuid,omitempty"`
	Filename    string  `db:"filename" json:"filename"`
	SizeBytes   int64   `db:"size_bytes" json:"size_bytes"`
	MimeType    string  `db:"mime_type" json:"mime_type"`
	Sha256      string  `db:"sha256" json:"sha256"`
	StoragePath string  `db:"storage_path" json:"storage_path"`
	State       string  `db:"state" json:"state"`
	// RestoreParentUUID : снимок ParentUUID на момент попадания в корзину,
	// по нему restore возвращает файл в исходную коллекцию
	RestoreParentUUID *string    `db:"restore_parent_uuid" json:"restore_parent_uuid,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type GetFileResult struct {
	File   *File
	GetURL string // pre-signed URL на скачивание, если содержимое загружено
}
