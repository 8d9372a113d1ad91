package requestresponse

import (
	"time"

	"file-storage-server/internal/model"
)

// TrashItemResponse : элемент корзины в JSON-ответе
type TrashItemResponse struct {
	UUID               string `json:"id" example:"3f2a6c1e9b4d4f0a8c7e5d2b1a9f6e3c"`
	Name               string `json:"name" example:"report.pdf"`
	Type               string `json:"type" example:"file"`
	DeletedAt          string `json:"deleted_at" example:"2025-08-23T12:34:56Z"`
	SizeBytes          int64  `json:"size_bytes,omitempty" example:"102400"`
	OriginalParentUUID string `json:"original_parent_uuid,omitempty"`
}

// TrashItemResponseFromModel : конвертирует model.TrashRecord в TrashItemResponse
func TrashItemResponseFromModel(record *model.TrashRecord) TrashItemResponse {
	return TrashItemResponse{
		UUID:               record.UUID,
		Name:               record.Name,
		Type:               record.Type,
		DeletedAt:          record.DeletedAt.Format(time.RFC3339),
		SizeBytes:          record.SizeBytes,
		OriginalParentUUID: record.OriginalParentUUID,
	}
}

// ListTrashResponse : ответ API со списком элементов корзины
type ListTrashResponse struct {
	Items []TrashItemResponse `json:"items"`
	Count int                 `json:"count" example:"4"`
}

// RestoreRequest : тело запроса восстановления из корзины.
// NewName задаёт имя вместо исходного, Force применяет предложение
// резолвера без повторного подтверждения
type RestoreRequest struct {
	NewName string `json:"new_name,omitempty" example:"report(1).pdf"`
	Force   bool   `json:"force" example:"false"`
}

// RestoreResponse : результат восстановления
type RestoreResponse struct {
	UUID     string `json:"id"`
	Name     string `json:"name" example:"report.pdf"`
	Type     string `json:"type" example:"file"`
	State    string `json:"state" example:"active"`
	// Rerouted : true, если исходная коллекция была безвозвратно удалена
	// и файл восстановлен в корень "unfiled"
	Rerouted bool `json:"rerouted,omitempty"`
}
