package requestresponse

import (
	"time"

	"file-storage-server/internal/model"
)

// CollectionResponse : описывает коллекцию для JSON-ответа
type CollectionResponse struct {
	UUID      string `json:"id" example:"9b4d4f0a8c7e5d2b1a9f6e3c3f2a6c1e"`
	Name      string `json:"name" example:"Отчёты"`
	State     string `json:"state" example:"active"`
	CreatedAt string `json:"created" example:"2025-08-23T12:34:56Z"`
	UpdatedAt string `json:"updated" example:"2025-08-23T12:34:56Z"`
}

// CollectionResponseFromModel : конвертирует model.Collection в CollectionResponse
func CollectionResponseFromModel(collection *model.Collection) CollectionResponse {
	return CollectionResponse{
		UUID:      collection.UUID,
		Name:      collection.Name,
		State:     collection.State,
		CreatedAt: collection.CreatedAt.Format(time.RFC3339),
		UpdatedAt: collection.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateCollectionRequest : тело запроса создания коллекции
type CreateCollectionRequest struct {
	Name  string `json:"name" example:"Отчёты"`
	Force bool   `json:"force" example:"false"`
}

// RenameCollectionRequest : тело запроса переименования коллекции
type RenameCollectionRequest struct {
	NewName string `json:"new_name" example:"Отчёты 2025"`
	Force   bool   `json:"force" example:"false"`
}

// GetCollectionResponse : коллекция вместе со списком её файлов
type GetCollectionResponse struct {
	Collection CollectionResponse `json:"collection"`
	Files      []FileResponse     `json:"files"`
	FilesCount int                `json:"files_count" example:"3"`
}

// ListCollectionsResponse : ответ API со списком коллекций
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
	Count       int                  `json:"count" example:"2"`
}
