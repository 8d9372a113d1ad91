package requestresponse

import (
	"time"

	"file-storage-server/internal/model"
)

// IssueShareRequest : тело запроса выпуска публичной ссылки
type IssueShareRequest struct {
	TTLDays int `json:"ttl_days" example:"7"`
}

// IssueShareResponse : выпущенная публичная ссылка
type IssueShareResponse struct {
	Token     string `json:"token" example:"a3f2...64hex"`
	FileUUID  string `json:"file_id"`
	ExpiresAt string `json:"expires_at" example:"2025-08-30T12:34:56Z"`
}

// IssueShareResponseFromModel : конвертирует model.ShareToken в ответ API
func IssueShareResponseFromModel(share *model.ShareToken) IssueShareResponse {
	return IssueShareResponse{
		Token:     share.Token,
		FileUUID:  share.FileUUID,
		ExpiresAt: share.ExpiresAt.Format(time.RFC3339),
	}
}

// ResolveShareResponse : метаданные файла и ссылка на скачивание
// по действующему публичному токену
type ResolveShareResponse struct {
	File   FileResponse `json:"file"`
	GetURL string       `json:"get_url"`
}
