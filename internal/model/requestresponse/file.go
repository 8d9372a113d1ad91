package requestresponse

import (
	"time"

	"file-storage-server/internal/model"
)

// FileResponse : описывает файл для JSON-ответа
type FileResponse struct {
	UUID       string `json:"id" example:"3f2a6c1e9b4d4f0a8c7e5d2b1a9f6e3c"`
	Filename   string `json:"name" example:"report.pdf"`
	MimeType   string `json:"mime" example:"application/pdf"`
	SizeBytes  int64  `json:"size" example:"102400"`
	State      string `json:"state" example:"active"`
	ParentUUID string `json:"collection_id,omitempty" example:"9b4d4f0a8c7e5d2b1a9f6e3c3f2a6c1e"`
	CreatedAt  string `json:"created" example:"2025-08-23T12:34:56Z"`
	GetURL     string `json:"get_url,omitempty"`
}

// FileResponseFromModel : конвертирует model.File в FileResponse
func FileResponseFromModel(file *model.File, getURL string) FileResponse {
	resp := FileResponse{
		UUID:      file.UUID,
		Filename:  file.Filename,
		MimeType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		State:     file.State,
		CreatedAt: file.CreatedAt.Format(time.RFC3339),
		GetURL:    getURL,
	}
	if file.ParentUUID != nil {
		resp.ParentUUID = *file.ParentUUID
	}
	return resp
}

// UploadFileResponse : ответ при загрузке файла, PutURL — pre-signed URL,
// по которому клиент (или фоновый загрузчик) отправляет содержимое
type UploadFileResponse struct {
	File   FileResponse `json:"file"`
	PutURL string       `json:"put_url"`
}

// RenameFileRequest : тело запроса переименования файла.
// Force=true применяет предложенное имя без повторного подтверждения
type RenameFileRequest struct {
	NewFilename string `json:"new_filename" example:"report-final.pdf"`
	Force       bool   `json:"force" example:"false"`
}

// NameConflictResponse : ответ 409 при конфликте имени
type NameConflictResponse struct {
	Message              string `json:"message" example:"имя уже занято"`
	Suggestion           string `json:"suggestion" example:"report(1).pdf"`
	RequiresConfirmation bool   `json:"requires_confirmation" example:"true"`
}

// ListFilesResponse : ответ API со списком файлов
type ListFilesResponse struct {
	Files []FileResponse `json:"files"`
	Count int            `json:"count" example:"10"`
}

// AddToCollectionRequest : тело запроса добавления файла в коллекцию
type AddToCollectionRequest struct {
	CollectionUUID string `json:"collection_id" example:"9b4d4f0a8c7e5d2b1a9f6e3c3f2a6c1e"`
}

// ErrorResponse : общий объект ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Conflict"`
	Message string `json:"message" example:"описание ошибки"`
	Code    int    `json:"code" example:"409"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}
