package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/model"
	requestresponse "file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/security"
	"file-storage-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type FileHandler struct {
	ports.FileService
	cfg *config.TTL
}

func NewFileHandler(fileService ports.FileService, cfg *config.TTL) *FileHandler {
	return &FileHandler{fileService, cfg}
}

// UploadFile godoc
// @Summary Загрузка нового файла
// @Description Принимает multipart/form-data, создаёт запись файла и отправляет
// содержимое в хранилище по pre-signed URL. Занятое имя возвращает 409 с
// предложением "имя(N)", которое применяется повторным запросом с force=true.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Содержимое файла"
// @Param collection_id formData string false "Коллекция, в которую кладётся файл (корень unfiled, если пусто)"
// @Param force formData string false "true — применить предложенное имя при конфликте"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 202 {object} requestresponse.UploadFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	formFile, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer formFile.Close()

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	fileBytes, err := io.ReadAll(formFile)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	hash := sha256.Sum256(fileBytes)
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	force := false
	if forceStr := r.FormValue("force"); forceStr != "" {
		parsed, err := strconv.ParseBool(forceStr)
		if err != nil {
			util.HandleError(w, "неверный формат force (должно быть true/false)", http.StatusBadRequest)
			return
		}
		force = parsed
	}

	var parentUUID *string
	if collectionID := r.FormValue("collection_id"); collectionID != "" {
		parentUUID = &collectionID
	}

	fileUUID := util.NewID()
	fileExt := filepath.Ext(header.Filename)
	storagePath := fmt.Sprintf("users/%s/files/%s-%s%s",
		claims.UserUUID,
		url.PathEscape(header.Filename[:len(header.Filename)-len(fileExt)]),
		fileUUID[:8],
		fileExt,
	)

	file := &model.File{
		UUID:        fileUUID,
		OwnerUUID:   claims.UserUUID,
		ParentUUID:  parentUUID,
		Filename:    header.Filename,
		SizeBytes:   int64(len(fileBytes)),
		MimeType:    mimeType,
		Sha256:      hex.EncodeToString(hash[:]),
		StoragePath: storagePath,
		State:       model.StateActive,
	}

	putURL, err := h.FileService.Upload(r.Context(), file, force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	tmpFile, err := saveTempFile(fileBytes, file.Filename)
	if err != nil {
		util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
		return
	}

	uploader := util.NewS3Uploader()
	uploader.UploadFileAsync(putURL, tmpFile, mimeType)
	go h.monitorUpload(file.UUID, uploader)

	util.WriteJSON(w, http.StatusAccepted, requestresponse.UploadFileResponse{
		File:   requestresponse.FileResponseFromModel(file, ""),
		PutURL: putURL,
	})
}

// saveTempFile : сохраняет содержимое во временную директорию до отправки в S3
func saveTempFile(data []byte, filename string) (string, error) {
	uploadDir := filepath.Join(os.TempDir(), "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmpFile := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename)))
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла: %w", err)
	}
	return tmpFile, nil
}

func (h *FileHandler) monitorUpload(fileUUID string, uploader *util.S3Uploader) {
	select {
	case err, ok := <-uploader.Errors():
		if ok == false {
			return
		}
		log.Printf("[FileHandler/MonitorUpload] ошибка загрузки файла %s: %v", fileUUID, err)
	case <-time.After(30 * time.Minute):
		log.Printf("[FileHandler/MonitorUpload] таймаут загрузки файла %s", fileUUID)
	}
}

// GetFile godoc
// @Summary Получение файла по ID
// @Description Возвращает метаданные файла владельца; для активного файла
// дополнительно pre-signed GET URL на скачивание.
// @Tags Files
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [get]
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	result, err := h.FileService.GetFile(r.Context(), fileUUID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", result.File.MimeType)
		w.Header().Set("Content-Length", strconv.FormatInt(result.File.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.FileResponseFromModel(result.File, result.GetURL))
}

// GetFileHead godoc
// @Summary Заголовки файла по ID
// @Tags Files
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [head]
func (h *FileHandler) GetFileHead(w http.ResponseWriter, r *http.Request) {
	h.GetFile(w, r)
}

// ListFiles godoc
// @Summary Список активных файлов
// @Description Возвращает активные файлы владельца, опционально только из
// одной коллекции (collection_id).
// @Tags Files
// @Produce json
// @Param collection_id query string false "ID коллекции"
// @Param limit query int false "Лимит файлов" default(20) minimum(1) maximum(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListFilesResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files [get]
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			util.HandleError(w, "неверное значение limit", http.StatusBadRequest)
			return
		}
		if parsed > 100 {
			limit = 100
		} else {
			limit = parsed
		}
	}

	files, err := h.FileService.ListFiles(r.Context(), claims.UserUUID, r.URL.Query().Get("collection_id"), limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListFilesResponse{
		Files: files,
		Count: len(files),
	})
}

// RenameFile godoc
// @Summary Переименование файла
// @Description Переименовывает активный файл. Занятое имя возвращает 409 с
// предложением; повтор с force=true применяет предложение без подтверждения.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param body body requestresponse.RenameFileRequest true "Новое имя и флаг force"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/rename [put]
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	file, err := h.FileService.RenameFile(r.Context(), fileUUID, claims.UserUUID, req.NewFilename, req.Force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.FileResponseFromModel(file, ""))
}
