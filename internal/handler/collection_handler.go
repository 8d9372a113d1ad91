package handler

import (
	"encoding/json"
	"net/http"

	requestresponse "file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/security"
	"file-storage-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type CollectionHandler struct {
	ports.CollectionService
}

func NewCollectionHandler(collectionService ports.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService}
}

// CreateCollection godoc
// @Summary Создание коллекции
// @Description Создаёт коллекцию; имя уникально среди активных коллекций
// владельца, конфликт возвращает 409 с предложением "имя(N)".
// @Tags Collections
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateCollectionRequest true "Имя коллекции и флаг force"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CollectionResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/collections [post]
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collection, err := h.CollectionService.Create(r.Context(), claims.UserUUID, req.Name, req.Force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.CollectionResponseFromModel(collection))
}

// ListCollections godoc
// @Summary Список активных коллекций владельца
// @Tags Collections
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListCollectionsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/collections [get]
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collections, err := h.CollectionService.List(r.Context(), claims.UserUUID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	responses := make([]requestresponse.CollectionResponse, 0, len(collections))
	for i := range collections {
		responses = append(responses, requestresponse.CollectionResponseFromModel(&collections[i]))
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListCollectionsResponse{
		Collections: responses,
		Count:       len(responses),
	})
}

// GetCollection godoc
// @Summary Коллекция вместе со списком файлов
// @Description Возвращает коллекцию и её файлы. Файлы в корзине остаются в
// выдаче со state=trashed, безвозвратно удалённые не показываются.
// @Tags Collections
// @Produce json
// @Param collection_id path string true "ID коллекции (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetCollectionResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/collections/{collection_id} [get]
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collectionUUID := chi.URLParam(r, "collection_id")
	if collectionUUID == "" {
		util.HandleError(w, "ID коллекции обязателен", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collection, files, err := h.CollectionService.Get(r.Context(), collectionUUID, claims.UserUUID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	fileResponses := make([]requestresponse.FileResponse, 0, len(files))
	for i := range files {
		fileResponses = append(fileResponses, requestresponse.FileResponseFromModel(&files[i], ""))
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.GetCollectionResponse{
		Collection: requestresponse.CollectionResponseFromModel(collection),
		Files:      fileResponses,
		FilesCount: len(fileResponses),
	})
}

// RenameCollection godoc
// @Summary Переименование коллекции
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection_id path string true "ID коллекции (32 hex-символа)"
// @Param body body requestresponse.RenameCollectionRequest true "Новое имя и флаг force"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CollectionResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/collections/{collection_id} [put]
func (h *CollectionHandler) RenameCollection(w http.ResponseWriter, r *http.Request) {
	collectionUUID := chi.URLParam(r, "collection_id")
	if collectionUUID == "" {
		util.HandleError(w, "ID коллекции обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.RenameCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collection, err := h.CollectionService.Rename(r.Context(), collectionUUID, claims.UserUUID, req.NewName, req.Force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.CollectionResponseFromModel(collection))
}

// AddFileToCollection godoc
// @Summary Добавление файла в коллекцию
// @Description Связывает файл и коллекцию; обе стороны должны быть активны.
// Повторное добавление той же пары — 409.
// @Tags Collections
// @Accept json
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param body body requestresponse.AddToCollectionRequest true "ID коллекции"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/collections [post]
func (h *CollectionHandler) AddFileToCollection(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.AddToCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.CollectionService.AddFile(r.Context(), fileUUID, req.CollectionUUID, claims.UserUUID); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "файл добавлен в коллекцию"})
}

// RemoveFileFromCollection godoc
// @Summary Удаление файла из коллекции
// @Description Разрывает связь файла и коллекции, сам файл не трогается.
// @Tags Collections
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param collection_id path string true "ID коллекции (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/collections/{collection_id} [delete]
func (h *CollectionHandler) RemoveFileFromCollection(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	collectionUUID := chi.URLParam(r, "collection_id")
	if fileUUID == "" || collectionUUID == "" {
		util.HandleError(w, "ID файла и коллекции обязательны", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.CollectionService.RemoveFile(r.Context(), fileUUID, collectionUUID, claims.UserUUID); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "файл удалён из коллекции"})
}

// ListFileCollections godoc
// @Summary Коллекции, в которых состоит файл
// @Tags Collections
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListCollectionsResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/collections [get]
func (h *CollectionHandler) ListFileCollections(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collections, err := h.CollectionService.ListCollectionsOfFile(r.Context(), fileUUID, claims.UserUUID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	responses := make([]requestresponse.CollectionResponse, 0, len(collections))
	for i := range collections {
		responses = append(responses, requestresponse.CollectionResponseFromModel(&collections[i]))
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListCollectionsResponse{
		Collections: responses,
		Count:       len(responses),
	})
}
