package handler

import (
	"encoding/json"
	"net/http"

	"file-storage-server/internal/model"
	requestresponse "file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/security"
	"file-storage-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type TrashHandler struct {
	ports.LifecycleService
}

func NewTrashHandler(lifecycleService ports.LifecycleService) *TrashHandler {
	return &TrashHandler{lifecycleService}
}

// TrashFile godoc
// @Summary Перемещение файла в корзину
// @Description Файл перестаёт быть виден в списках и по публичным ссылкам,
// содержимое и связи с коллекциями сохраняются до очистки.
// @Tags Trash
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Файл уже в корзине или очищен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [delete]
func (h *TrashHandler) TrashFile(w http.ResponseWriter, r *http.Request) {
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

	if err := h.LifecycleService.TrashFile(r.Context(), fileUUID, claims.UserUUID); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "файл перемещён в корзину"})
}

// TrashCollection godoc
// @Summary Перемещение коллекции в корзину
// @Description Коллекция скрывается из списков, её файлы остаются активными.
// @Tags Trash
// @Produce json
// @Param collection_id path string true "ID коллекции (32 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/collections/{collection_id} [delete]
func (h *TrashHandler) TrashCollection(w http.ResponseWriter, r *http.Request) {
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

	if err := h.LifecycleService.TrashCollection(r.Context(), collectionUUID, claims.UserUUID); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "коллекция перемещена в корзину"})
}

// ListTrash godoc
// @Summary Содержимое корзины
// @Description Возвращает файлы и коллекции владельца, находящиеся в корзине.
// @Tags Trash
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListTrashResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/trash [get]
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	records, err := h.LifecycleService.ListTrash(r.Context(), claims.UserUUID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	items := make([]requestresponse.TrashItemResponse, 0, len(records))
	for i := range records {
		items = append(items, requestresponse.TrashItemResponseFromModel(&records[i]))
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListTrashResponse{
		Items: items,
		Count: len(items),
	})
}

// RestoreFile godoc
// @Summary Восстановление файла из корзины
// @Description Возвращает файл в активное состояние. Если исходное имя к
// этому моменту занято — 409 с предложением, применяемым через force=true.
// Если исходная коллекция безвозвратно удалена, файл восстанавливается
// в корень, в ответе rerouted=true.
// @Tags Trash
// @Accept json
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param body body requestresponse.RestoreRequest false "Необязательное новое имя и флаг force"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.RestoreResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/trash/file/{file_id}/restore [post]
func (h *TrashHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.RestoreRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
			return
		}
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	file, rerouted, err := h.LifecycleService.RestoreFile(r.Context(), fileUUID, claims.UserUUID, req.NewName, req.Force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.RestoreResponse{
		UUID:     file.UUID,
		Name:     file.Filename,
		Type:     model.TypeFile,
		State:    file.State,
		Rerouted: rerouted,
	})
}

// RestoreCollection godoc
// @Summary Восстановление коллекции из корзины
// @Description Возвращает коллекцию в активное состояние; занятое имя — 409
// с предложением.
// @Tags Trash
// @Accept json
// @Produce json
// @Param collection_id path string true "ID коллекции (32 hex-символа)"
// @Param body body requestresponse.RestoreRequest false "Необязательное новое имя и флаг force"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.RestoreResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.NameConflictResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/trash/collection/{collection_id}/restore [post]
func (h *TrashHandler) RestoreCollection(w http.ResponseWriter, r *http.Request) {
	collectionUUID := chi.URLParam(r, "collection_id")
	if collectionUUID == "" {
		util.HandleError(w, "ID коллекции обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.RestoreRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
			return
		}
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	collection, err := h.LifecycleService.RestoreCollection(r.Context(), collectionUUID, claims.UserUUID, req.NewName, req.Force)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.RestoreResponse{
		UUID:  collection.UUID,
		Name:  collection.Name,
		Type:  model.TypeCollection,
		State: collection.State,
	})
}

// PurgeItem godoc
// @Summary Безвозвратное удаление элемента корзины
// @Description Очищает файл или коллекцию из корзины. Операция необратима и
// идемпотентна: повторная очистка уже очищенного элемента — успех без
// эффекта. Активный элемент очистить нельзя — сначала корзина.
// @Tags Trash
// @Produce json
// @Param item_id path string true "ID элемента (32 hex-символа)"
// @Param type query string true "Тип элемента: file или collection"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Элемент не в корзине"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/trash/{item_id} [delete]
func (h *TrashHandler) PurgeItem(w http.ResponseWriter, r *http.Request) {
	itemUUID := chi.URLParam(r, "item_id")
	if itemUUID == "" {
		util.HandleError(w, "ID элемента обязателен", http.StatusBadRequest)
		return
	}

	itemType := r.URL.Query().Get("type")
	if itemType != model.TypeFile && itemType != model.TypeCollection {
		util.HandleError(w, "type должен быть file или collection", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.LifecycleService.Purge(r.Context(), itemUUID, claims.UserUUID, itemType); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "элемент удалён безвозвратно"})
}
