package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	requestresponse "file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/security"
	"file-storage-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type ShareHandler struct {
	ports.ShareService
}

func NewShareHandler(shareService ports.ShareService) *ShareHandler {
	return &ShareHandler{shareService}
}

// IssueShare godoc
// @Summary Выпуск публичной ссылки на файл
// @Description Выпускает токен на скачивание активного файла без авторизации.
// ttl_days <= 0 заменяется значением по умолчанию, верхняя граница задаётся
// конфигурацией сервера.
// @Tags Shares
// @Accept json
// @Produce json
// @Param file_id path string true "ID файла (32 hex-символа)"
// @Param body body requestresponse.IssueShareRequest false "Срок жизни ссылки в днях"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.IssueShareResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Файл не активен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/share [post]
func (h *ShareHandler) IssueShare(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	var req requestresponse.IssueShareRequest
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

	share, err := h.ShareService.Issue(r.Context(), fileUUID, claims.UserUUID, req.TTLDays)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.IssueShareResponseFromModel(share))
}

// ResolveShare godoc
// @Summary Скачивание файла по публичной ссылке
// @Description Анонимный доступ по токену: действующий токен активного файла
// возвращает метаданные и pre-signed GET URL. Просроченный токен — 410,
// файл в корзине — 409: ссылка оживёт, если файл восстановят.
// @Tags Shares
// @Produce json
// @Param token path string true "Публичный токен (64 hex-символа)"
// @Success 200 {object} requestresponse.ResolveShareResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Файл недоступен"
// @Failure 410 {object} requestresponse.ErrorResponse "Срок действия ссылки истёк"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /public/files/{token} [get]
func (h *ShareHandler) ResolveShare(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		util.HandleError(w, "токен обязателен", http.StatusBadRequest)
		return
	}

	result, err := h.ShareService.Resolve(r.Context(), token)
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

	util.WriteJSON(w, http.StatusOK, requestresponse.ResolveShareResponse{
		File:   requestresponse.FileResponseFromModel(result.File, result.GetURL),
		GetURL: result.GetURL,
	})
}

// ResolveShareHead godoc
// @Summary Заголовки файла по публичной ссылке
// @Tags Shares
// @Param token path string true "Публичный токен (64 hex-символа)"
// @Success 200
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /public/files/{token} [head]
func (h *ShareHandler) ResolveShareHead(w http.ResponseWriter, r *http.Request) {
	h.ResolveShare(w, r)
}

// RevokeShare godoc
// @Summary Досрочный отзыв публичной ссылки
// @Tags Shares
// @Produce json
// @Param token path string true "Публичный токен (64 hex-символа)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/shares/{token} [delete]
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		util.HandleError(w, "токен обязателен", http.StatusBadRequest)
		return
	}

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.ShareService.Revoke(r.Context(), token, claims.UserUUID); err != nil {
		handleDomainError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "ссылка отозвана"})
}
