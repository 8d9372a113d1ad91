package handler

import (
	"errors"
	"log"
	"net/http"

	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/util"
)

// handleDomainError : единая трансляция бизнес-ошибок в HTTP-статусы.
// Конфликт имени — особый случай: 409 с предложением и флагом
// requires_confirmation, клиент повторяет запрос с force или новым именем
func handleDomainError(w http.ResponseWriter, err error) {
	if conflict, ok := apperr.AsNameConflict(err); ok {
		util.WriteJSON(w, http.StatusConflict, requestresponse.NameConflictResponse{
			Message:              conflict.Error(),
			Suggestion:           conflict.Suggestion,
			RequiresConfirmation: true,
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrInvalidID):
		util.HandleError(w, "некорректный идентификатор", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidName):
		util.HandleError(w, "некорректное имя", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		util.HandleError(w, "запись не найдена", http.StatusNotFound)
	case errors.Is(err, apperr.ErrInvalidState):
		util.HandleError(w, "недопустимое состояние записи", http.StatusConflict)
	case errors.Is(err, apperr.ErrAlreadyMember):
		util.HandleError(w, "файл уже добавлен в коллекцию", http.StatusConflict)
	case errors.Is(err, apperr.ErrExpired):
		util.HandleError(w, "срок действия ссылки истёк", http.StatusGone)
	default:
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
