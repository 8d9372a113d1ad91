// Package apperr : бизнес-ошибки ядра хранилища.
// Конфликт имени и "уже в коллекции" — штатные исходы операций, а не сбои,
// поэтому у каждого исхода свой различимый вид ошибки.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID : идентификатор не прошёл валидацию формата,
	// до обращения к БД дело не доходит
	ErrInvalidID = errors.New("некорректный идентификатор")

	// ErrInvalidName : пустое или недопустимое имя файла/коллекции
	ErrInvalidName = errors.New("некорректное имя")

	// ErrNotFound : корректный идентификатор, но записи нет
	// или она не видна этому владельцу
	ErrNotFound = errors.New("запись не найдена")

	// ErrInvalidState : запись существует, но её текущее состояние
	// запрещает запрошенный переход
	ErrInvalidState = errors.New("недопустимое состояние записи")

	// ErrAlreadyMember : файл уже состоит в коллекции
	ErrAlreadyMember = errors.New("файл уже добавлен в коллекцию")

	// ErrExpired : срок действия публичной ссылки истёк
	ErrExpired = errors.New("срок действия ссылки истёк")
)

// NameConflictError : имя занято активным соседом в той же области видимости.
// Suggestion всегда заполнен — клиент может повторить запрос с ним или с force
type NameConflictError struct {
	Name       string
	Suggestion string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("имя %q уже занято, предлагается %q", e.Name, e.Suggestion)
}

// AsNameConflict : возвращает конфликт имени, если err им является
func AsNameConflict(err error) (*NameConflictError, bool) {
	var conflict *NameConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
