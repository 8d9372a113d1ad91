package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/ports"

	"github.com/jmoiron/sqlx"
)

// NameScope : область, в которой имя должно быть уникальным.
// Для файла — его родительская коллекция (или корень "unfiled") у одного
// владельца, для коллекции — все активные коллекции владельца.
// ExcludeUUID исключает саму запись: переименование в собственное имя
// конфликтом не считается
type NameScope struct {
	Type        string // model.TypeFile | model.TypeCollection
	OwnerUUID   string
	ParentUUID  *string // только для файлов
	ExcludeUUID string
}

// NameResolver : детерминированное разрешение конфликтов имён.
// Чистая функция от (области, имени): никакого состояния между
// propose и confirm не хранится, повтор запроса даёт тот же результат
type NameResolver struct {
	fileRepository       ports.FileRepository
	collectionRepository ports.CollectionRepository
}

func NewNameResolver(fileRepository ports.FileRepository, collectionRepository ports.CollectionRepository) *NameResolver {
	return &NameResolver{
		fileRepository:       fileRepository,
		collectionRepository: collectionRepository,
	}
}

// Resolve : возвращает итоговое имя. Если желаемое имя свободно — оно и
// возвращается. Если занято: при force=true применяется первое свободное
// "имя(N)", иначе возвращается *apperr.NameConflictError с тем же
// предложением — клиент обязан подтвердить его повторным запросом
func (r *NameResolver) Resolve(ctx context.Context, exec sqlx.ExtContext, scope NameScope, desiredName string, force bool) (string, error) {
	name, err := NormalizeName(desiredName)
	if err != nil {
		return "", err
	}

	taken, err := r.exists(ctx, exec, scope, name)
	if err != nil {
		return "", err
	}
	if !taken {
		return name, nil
	}

	suggestion, err := r.suggest(ctx, exec, scope, name)
	if err != nil {
		return "", err
	}

	if force {
		return suggestion, nil
	}
	return "", &apperr.NameConflictError{Name: name, Suggestion: suggestion}
}

// suggest : перебирает "имя(1).ext", "имя(2).ext", ... — первый свободный
// номер побеждает, поэтому предложение воспроизводимо при неизменной области
func (r *NameResolver) suggest(ctx context.Context, exec sqlx.ExtContext, scope NameScope, name string) (string, error) {
	base, ext := splitName(name)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s(%d)%s", base, n, ext)

		taken, err := r.exists(ctx, exec, scope, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (r *NameResolver) exists(ctx context.Context, exec sqlx.ExtContext, scope NameScope, name string) (bool, error) {
	if scope.Type == model.TypeCollection {
		return r.collectionRepository.ExistsActiveName(ctx, exec, scope.OwnerUUID, name, scope.ExcludeUUID)
	}
	return r.fileRepository.ExistsActiveName(ctx, exec, scope.OwnerUUID, scope.ParentUUID, name, scope.ExcludeUUID)
}

// NormalizeName : отбрасывает пробелы по краям и отвергает пустые
// и заведомо недопустимые имена
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > 255 {
		return "", apperr.ErrInvalidName
	}
	if strings.ContainsAny(name, "/\x00") {
		return "", apperr.ErrInvalidName
	}
	return name, nil
}

// splitName : "report.pdf" → ("report", ".pdf"); у коллекций и файлов
// без расширения вся строка считается базой
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
