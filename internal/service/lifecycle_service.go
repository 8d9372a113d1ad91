package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/util"
)

// LifecycleService : машина состояний active → trashed → purged (и
// trashed → active). Каждый переход — CAS-обновление одной записи внутри
// транзакции: из двух конкурирующих вызовов побеждает один, второй
// перечитывает запись и получает ErrInvalidState либо идемпотентный успех.
// Удаление блоба из S3 всегда происходит после коммита метаданных и
// никогда его не откатывает
type LifecycleService struct {
	fileRepository       ports.FileRepository
	collectionRepository ports.CollectionRepository
	membershipRepository ports.MembershipRepository
	shareRepository      ports.ShareRepository
	backlogRepository    ports.PurgeBacklogRepository
	cacheRepository      ports.CacheRepository
	storageInterface     ports.S3Storage
	resolver             *NameResolver
}

func NewLifecycleService(
	fileRepository ports.FileRepository,
	collectionRepository ports.CollectionRepository,
	membershipRepository ports.MembershipRepository,
	shareRepository ports.ShareRepository,
	backlogRepository ports.PurgeBacklogRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	resolver *NameResolver,
) *LifecycleService {
	return &LifecycleService{
		fileRepository:       fileRepository,
		collectionRepository: collectionRepository,
		membershipRepository: membershipRepository,
		shareRepository:      shareRepository,
		backlogRepository:    backlogRepository,
		cacheRepository:      cacheRepository,
		storageInterface:     storageInterface,
		resolver:             resolver,
	}
}

// TrashFile : active → trashed. Содержимое и связи с коллекциями не
// трогаются, публичные ссылки перестают работать сами — их валидность
// вычисляется по состоянию файла
func (s *LifecycleService) TrashFile(ctx context.Context, fileUUID string, ownerUUID string) error {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	rows, err := s.fileRepository.MarkTrashed(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось пометить файл удалённым", err)
	}
	if rows == 0 {
		// проигравший из двух конкурентов различает "нет записи"
		// и "запись уже не active" повторным чтением
		if _, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID); err != nil {
			return err
		}
		return apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[LifecycleService] ошибка удаления файла из кэша: %v", err)
	}

	log.Printf("[LifecycleService] файл %s перемещён в корзину", fileUUID)
	return nil
}

// TrashCollection : active → trashed. Файлы-участники остаются active и
// адресуемыми — корзина неглубокая, это осознанное решение, а не упущение
func (s *LifecycleService) TrashCollection(ctx context.Context, collectionUUID string, ownerUUID string) error {
	collectionUUID, err := util.ValidateID(collectionUUID)
	if err != nil {
		return err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	rows, err := s.collectionRepository.MarkTrashed(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось пометить коллекцию удалённой", err)
	}
	if rows == 0 {
		if _, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID); err != nil {
			return err
		}
		return apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] коллекция %s перемещена в корзину", collectionUUID)
	return nil
}

// RestoreFile : trashed → active. Имя заново прогоняется через резолвер —
// пока файл лежал в корзине, его имя мог занять новый сосед. Если исходная
// коллекция тем временем была удалена безвозвратно, файл возвращается в
// корень "unfiled", о чём сообщает второй результат
func (s *LifecycleService) RestoreFile(ctx context.Context, fileUUID string, ownerUUID string, newName string, force bool) (*model.File, bool, error) {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return nil, false, err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, false, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return nil, false, err
	}
	if file.State != model.StateTrashed {
		return nil, false, apperr.ErrInvalidState
	}

	parent := file.RestoreParentUUID
	rerouted := false
	if parent != nil {
		collection, err := s.collectionRepository.GetByUUID(ctx, exec, *parent, ownerUUID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			parent = nil
			rerouted = true
		case err != nil:
			return nil, false, err
		case collection.State != model.StateActive:
			parent = nil
			rerouted = true
		}
	}

	desired := file.Filename
	if newName != "" {
		desired = newName
	}

	scope := NameScope{
		Type:        model.TypeFile,
		OwnerUUID:   ownerUUID,
		ParentUUID:  parent,
		ExcludeUUID: file.UUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, desired, force)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.fileRepository.MarkRestored(ctx, exec, fileUUID, ownerUUID, finalName, parent)
	if err != nil {
		return nil, false, util.LogError("[LifecycleService] не удалось восстановить файл", err)
	}
	if rows == 0 {
		return nil, false, apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return nil, false, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[LifecycleService] ошибка удаления файла из кэша: %v", err)
	}

	file.State = model.StateActive
	file.Filename = finalName
	file.ParentUUID = parent
	file.RestoreParentUUID = nil
	file.DeletedAt = nil

	if rerouted {
		log.Printf("[LifecycleService] файл %s восстановлен в корень: исходная коллекция удалена безвозвратно", fileUUID)
	} else {
		log.Printf("[LifecycleService] файл %s восстановлен как %s", fileUUID, finalName)
	}

	return file, rerouted, nil
}

// RestoreCollection : trashed → active с повторным разрешением имени
func (s *LifecycleService) RestoreCollection(ctx context.Context, collectionUUID string, ownerUUID string, newName string, force bool) (*model.Collection, error) {
	collectionUUID, err := util.ValidateID(collectionUUID)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	collection, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return nil, err
	}
	if collection.State != model.StateTrashed {
		return nil, apperr.ErrInvalidState
	}

	desired := collection.Name
	if newName != "" {
		desired = newName
	}

	scope := NameScope{
		Type:        model.TypeCollection,
		OwnerUUID:   ownerUUID,
		ExcludeUUID: collection.UUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, desired, force)
	if err != nil {
		return nil, err
	}

	rows, err := s.collectionRepository.MarkRestored(ctx, exec, collectionUUID, ownerUUID, finalName)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось восстановить коллекцию", err)
	}
	if rows == 0 {
		return nil, apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	collection.State = model.StateActive
	collection.Name = finalName
	collection.DeletedAt = nil

	log.Printf("[LifecycleService] коллекция %s восстановлена как %s", collectionUUID, finalName)
	return collection, nil
}

// Purge : trashed → purged, необратимо и идемпотентно: повторный purge
// уже очищенной записи — успех-no-op. Для файла каскадом снимаются связи
// с коллекциями и публичные токены, блоб встаёт в очередь на удаление;
// для коллекции снимаются только связи — файлы-участники не трогаются
func (s *LifecycleService) Purge(ctx context.Context, itemUUID string, ownerUUID string, itemType string) error {
	itemUUID, err := util.ValidateID(itemUUID)
	if err != nil {
		return err
	}

	switch itemType {
	case model.TypeFile:
		return s.purgeFile(ctx, itemUUID, ownerUUID)
	case model.TypeCollection:
		return s.purgeCollection(ctx, itemUUID, ownerUUID)
	default:
		return apperr.ErrInvalidID
	}
}

func (s *LifecycleService) purgeFile(ctx context.Context, fileUUID string, ownerUUID string) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return err
	}
	if file.State == model.StatePurged {
		return nil // идемпотентность: уже очищен
	}
	if file.State != model.StateTrashed {
		return apperr.ErrInvalidState
	}

	rows, err := s.fileRepository.MarkPurged(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось очистить файл", err)
	}
	if rows == 0 {
		// конкурент успел раньше: либо уже purged (успех), либо восстановлен
		current, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
		if err != nil {
			return err
		}
		if current.State == model.StatePurged {
			return nil
		}
		return apperr.ErrInvalidState
	}

	if err := s.membershipRepository.RemoveAllForFile(ctx, exec, fileUUID); err != nil {
		return err
	}
	if err := s.shareRepository.DeleteAllForFile(ctx, exec, fileUUID); err != nil {
		return err
	}
	if file.StoragePath != "" {
		if err := s.backlogRepository.Enqueue(ctx, exec, file.StoragePath, fileUUID); err != nil {
			return err
		}
	}

	if err := commit(); err != nil {
		return util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[LifecycleService] ошибка удаления файла из кэша: %v", err)
	}

	// блоб удаляется уже после коммита, вне транзакции и блокировок;
	// при сбое запись остаётся в очереди и будет повторена sweeper-ом
	if file.StoragePath != "" {
		s.releaseBlob(ctx, file.StoragePath)
	}

	log.Printf("[LifecycleService] файл %s очищен безвозвратно", fileUUID)
	return nil
}

func (s *LifecycleService) purgeCollection(ctx context.Context, collectionUUID string, ownerUUID string) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	collection, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return err
	}
	if collection.State == model.StatePurged {
		return nil
	}
	if collection.State != model.StateTrashed {
		return apperr.ErrInvalidState
	}

	rows, err := s.collectionRepository.MarkPurged(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось очистить коллекцию", err)
	}
	if rows == 0 {
		current, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID)
		if err != nil {
			return err
		}
		if current.State == model.StatePurged {
			return nil
		}
		return apperr.ErrInvalidState
	}

	if err := s.membershipRepository.RemoveAllForCollection(ctx, exec, collectionUUID); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] коллекция %s очищена безвозвратно", collectionUUID)
	return nil
}

// releaseBlob : разовая попытка удалить блоб сразу после purge.
// Неудача — не ошибка операции: очередь вычитает sweeper
func (s *LifecycleService) releaseBlob(ctx context.Context, storagePath string) {
	if err := s.storageInterface.DeleteObject(ctx, storagePath); err != nil {
		log.Printf("[LifecycleService] блоб %s не удалён, будет повторено: %v", storagePath, err)
		return
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		log.Printf("[LifecycleService] не удалось начать транзакцию очереди: %v", err)
		return
	}
	defer rollback()

	if err := s.backlogRepository.Remove(ctx, exec, storagePath); err != nil {
		log.Printf("[LifecycleService] не удалось убрать блоб из очереди: %v", err)
		return
	}
	if err := commit(); err != nil {
		log.Printf("[LifecycleService] не удалось закоммитить очистку очереди: %v", err)
	}
}

// ListTrash : объединённое содержимое корзины владельца
func (s *LifecycleService) ListTrash(ctx context.Context, ownerUUID string) ([]model.TrashRecord, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[LifecycleService] database connection не найден в context")
	}

	files, err := s.fileRepository.ListTrashedByOwner(ctx, db, ownerUUID)
	if err != nil {
		return nil, err
	}
	collections, err := s.collectionRepository.ListTrashedByOwner(ctx, db, ownerUUID)
	if err != nil {
		return nil, err
	}

	records := make([]model.TrashRecord, 0, len(files)+len(collections))
	for _, file := range files {
		record := model.TrashRecord{
			UUID:      file.UUID,
			Name:      file.Filename,
			Type:      model.TypeFile,
			SizeBytes: file.SizeBytes,
		}
		if file.DeletedAt != nil {
			record.DeletedAt = *file.DeletedAt
		}
		if file.RestoreParentUUID != nil {
			record.OriginalParentUUID = *file.RestoreParentUUID
		}
		records = append(records, record)
	}
	for _, collection := range collections {
		record := model.TrashRecord{
			UUID: collection.UUID,
			Name: collection.Name,
			Type: model.TypeCollection,
		}
		if collection.DeletedAt != nil {
			record.DeletedAt = *collection.DeletedAt
		}
		records = append(records, record)
	}

	return records, nil
}
