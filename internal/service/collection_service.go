package service

import (
	"context"
	"fmt"
	"log"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/util"
)

type CollectionService struct {
	fileRepository       ports.FileRepository
	collectionRepository ports.CollectionRepository
	membershipRepository ports.MembershipRepository
	cacheRepository      ports.CacheRepository
	resolver             *NameResolver
}

func NewCollectionService(
	fileRepository ports.FileRepository,
	collectionRepository ports.CollectionRepository,
	membershipRepository ports.MembershipRepository,
	cacheRepository ports.CacheRepository,
	resolver *NameResolver,
) *CollectionService {
	return &CollectionService{
		fileRepository:       fileRepository,
		collectionRepository: collectionRepository,
		membershipRepository: membershipRepository,
		cacheRepository:      cacheRepository,
		resolver:             resolver,
	}
}

// Create : создаёт коллекцию, имя проверяется среди активных коллекций владельца
func (s *CollectionService) Create(ctx context.Context, ownerUUID string, name string, force bool) (*model.Collection, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[CollectionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	scope := NameScope{
		Type:      model.TypeCollection,
		OwnerUUID: ownerUUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, name, force)
	if err != nil {
		return nil, err
	}

	collection := &model.Collection{
		UUID:      util.NewID(),
		OwnerUUID: ownerUUID,
		Name:      finalName,
		State:     model.StateActive,
	}

	if err := s.collectionRepository.Create(ctx, exec, collection); err != nil {
		return nil, util.LogError("[CollectionService] не удалось сохранить коллекцию в БД", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[CollectionService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[CollectionService] коллекция %s успешно создана", finalName)

	return collection, nil
}

// List : активные коллекции владельца
func (s *CollectionService) List(ctx context.Context, ownerUUID string) ([]model.Collection, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[CollectionService] database connection не найден в context")
	}

	return s.collectionRepository.ListActiveByOwner(ctx, db, ownerUUID)
}

// Get : коллекция вместе со списком её файлов. Файлы в корзине остаются
// в выдаче (корзина неглубокая), purged не показываются
func (s *CollectionService) Get(ctx context.Context, collectionUUID string, ownerUUID string) (*model.Collection, []model.File, error) {
	collectionUUID, err := util.ValidateID(collectionUUID)
	if err != nil {
		return nil, nil, err
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, nil, fmt.Errorf("[CollectionService] database connection не найден в context")
	}

	collection, err := s.collectionRepository.GetByUUID(ctx, db, collectionUUID, ownerUUID)
	if err != nil {
		return nil, nil, err
	}
	if collection.State == model.StatePurged {
		return nil, nil, apperr.ErrNotFound
	}

	files, err := s.membershipRepository.ListFilesOf(ctx, db, collectionUUID)
	if err != nil {
		return nil, nil, err
	}

	return collection, files, nil
}

// Rename : переименовывает активную коллекцию через резолвер конфликтов
func (s *CollectionService) Rename(ctx context.Context, collectionUUID string, ownerUUID string, newName string, force bool) (*model.Collection, error) {
	collectionUUID, err := util.ValidateID(collectionUUID)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[CollectionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	collection, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return nil, err
	}
	if collection.State != model.StateActive {
		return nil, apperr.ErrInvalidState
	}

	scope := NameScope{
		Type:        model.TypeCollection,
		OwnerUUID:   ownerUUID,
		ExcludeUUID: collection.UUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, newName, force)
	if err != nil {
		return nil, err
	}

	rows, err := s.collectionRepository.Rename(ctx, exec, collectionUUID, ownerUUID, finalName)
	if err != nil {
		return nil, util.LogError("[CollectionService] не удалось переименовать коллекцию", err)
	}
	if rows == 0 {
		return nil, apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[CollectionService] не удалось закоммитить транзакцию", err)
	}

	collection.Name = finalName
	return collection, nil
}

// AddFile : добавляет файл в коллекцию. Обе стороны должны быть активны,
// повторное добавление — явная ошибка ErrAlreadyMember
func (s *CollectionService) AddFile(ctx context.Context, fileUUID string, collectionUUID string, ownerUUID string) error {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return err
	}
	collectionUUID, err = util.ValidateID(collectionUUID)
	if err != nil {
		return err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[CollectionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return err
	}
	if file.State != model.StateActive {
		return apperr.ErrNotFound
	}

	collection, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID)
	if err != nil {
		return err
	}
	if collection.State != model.StateActive {
		return apperr.ErrNotFound
	}

	if err := s.membershipRepository.Add(ctx, exec, fileUUID, collectionUUID); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[CollectionService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[CollectionService] файл %s добавлен в коллекцию %s", fileUUID, collectionUUID)
	return nil
}

// RemoveFile : убирает файл из коллекции; отсутствующая пара — ErrNotFound
func (s *CollectionService) RemoveFile(ctx context.Context, fileUUID string, collectionUUID string, ownerUUID string) error {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return err
	}
	collectionUUID, err = util.ValidateID(collectionUUID)
	if err != nil {
		return err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[CollectionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	// владелец проверяется по коллекции: чужую связь удалить нельзя
	if _, err := s.collectionRepository.GetByUUID(ctx, exec, collectionUUID, ownerUUID); err != nil {
		return err
	}

	if err := s.membershipRepository.Remove(ctx, exec, fileUUID, collectionUUID); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[CollectionService] не удалось закоммитить транзакцию", err)
	}

	return nil
}

// ListCollectionsOfFile : коллекции, в которых состоит файл владельца
func (s *CollectionService) ListCollectionsOfFile(ctx context.Context, fileUUID string, ownerUUID string) ([]model.Collection, error) {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return nil, err
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[CollectionService] database connection не найден в context")
	}

	if _, err := s.fileRepository.GetByUUID(ctx, db, fileUUID, ownerUUID); err != nil {
		return nil, err
	}

	return s.membershipRepository.ListCollectionsOf(ctx, db, fileUUID)
}
