package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/model/requestresponse"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/security"
	"file-storage-server/internal/util"
)

type FileService struct {
	fileRepository       ports.FileRepository
	collectionRepository ports.CollectionRepository
	cacheRepository      ports.CacheRepository
	storageInterface     ports.S3Storage
	resolver             *NameResolver
	ttl                  time.Duration
}

func NewFileService(
	fileRepository ports.FileRepository,
	collectionRepository ports.CollectionRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	resolver *NameResolver,
	ttl time.Duration,
) *FileService {
	return &FileService{
		fileRepository:       fileRepository,
		collectionRepository: collectionRepository,
		cacheRepository:      cacheRepository,
		storageInterface:     storageInterface,
		resolver:             resolver,
		ttl:                  ttl,
	}
}

// Upload : создаёт запись файла и возвращает pre-signed PUT URL для загрузки
// содержимого. Конфликт имени при загрузке разрешается резолвером: при
// force=false клиент получает предложение, при force=true оно применяется сразу
func (s *FileService) Upload(ctx context.Context, file *model.File, force bool) (string, error) {
	if file.ParentUUID != nil {
		parentUUID, err := util.ValidateID(*file.ParentUUID)
		if err != nil {
			return "", err
		}
		file.ParentUUID = &parentUUID
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return "", util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if file.ParentUUID != nil {
		parent, err := s.collectionRepository.GetByUUID(ctx, exec, *file.ParentUUID, file.OwnerUUID)
		if err != nil {
			return "", err
		}
		if parent.State != model.StateActive {
			return "", apperr.ErrInvalidState
		}
	}

	scope := NameScope{
		Type:       model.TypeFile,
		OwnerUUID:  file.OwnerUUID,
		ParentUUID: file.ParentUUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, file.Filename, force)
	if err != nil {
		return "", err
	}
	file.Filename = finalName

	putURL, err := s.storageInterface.GeneratePresignedPutURL(ctx, file.StoragePath, s.ttl)
	if err != nil {
		return "", util.LogError("[FileService] не удалось сгенерировать pre-signed PUT URL", err)
	}

	if err := s.fileRepository.Create(ctx, exec, file); err != nil {
		return "", util.LogError("[FileService] не удалось сохранить файл в БД", err)
	}

	if err := commit(); err != nil {
		return "", util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[FileService] файл %s успешно создан", file.Filename)

	return putURL, nil
}

// GetFile : возвращает метаданные файла владельца. Для активного файла с
// загруженным содержимым добавляется pre-signed GET URL; tombstone после
// purge наружу не виден
func (s *FileService) GetFile(ctx context.Context, fileUUID string) (*model.GetFileResult, error) {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return nil, err
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.cacheRepository.GetFile(ctx, fileUUID)
	if err != nil {
		log.Printf("[FileService] ошибка кэширования: %v", err)
	}

	if file == nil || file.OwnerUUID != claims.UserUUID {
		file, err = s.fileRepository.GetByUUID(ctx, db, fileUUID, claims.UserUUID)
		if err != nil {
			return nil, err
		}

		if file.State == model.StateActive {
			if err := s.cacheRepository.SetFile(ctx, file); err != nil {
				log.Printf("[FileService] ошибка кэширования файла: %v", err)
			}
		}
	} else {
		log.Printf("[FileService] файл %s взят из кэша Redis", file.Filename)
	}

	if file.State == model.StatePurged {
		return nil, apperr.ErrNotFound
	}

	var getURL string
	if file.State == model.StateActive && file.StoragePath != "" {
		getURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, file.StoragePath, s.ttl)
		if err != nil {
			return nil, util.LogError("[FileService] не удалось сгенерировать pre-signed GET URL", err)
		}
	}

	return &model.GetFileResult{
		File:   file,
		GetURL: getURL,
	}, nil
}

// ListFiles : активные файлы владельца с pre-signed URL, опционально
// ограниченные одной коллекцией
func (s *FileService) ListFiles(ctx context.Context, ownerUUID string, parentUUID string, limit int) ([]requestresponse.FileResponse, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	var parent *string
	if parentUUID != "" {
		normalized, err := util.ValidateID(parentUUID)
		if err != nil {
			return nil, err
		}
		parent = &normalized
	}

	files, err := s.fileRepository.ListActiveByOwner(ctx, db, ownerUUID, parent, limit)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось получить список файлов", err)
	}

	responses := make([]requestresponse.FileResponse, 0, len(files))
	for _, file := range files {
		url, err := s.storageInterface.GeneratePresignedGetURL(ctx, file.StoragePath, 15*time.Minute)
		if err != nil {
			log.Printf("[FileService] ошибка генерации pre-signed URL для файла %s: %v", file.UUID, err)
			url = ""
		}
		responses = append(responses, requestresponse.FileResponseFromModel(&file, url))
	}

	return responses, nil
}

// RenameFile : переименовывает активный файл. Резолвер отрабатывает и
// повторную отправку того же имени: rename файла в его собственное имя
// конфликтом не считается
func (s *FileService) RenameFile(ctx context.Context, fileUUID string, ownerUUID string, newFilename string, force bool) (*model.File, error) {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return nil, err
	}
	if file.State != model.StateActive {
		return nil, apperr.ErrInvalidState
	}

	scope := NameScope{
		Type:        model.TypeFile,
		OwnerUUID:   ownerUUID,
		ParentUUID:  file.ParentUUID,
		ExcludeUUID: file.UUID,
	}
	finalName, err := s.resolver.Resolve(ctx, exec, scope, newFilename, force)
	if err != nil {
		return nil, err
	}

	rows, err := s.fileRepository.Rename(ctx, exec, fileUUID, ownerUUID, finalName)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось переименовать файл", err)
	}
	if rows == 0 {
		// состояние успело поменяться параллельной операцией
		return nil, apperr.ErrInvalidState
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка удаления файла из кэша: %v", err)
	}

	file.Filename = finalName
	log.Printf("[FileService] файл %s переименован в %s", fileUUID, finalName)

	return file, nil
}
