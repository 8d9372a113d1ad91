package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/ports"
	"file-storage-server/internal/util"
)

// ShareService : публичные ссылки на скачивание. Валидность ссылки не
// хранится отдельным флагом — она вычисляется в момент обращения из
// expires_at и текущего состояния файла, поэтому trash/purge файла
// мгновенно гасит все его ссылки без дополнительной записи
type ShareService struct {
	fileRepository   ports.FileRepository
	shareRepository  ports.ShareRepository
	storageInterface ports.S3Storage
	ttl              *config.TTL
}

func NewShareService(
	fileRepository ports.FileRepository,
	shareRepository ports.ShareRepository,
	storageInterface ports.S3Storage,
	ttl *config.TTL,
) *ShareService {
	return &ShareService{
		fileRepository:   fileRepository,
		shareRepository:  shareRepository,
		storageInterface: storageInterface,
		ttl:              ttl,
	}
}

// Issue : выпускает токен для активного файла владельца. ttlDays <= 0
// заменяется значением по умолчанию, верхняя граница ограничена конфигом
func (s *ShareService) Issue(ctx context.Context, fileUUID string, ownerUUID string, ttlDays int) (*model.ShareToken, error) {
	fileUUID, err := util.ValidateID(fileUUID)
	if err != nil {
		return nil, err
	}

	if ttlDays <= 0 {
		ttlDays = s.ttl.ShareDefaultDays
	}
	if ttlDays > s.ttl.ShareMaxDays {
		ttlDays = s.ttl.ShareMaxDays
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ShareService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID, ownerUUID)
	if err != nil {
		return nil, err
	}
	if file.State != model.StateActive {
		return nil, apperr.ErrInvalidState
	}

	token, err := util.GenerateUniqueShareToken(ctx, exec)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	share := &model.ShareToken{
		Token:     token,
		FileUUID:  fileUUID,
		OwnerUUID: ownerUUID,
		IssuedAt:  now,
		ExpiresAt: now.AddDate(0, 0, ttlDays),
	}

	if err := s.shareRepository.Create(ctx, exec, share); err != nil {
		return nil, util.LogError("[ShareService] не удалось сохранить токен в БД", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ShareService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[ShareService] выпущен токен для файла %s, действует до %s", fileUUID, share.ExpiresAt.Format(time.RFC3339))
	return share, nil
}

// Resolve : анонимное обращение по токену. Просроченный токен — ErrExpired,
// файл в корзине или очищенный — ErrInvalidState: ссылка оживёт сама,
// если файл восстановят до истечения срока
func (s *ShareService) Resolve(ctx context.Context, token string) (*model.GetFileResult, error) {
	token, err := util.ValidateShareToken(token)
	if err != nil {
		return nil, err
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[ShareService] database connection не найден в context")
	}

	share, err := s.shareRepository.GetByToken(ctx, db, token)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(share.ExpiresAt) {
		return nil, apperr.ErrExpired
	}

	file, err := s.fileRepository.GetAnyByUUID(ctx, db, share.FileUUID)
	if err != nil {
		return nil, err
	}
	if file.State != model.StateActive {
		return nil, apperr.ErrInvalidState
	}

	var getURL string
	if file.StoragePath != "" {
		getURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, file.StoragePath, time.Duration(s.ttl.S3AndRedis)*time.Second)
		if err != nil {
			return nil, util.LogError("[ShareService] не удалось сгенерировать pre-signed GET URL", err)
		}
	}

	return &model.GetFileResult{
		File:   file,
		GetURL: getURL,
	}, nil
}

// Revoke : владелец досрочно отзывает токен
func (s *ShareService) Revoke(ctx context.Context, token string, ownerUUID string) error {
	token, err := util.ValidateShareToken(token)
	if err != nil {
		return err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[ShareService] не удалось начать транзакцию", err)
	}
	defer rollback()

	rows, err := s.shareRepository.Delete(ctx, exec, token, ownerUUID)
	if err != nil {
		return util.LogError("[ShareService] не удалось отозвать токен", err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}

	if err := commit(); err != nil {
		return util.LogError("[ShareService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[ShareService] токен отозван владельцем %s", ownerUUID)
	return nil
}
