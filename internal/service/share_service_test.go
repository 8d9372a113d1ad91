package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToken = strings.Repeat("0123456789abcdef", 4)

func newTestShareService() (*service.ShareService, *MockFileRepository, *MockShareRepository, *MockS3Storage) {
	mockFileRepo := new(MockFileRepository)
	mockShareRepo := new(MockShareRepository)
	mockStorage := new(MockS3Storage)

	svc := service.NewShareService(mockFileRepo, mockShareRepo, mockStorage, &config.TTL{
		S3AndRedis:       900,
		ShareDefaultDays: 7,
		ShareMaxDays:     30,
	})
	return svc, mockFileRepo, mockShareRepo, mockStorage
}

// ===== Issue =====

func TestIssueShare_InvalidID(t *testing.T) {
	svc, _, _, _ := newTestShareService()

	_, err := svc.Issue(context.Background(), "short", testOwnerUUID, 7)

	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestIssueShare_FileNotActive(t *testing.T) {
	svc, mockFileRepo, _, _ := newTestShareService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	trashed := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateTrashed}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(trashed, nil)

	_, err := svc.Issue(ctx, testFileUUID, testOwnerUUID, 7)

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestIssueShare_FileNotFound(t *testing.T) {
	svc, mockFileRepo, _, _ := newTestShareService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(nil, apperr.ErrNotFound)

	_, err := svc.Issue(ctx, testFileUUID, testOwnerUUID, 7)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// ===== Resolve =====

func TestResolveShare_Success(t *testing.T) {
	svc, mockFileRepo, mockShareRepo, mockStorage := newTestShareService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	share := &model.ShareToken{
		Token:     testToken,
		FileUUID:  testFileUUID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	file := &model.File{
		UUID:        testFileUUID,
		State:       model.StateActive,
		StoragePath: "users/owner-1/files/report.pdf",
	}

	mockShareRepo.On("GetByToken", ctx, db, testToken).Return(share, nil)
	mockFileRepo.On("GetAnyByUUID", ctx, db, testFileUUID).Return(file, nil)
	mockStorage.On("GeneratePresignedGetURL", ctx, file.StoragePath, 900*time.Second).Return("http://get-url", nil)

	result, err := svc.Resolve(ctx, testToken)

	require.NoError(t, err)
	assert.Equal(t, file, result.File)
	assert.Equal(t, "http://get-url", result.GetURL)
	mockShareRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestResolveShare_Expired(t *testing.T) {
	svc, _, mockShareRepo, _ := newTestShareService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	share := &model.ShareToken{
		Token:     testToken,
		FileUUID:  testFileUUID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	mockShareRepo.On("GetByToken", ctx, db, testToken).Return(share, nil)

	_, err := svc.Resolve(ctx, testToken)

	assert.ErrorIs(t, err, apperr.ErrExpired)
}

// Файл в корзине: токен ещё жив, но отдача блокируется; после
// восстановления файла ссылка заработает без перевыпуска
func TestResolveShare_FileTrashed(t *testing.T) {
	svc, mockFileRepo, mockShareRepo, _ := newTestShareService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	share := &model.ShareToken{
		Token:     testToken,
		FileUUID:  testFileUUID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	trashed := &model.File{UUID: testFileUUID, State: model.StateTrashed}

	mockShareRepo.On("GetByToken", ctx, db, testToken).Return(share, nil)
	mockFileRepo.On("GetAnyByUUID", ctx, db, testFileUUID).Return(trashed, nil)

	_, err := svc.Resolve(ctx, testToken)

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestResolveShare_UnknownToken(t *testing.T) {
	svc, _, mockShareRepo, _ := newTestShareService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	mockShareRepo.On("GetByToken", ctx, db, testToken).Return(nil, apperr.ErrNotFound)

	_, err := svc.Resolve(ctx, testToken)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResolveShare_MalformedToken(t *testing.T) {
	svc, _, _, _ := newTestShareService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	_, err := svc.Resolve(ctx, "zz")

	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

// ===== Revoke =====

func TestRevokeShare_Success(t *testing.T) {
	svc, mockFileRepo, mockShareRepo, _ := newTestShareService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockShareRepo.On("Delete", ctx, exec, testToken, testOwnerUUID).Return(int64(1), nil)

	err := svc.Revoke(ctx, testToken, testOwnerUUID)

	require.NoError(t, err)
	mockShareRepo.AssertExpectations(t)
}

// Чужой или несуществующий токен: удаление не затронуло строк
func TestRevokeShare_NotFound(t *testing.T) {
	svc, mockFileRepo, mockShareRepo, _ := newTestShareService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockShareRepo.On("Delete", ctx, exec, testToken, testOwnerUUID).Return(int64(0), nil)

	err := svc.Revoke(ctx, testToken, testOwnerUUID)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
