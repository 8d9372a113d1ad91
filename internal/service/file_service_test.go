package service_test

import (
	"context"
	"testing"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/security"
	"file-storage-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestFileService() (*service.FileService, *MockFileRepository, *MockCollectionRepository, *MockCacheRepository, *MockS3Storage) {
	mockFileRepo := new(MockFileRepository)
	mockCollectionRepo := new(MockCollectionRepository)
	mockCache := new(MockCacheRepository)
	mockStorage := new(MockS3Storage)

	resolver := service.NewNameResolver(mockFileRepo, mockCollectionRepo)
	svc := service.NewFileService(mockFileRepo, mockCollectionRepo, mockCache, mockStorage, resolver, time.Hour)

	return svc, mockFileRepo, mockCollectionRepo, mockCache, mockStorage
}

func authorizedContext(ownerUUID string) context.Context {
	ctx := context.WithValue(context.Background(), "db", &config.Database{})
	return context.WithValue(ctx, security.UserContextKey, &security.Claims{UserUUID: ownerUUID})
}

// ===== Upload =====

func TestUpload_Success(t *testing.T) {
	svc, mockFileRepo, _, _, mockStorage := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{
		UUID:        testFileUUID,
		OwnerUUID:   testOwnerUUID,
		Filename:    "report.pdf",
		StoragePath: "users/owner-1/files/report.pdf",
		State:       model.StateActive,
	}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "report.pdf", "").Return(false, nil)
	mockStorage.On("GeneratePresignedPutURL", ctx, file.StoragePath, time.Hour).Return("http://put-url", nil)
	mockFileRepo.On("Create", ctx, exec, file).Return(nil)

	putURL, err := svc.Upload(ctx, file, false)

	require.NoError(t, err)
	assert.Equal(t, "http://put-url", putURL)
	mockFileRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestUpload_NameConflict(t *testing.T) {
	svc, mockFileRepo, _, _, _ := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, Filename: "report.pdf"}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "report.pdf", "").Return(true, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "report(1).pdf", "").Return(false, nil)

	_, err := svc.Upload(ctx, file, false)

	require.Error(t, err)
	conflict, ok := apperr.AsNameConflict(err)
	require.True(t, ok)
	assert.Equal(t, "report(1).pdf", conflict.Suggestion)
}

// force=true: предложенное имя применяется сразу, запись создаётся под ним
func TestUpload_NameConflictWithForce(t *testing.T) {
	svc, mockFileRepo, _, _, mockStorage := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{
		UUID:        testFileUUID,
		OwnerUUID:   testOwnerUUID,
		Filename:    "report.pdf",
		StoragePath: "users/owner-1/files/report.pdf",
	}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "report.pdf", "").Return(true, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "report(1).pdf", "").Return(false, nil)
	mockStorage.On("GeneratePresignedPutURL", ctx, file.StoragePath, time.Hour).Return("http://put-url", nil)
	mockFileRepo.On("Create", ctx, exec, file).Return(nil)

	_, err := svc.Upload(ctx, file, true)

	require.NoError(t, err)
	assert.Equal(t, "report(1).pdf", file.Filename)
}

func TestUpload_IntoTrashedCollection(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, _, _ := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	parent := testCollectionUUID
	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, Filename: "report.pdf", ParentUUID: &parent}
	trashedCollection := &model.Collection{UUID: testCollectionUUID, State: model.StateTrashed}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockCollectionRepo.On("GetByUUID", ctx, exec, testCollectionUUID, testOwnerUUID).Return(trashedCollection, nil)

	_, err := svc.Upload(ctx, file, false)

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

// ===== GetFile =====

func TestGetFile_FromCache(t *testing.T) {
	svc, _, _, mockCache, mockStorage := newTestFileService()
	ctx := authorizedContext(testOwnerUUID)

	file := &model.File{
		UUID:        testFileUUID,
		OwnerUUID:   testOwnerUUID,
		State:       model.StateActive,
		StoragePath: "users/owner-1/files/report.pdf",
	}

	mockCache.On("GetFile", ctx, testFileUUID).Return(file, nil)
	mockStorage.On("GeneratePresignedGetURL", ctx, file.StoragePath, time.Hour).Return("http://get-url", nil)

	result, err := svc.GetFile(ctx, testFileUUID)

	require.NoError(t, err)
	assert.Equal(t, file, result.File)
	assert.Equal(t, "http://get-url", result.GetURL)
	mockCache.AssertExpectations(t)
}

// Tombstone после purge наружу не отдается
func TestGetFile_PurgedHiddenAsNotFound(t *testing.T) {
	svc, mockFileRepo, _, mockCache, _ := newTestFileService()
	ctx := authorizedContext(testOwnerUUID)

	purged := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StatePurged}

	mockCache.On("GetFile", ctx, testFileUUID).Return(nil, nil)
	mockFileRepo.On("GetByUUID", ctx, mock.Anything, testFileUUID, testOwnerUUID).Return(purged, nil)

	_, err := svc.GetFile(ctx, testFileUUID)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Файл в корзине виден владельцу, но без ссылки на скачивание
func TestGetFile_TrashedWithoutURL(t *testing.T) {
	svc, mockFileRepo, _, mockCache, mockStorage := newTestFileService()
	ctx := authorizedContext(testOwnerUUID)

	trashed := &model.File{
		UUID:        testFileUUID,
		OwnerUUID:   testOwnerUUID,
		State:       model.StateTrashed,
		StoragePath: "users/owner-1/files/report.pdf",
	}

	mockCache.On("GetFile", ctx, testFileUUID).Return(nil, nil)
	mockFileRepo.On("GetByUUID", ctx, mock.Anything, testFileUUID, testOwnerUUID).Return(trashed, nil)

	result, err := svc.GetFile(ctx, testFileUUID)

	require.NoError(t, err)
	assert.Equal(t, "", result.GetURL)
	mockStorage.AssertNotCalled(t, "GeneratePresignedGetURL")
}

func TestGetFile_InvalidID(t *testing.T) {
	svc, _, _, _, _ := newTestFileService()

	_, err := svc.GetFile(authorizedContext(testOwnerUUID), "3F2A-6c1e")

	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

// ===== RenameFile =====

func TestRenameFile_Success(t *testing.T) {
	svc, mockFileRepo, _, mockCache, _ := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, Filename: "report.pdf", State: model.StateActive}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(file, nil)
	mockFileRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, (*string)(nil), "final.pdf", testFileUUID).Return(false, nil)
	mockFileRepo.On("Rename", ctx, exec, testFileUUID, testOwnerUUID, "final.pdf").Return(int64(1), nil)
	mockCache.On("DeleteFile", ctx, testFileUUID).Return(nil)

	renamed, err := svc.RenameFile(ctx, testFileUUID, testOwnerUUID, "final.pdf", false)

	require.NoError(t, err)
	assert.Equal(t, "final.pdf", renamed.Filename)
	mockFileRepo.AssertExpectations(t)
}

func TestRenameFile_TrashedFile(t *testing.T) {
	svc, mockFileRepo, _, _, _ := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	trashed := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateTrashed}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(trashed, nil)

	_, err := svc.RenameFile(ctx, testFileUUID, testOwnerUUID, "final.pdf", false)

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestRenameFile_EmptyName(t *testing.T) {
	svc, mockFileRepo, _, _, _ := newTestFileService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(file, nil)

	_, err := svc.RenameFile(ctx, testFileUUID, testOwnerUUID, "   ", false)

	assert.ErrorIs(t, err, apperr.ErrInvalidName)
}

// ===== ListFiles =====

func TestListFiles_InvalidCollectionID(t *testing.T) {
	svc, _, _, _, _ := newTestFileService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	_, err := svc.ListFiles(ctx, testOwnerUUID, "oops", 20)

	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}
