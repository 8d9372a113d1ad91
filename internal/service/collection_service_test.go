package service_test

import (
	"context"
	"testing"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"
	"file-storage-server/internal/model"
	"file-storage-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCollectionService() (*service.CollectionService, *MockFileRepository, *MockCollectionRepository, *MockMembershipRepository) {
	mockFileRepo := new(MockFileRepository)
	mockCollectionRepo := new(MockCollectionRepository)
	mockMembershipRepo := new(MockMembershipRepository)
	mockCache := new(MockCacheRepository)

	resolver := service.NewNameResolver(mockFileRepo, mockCollectionRepo)
	svc := service.NewCollectionService(mockFileRepo, mockCollectionRepo, mockMembershipRepo, mockCache, resolver)

	return svc, mockFileRepo, mockCollectionRepo, mockMembershipRepo
}

// ===== Create =====

func TestCreateCollection_Success(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, _ := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockCollectionRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, "Отчёты", "").Return(false, nil)
	mockCollectionRepo.On("Create", ctx, exec, mock.MatchedBy(func(c *model.Collection) bool {
		return c.Name == "Отчёты" && c.State == model.StateActive
	})).Return(nil)

	collection, err := svc.Create(ctx, testOwnerUUID, "Отчёты", false)

	require.NoError(t, err)
	assert.Equal(t, "Отчёты", collection.Name)
	assert.Equal(t, model.StateActive, collection.State)
	assert.Len(t, collection.UUID, 32)
	mockCollectionRepo.AssertExpectations(t)
}

func TestCreateCollection_NameConflict(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, _ := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockCollectionRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, "Отчёты", "").Return(true, nil)
	mockCollectionRepo.On("ExistsActiveName", ctx, exec, testOwnerUUID, "Отчёты(1)", "").Return(false, nil)

	_, err := svc.Create(ctx, testOwnerUUID, "Отчёты", false)

	require.Error(t, err)
	conflict, ok := apperr.AsNameConflict(err)
	require.True(t, ok)
	assert.Equal(t, "Отчёты(1)", conflict.Suggestion)
}

// ===== Get =====

func TestGetCollection_PurgedHiddenAsNotFound(t *testing.T) {
	svc, _, mockCollectionRepo, _ := newTestCollectionService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	purged := &model.Collection{UUID: testCollectionUUID, State: model.StatePurged}
	mockCollectionRepo.On("GetByUUID", ctx, db, testCollectionUUID, testOwnerUUID).Return(purged, nil)

	_, _, err := svc.Get(ctx, testCollectionUUID, testOwnerUUID)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetCollection_WithFiles(t *testing.T) {
	svc, _, mockCollectionRepo, mockMembershipRepo := newTestCollectionService()
	db := &config.Database{}
	ctx := context.WithValue(context.Background(), "db", db)

	collection := &model.Collection{UUID: testCollectionUUID, Name: "Отчёты", State: model.StateActive}
	files := []model.File{
		{UUID: testFileUUID, Filename: "report.pdf", State: model.StateActive},
		{UUID: "4f2a6c1e9b4d4f0a8c7e5d2b1a9f6e3c", Filename: "draft.pdf", State: model.StateTrashed},
	}

	mockCollectionRepo.On("GetByUUID", ctx, db, testCollectionUUID, testOwnerUUID).Return(collection, nil)
	mockMembershipRepo.On("ListFilesOf", ctx, db, testCollectionUUID).Return(files, nil)

	got, gotFiles, err := svc.Get(ctx, testCollectionUUID, testOwnerUUID)

	require.NoError(t, err)
	assert.Equal(t, collection, got)
	// файл в корзине остаётся в выдаче: корзина неглубокая
	assert.Len(t, gotFiles, 2)
}

// ===== AddFile =====

func TestAddFile_Success(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, mockMembershipRepo := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}
	collection := &model.Collection{UUID: testCollectionUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(file, nil)
	mockCollectionRepo.On("GetByUUID", ctx, exec, testCollectionUUID, testOwnerUUID).Return(collection, nil)
	mockMembershipRepo.On("Add", ctx, exec, testFileUUID, testCollectionUUID).Return(nil)

	err := svc.AddFile(ctx, testFileUUID, testCollectionUUID, testOwnerUUID)

	require.NoError(t, err)
	mockMembershipRepo.AssertExpectations(t)
}

func TestAddFile_Duplicate(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, mockMembershipRepo := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	file := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}
	collection := &model.Collection{UUID: testCollectionUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(file, nil)
	mockCollectionRepo.On("GetByUUID", ctx, exec, testCollectionUUID, testOwnerUUID).Return(collection, nil)
	mockMembershipRepo.On("Add", ctx, exec, testFileUUID, testCollectionUUID).Return(apperr.ErrAlreadyMember)

	err := svc.AddFile(ctx, testFileUUID, testCollectionUUID, testOwnerUUID)

	assert.ErrorIs(t, err, apperr.ErrAlreadyMember)
}

// Файл в корзине нельзя добавить в коллекцию: для операции он не существует
func TestAddFile_TrashedFile(t *testing.T) {
	svc, mockFileRepo, _, _ := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	trashed := &model.File{UUID: testFileUUID, OwnerUUID: testOwnerUUID, State: model.StateTrashed}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockFileRepo.On("GetByUUID", ctx, exec, testFileUUID, testOwnerUUID).Return(trashed, nil)

	err := svc.AddFile(ctx, testFileUUID, testCollectionUUID, testOwnerUUID)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// ===== RemoveFile =====

func TestRemoveFile_PairNotFound(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, mockMembershipRepo := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	collection := &model.Collection{UUID: testCollectionUUID, OwnerUUID: testOwnerUUID, State: model.StateActive}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockCollectionRepo.On("GetByUUID", ctx, exec, testCollectionUUID, testOwnerUUID).Return(collection, nil)
	mockMembershipRepo.On("Remove", ctx, exec, testFileUUID, testCollectionUUID).Return(apperr.ErrNotFound)

	err := svc.RemoveFile(ctx, testFileUUID, testCollectionUUID, testOwnerUUID)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// ===== Rename =====

func TestRenameCollection_TrashedCollection(t *testing.T) {
	svc, mockFileRepo, mockCollectionRepo, _ := newTestCollectionService()
	ctx := context.Background()
	exec, rollback, commit := noopTx()

	trashed := &model.Collection{UUID: testCollectionUUID, OwnerUUID: testOwnerUUID, State: model.StateTrashed}

	mockFileRepo.On("BeginTX", ctx).Return(exec, rollback, commit, nil)
	mockCollectionRepo.On("GetByUUID", ctx, exec, testCollectionUUID, testOwnerUUID).Return(trashed, nil)

	_, err := svc.Rename(ctx, testCollectionUUID, testOwnerUUID, "Архив", false)

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
