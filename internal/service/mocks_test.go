package service_test

import (
	"context"
	"database/sql"
	"time"

	"file-storage-server/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// Общие моки портов для тестов сервисного слоя

type MockFileRepository struct{ mock.Mock }

func (m *MockFileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) error {
	return m.Called(ctx, exec, file).Error(0)
}

func (m *MockFileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (*model.File, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) GetAnyByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.File, error) {
	args := m.Called(ctx, exec, fileUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, limit int) ([]model.File, error) {
	args := m.Called(ctx, exec, ownerUUID, parentUUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.File, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, parentUUID *string, filename string, excludeUUID string) (bool, error) {
	args := m.Called(ctx, exec, ownerUUID, parentUUID, filename, excludeUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileRepository) Rename(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, newFilename string) (int64, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID, newFilename)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) MarkTrashed(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) MarkRestored(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string, filename string, parentUUID *string) (int64, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID, filename, parentUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) MarkPurged(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockCollectionRepository struct{ mock.Mock }

func (m *MockCollectionRepository) Create(ctx context.Context, exec sqlx.ExtContext, collection *model.Collection) error {
	return m.Called(ctx, exec, collection).Error(0)
}

func (m *MockCollectionRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (*model.Collection, error) {
	args := m.Called(ctx, exec, collectionUUID, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListActiveByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListTrashedByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Collection, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ExistsActiveName(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, name string, excludeUUID string) (bool, error) {
	args := m.Called(ctx, exec, ownerUUID, name, excludeUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) Rename(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, newName string) (int64, error) {
	args := m.Called(ctx, exec, collectionUUID, ownerUUID, newName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) MarkTrashed(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, collectionUUID, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) MarkRestored(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string, name string) (int64, error) {
	args := m.Called(ctx, exec, collectionUUID, ownerUUID, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) MarkPurged(ctx context.Context, exec sqlx.ExtContext, collectionUUID string, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, collectionUUID, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMembershipRepository struct{ mock.Mock }

func (m *MockMembershipRepository) Add(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error {
	return m.Called(ctx, exec, fileUUID, collectionUUID).Error(0)
}

func (m *MockMembershipRepository) Remove(ctx context.Context, exec sqlx.ExtContext, fileUUID string, collectionUUID string) error {
	return m.Called(ctx, exec, fileUUID, collectionUUID).Error(0)
}

func (m *MockMembershipRepository) ListFilesOf(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) ([]model.File, error) {
	args := m.Called(ctx, exec, collectionUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockMembershipRepository) ListCollectionsOf(ctx context.Context, exec sqlx.ExtContext, fileUUID string) ([]model.Collection, error) {
	args := m.Called(ctx, exec, fileUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockMembershipRepository) RemoveAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	return m.Called(ctx, exec, fileUUID).Error(0)
}

func (m *MockMembershipRepository) RemoveAllForCollection(ctx context.Context, exec sqlx.ExtContext, collectionUUID string) error {
	return m.Called(ctx, exec, collectionUUID).Error(0)
}

type MockShareRepository struct{ mock.Mock }

func (m *MockShareRepository) Create(ctx context.Context, exec sqlx.ExtContext, share *model.ShareToken) error {
	return m.Called(ctx, exec, share).Error(0)
}

func (m *MockShareRepository) GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ShareToken, error) {
	args := m.Called(ctx, exec, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareToken), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, exec sqlx.ExtContext, token string, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, token, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShareRepository) DeleteAllForFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	return m.Called(ctx, exec, fileUUID).Error(0)
}

type MockBacklogRepository struct{ mock.Mock }

func (m *MockBacklogRepository) Enqueue(ctx context.Context, exec sqlx.ExtContext, storagePath string, fileUUID string) error {
	return m.Called(ctx, exec, storagePath, fileUUID).Error(0)
}

func (m *MockBacklogRepository) List(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.BlobPurgeEntry, error) {
	args := m.Called(ctx, exec, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BlobPurgeEntry), args.Error(1)
}

func (m *MockBacklogRepository) Remove(ctx context.Context, exec sqlx.ExtContext, storagePath string) error {
	return m.Called(ctx, exec, storagePath).Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetFile(ctx context.Context, file *model.File) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockCacheRepository) GetFile(ctx context.Context, uuid string) (*model.File, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockCacheRepository) DeleteFile(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// fakeTx : пустая реализация sqlx.ExtContext для транзакций в моках
type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return &sql.Row{}
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

func noopTx() (sqlx.ExtContext, func() error, func() error) {
	return &fakeTx{}, func() error { return nil }, func() error { return nil }
}
