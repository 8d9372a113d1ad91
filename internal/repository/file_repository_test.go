package repository

import (
	"context"
	"testing"
	"time"

	"file-storage-server/config"
	"file-storage-server/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var fileRows = []string{
	"uuid", "owner_uuid", "parent_uuid", "filename", "size_bytes", "mime_type",
	"sha256", "storage_path", "state", "restore_parent_uuid", "created_at",
	"updated_at", "deleted_at",
}

func TestFileRepository_GetByUUID(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM files WHERE uuid = \$1 AND owner_uuid = \$2`).
		WithArgs("file-1", "owner-1").
		WillReturnRows(sqlmock.NewRows(fileRows).
			AddRow("file-1", "owner-1", nil, "report.pdf", int64(1024), "application/pdf",
				"deadbeef", "users/owner-1/files/report.pdf", "active", nil, now, now, nil))

	file, err := repo.GetByUUID(context.Background(), database, "file-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.Filename)
	assert.Equal(t, "active", file.State)
	assert.Nil(t, file.ParentUUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepository_GetByUUID_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectQuery(`SELECT .+ FROM files WHERE uuid = \$1 AND owner_uuid = \$2`).
		WithArgs("missing", "owner-1").
		WillReturnRows(sqlmock.NewRows(fileRows))

	_, err := repo.GetByUUID(context.Background(), database, "missing", "owner-1")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFileRepository_MarkTrashed(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectExec(`UPDATE files\s+SET state = 'trashed'.+WHERE uuid = \$1 AND owner_uuid = \$2 AND state = 'active'`).
		WithArgs("file-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.MarkTrashed(context.Background(), database, "file-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

// CAS-переход не сработал: файл уже не active. Репозиторий возвращает 0
// строк, интерпретация остаётся за сервисом
func TestFileRepository_MarkTrashed_LostRace(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectExec(`UPDATE files\s+SET state = 'trashed'.+state = 'active'`).
		WithArgs("file-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.MarkTrashed(context.Background(), database, "file-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFileRepository_MarkPurged_ClearsStoragePath(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectExec(`UPDATE files\s+SET state = 'purged', storage_path = ''.+state = 'trashed'`).
		WithArgs("file-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.MarkPurged(context.Background(), database, "file-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepository_MarkRestored(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	parent := "collection-1"
	mock.ExpectExec(`UPDATE files\s+SET state = 'active'.+state = 'trashed'`).
		WithArgs("file-1", "owner-1", "report(1).pdf", &parent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.MarkRestored(context.Background(), database, "file-1", "owner-1", "report(1).pdf", &parent)

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestFileRepository_Rename_NotActive(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectExec(`UPDATE files\s+SET filename = \$3.+state = 'active'`).
		WithArgs("file-1", "owner-1", "final.pdf").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.Rename(context.Background(), database, "file-1", "owner-1", "final.pdf")

	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFileRepository_ExistsActiveName(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("owner-1", "report.pdf", nil, "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActiveName(context.Background(), database, "owner-1", nil, "report.pdf", "")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileRepository_ListTrashedByOwner(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	now := time.Now()
	deleted := now.Add(-time.Hour)
	mock.ExpectQuery(`SELECT .+ FROM files\s+WHERE owner_uuid = \$1 AND state = 'trashed'`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(fileRows).
			AddRow("file-1", "owner-1", nil, "report.pdf", int64(1024), "application/pdf",
				"deadbeef", "users/owner-1/files/report.pdf", "trashed", "collection-1", now, now, &deleted))

	files, err := repo.ListTrashedByOwner(context.Background(), database, "owner-1")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "trashed", files[0].State)
	require.NotNil(t, files[0].RestoreParentUUID)
	assert.Equal(t, "collection-1", *files[0].RestoreParentUUID)
}
