package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	db, err := Open(Config{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	require.FileExists(t, path)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))

	migrator := db.Migrator()
	for _, model := range []any{
		&models.User{},
		&models.VerificationCode{},
		&models.TaskList{},
		&models.Task{},
		&models.CacheEntry{},
	} {
		require.True(t, migrator.HasTable(model), "expected table for %T", model)
	}
}

func TestDeletingListCascadesToTasks(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	user := models.User{Email: "owner@example.com", Password: "x", Name: "Owner"}
	require.NoError(t, db.Create(&user).Error)
	list := models.TaskList{OwnerID: user.ID, Title: "Groceries"}
	require.NoError(t, db.Create(&list).Error)
	task := models.Task{ListID: list.ID, Title: "Buy milk", Priority: models.TaskPriorityMedium, Status: models.TaskStatusPending}
	require.NoError(t, db.Create(&task).Error)

	require.NoError(t, db.Delete(&models.TaskList{}, "id = ?", list.ID).Error)

	var remaining int64
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestMigrateRejectsNilHandle(t *testing.T) {
	require.Error(t, Migrate(nil))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
