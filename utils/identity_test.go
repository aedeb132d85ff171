package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/lms-portal-backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestSyncProviderUserCreatesAuthor(t *testing.T) {
	db := openTestDB(t)

	user, err := SyncProviderUser(db, "gv@example.com", "Giảng viên", "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, "gv@example.com", user.Email)
	assert.Equal(t, models.RoleAuthor, user.Role)
	assert.NotZero(t, user.ID)
}

// Gọi lại cùng email không tạo thêm row và không ghi đè row đã có
func TestSyncProviderUserIdempotent(t *testing.T) {
	db := openTestDB(t)

	first, err := SyncProviderUser(db, "gv@example.com", "Giảng viên", "google-sub-1")
	require.NoError(t, err)

	second, err := SyncProviderUser(db, "gv@example.com", "Tên khác", "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Giảng viên", second.Name)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSyncProviderUserRequiresEmail(t *testing.T) {
	db := openTestDB(t)

	_, err := SyncProviderUser(db, "", "Ai đó", "google-sub-1")
	assert.Error(t, err)
}

func TestSyncProviderUserDefaultsName(t *testing.T) {
	db := openTestDB(t)

	user, err := SyncProviderUser(db, "noname@example.com", "", "google-sub-2")
	require.NoError(t, err)
	assert.Equal(t, "Author", user.Name)
}
