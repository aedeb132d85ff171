package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/lms-portal-backend/config"
	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/routes"
	"github.com/vnkhanh/lms-portal-backend/utils"
)

// setupTest dựng router đầy đủ trên một DB sqlite in-memory riêng cho mỗi test
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	// middleware xác thực đọc DB qua config
	config.DB = db

	r := gin.New()
	return routes.SetupRouter(r, db), db
}

func createUser(t *testing.T, db *gorm.DB, name, email, password string, role models.UserRole) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func sessionCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), string(user.Role))
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: token}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// createCourse tạo khóa học qua API và trả về id
func createCourse(t *testing.T, r *gin.Engine, cookie *http.Cookie, title string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/author/courses", gin.H{"title": title}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["course_id"].(float64))
}

func createChapter(t *testing.T, r *gin.Engine, cookie *http.Cookie, courseID uint, title string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/author/chapters", gin.H{"course_id": courseID, "title": title}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["chapter_id"].(float64))
}

func createVideo(t *testing.T, r *gin.Engine, cookie *http.Cookie, chapterID uint, title string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/author/videos",
		gin.H{"chapter_id": chapterID, "title": title, "url": "https://videos.example/" + title}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["video_id"].(float64))
}
