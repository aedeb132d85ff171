package controllers_test

import (
	"fmt"
	"net/http"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
)

func videoOrders(t *testing.T, db *gorm.DB, chapterID uint) map[uint]int {
	t.Helper()
	var videos []models.Video
	require.NoError(t, db.Where("chapter_id = ?", chapterID).Find(&videos).Error)
	orders := make(map[uint]int, len(videos))
	for _, video := range videos {
		orders[video.ID] = video.SortOrder
	}
	return orders
}

func TestReorderVideosSwap(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	// Kịch bản: khóa học "X" -> chương 1 -> hai video order 1, 2 -> đảo chỗ
	courseID := createCourse(t, r, cookie, "X")
	chapterID := createChapter(t, r, cookie, courseID, "Chương 1")
	videoA := createVideo(t, r, cookie, chapterID, "video-a")
	videoB := createVideo(t, r, cookie, chapterID, "video-b")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapterID),
		gin.H{"video_ids": []uint{videoB, videoA}}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	orders := videoOrders(t, db, chapterID)
	assert.Equal(t, 2, orders[videoA])
	assert.Equal(t, 1, orders[videoB])
}

func TestReorderVideosProducesDensePermutation(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapterID := createChapter(t, r, cookie, courseID, "Chương 1")

	ids := make([]uint, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, createVideo(t, r, cookie, chapterID, fmt.Sprintf("video-%d", i)))
	}

	// Hoán vị bất kỳ
	shuffled := []uint{ids[3], ids[0], ids[4], ids[1], ids[2]}
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapterID),
		gin.H{"video_ids": shuffled}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// Sau reorder thành công, sort_order là đúng tập {1..N}
	orders := videoOrders(t, db, chapterID)
	values := make([]int, 0, len(orders))
	for _, order := range orders {
		values = append(values, order)
	}
	sort.Ints(values)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, values)

	// Và đúng thứ tự đã gửi
	for i, id := range shuffled {
		assert.Equal(t, i+1, orders[id])
	}
}

func TestReorderVideosPartialListRejected(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapterID := createChapter(t, r, cookie, courseID, "Chương 1")
	videoA := createVideo(t, r, cookie, chapterID, "video-a")
	videoB := createVideo(t, r, cookie, chapterID, "video-b")
	createVideo(t, r, cookie, chapterID, "video-c")

	// Thiếu một video: từ chối, không ghi gì
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapterID),
		gin.H{"video_ids": []uint{videoB, videoA}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	orders := videoOrders(t, db, chapterID)
	assert.Equal(t, 1, orders[videoA])
	assert.Equal(t, 2, orders[videoB])
}

func TestReorderVideosForeignIDRejected(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapter1 := createChapter(t, r, cookie, courseID, "Chương 1")
	chapter2 := createChapter(t, r, cookie, courseID, "Chương 2")
	videoA := createVideo(t, r, cookie, chapter1, "video-a")
	videoB := createVideo(t, r, cookie, chapter1, "video-b")
	outsider := createVideo(t, r, cookie, chapter2, "video-khac-chuong")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapter1),
		gin.H{"video_ids": []uint{videoB, outsider}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	orders := videoOrders(t, db, chapter1)
	assert.Equal(t, 1, orders[videoA])
	assert.Equal(t, 2, orders[videoB])
}

func TestReorderVideosOtherAuthorRejected(t *testing.T) {
	r, db := setupTest(t)
	authorA := createUser(t, db, "Tác giả A", "a@example.com", "secret123", models.RoleAuthor)
	authorB := createUser(t, db, "Tác giả B", "b@example.com", "secret123", models.RoleAuthor)
	cookieA := sessionCookie(t, authorA)

	courseID := createCourse(t, r, cookieA, "Khóa của A")
	chapterID := createChapter(t, r, cookieA, courseID, "Chương 1")
	videoA := createVideo(t, r, cookieA, chapterID, "video-a")
	videoB := createVideo(t, r, cookieA, chapterID, "video-b")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapterID),
		gin.H{"video_ids": []uint{videoB, videoA}}, sessionCookie(t, authorB))
	assert.Equal(t, http.StatusNotFound, w.Code)

	orders := videoOrders(t, db, chapterID)
	assert.Equal(t, 1, orders[videoA])
	assert.Equal(t, 2, orders[videoB])
}

// Xóa không đánh số lại: khoảng trống sort_order được chấp nhận
// cho đến lần reorder kế tiếp.
func TestDeleteVideoLeavesGapUntilNextReorder(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapterID := createChapter(t, r, cookie, courseID, "Chương 1")
	videoA := createVideo(t, r, cookie, chapterID, "video-a")
	videoB := createVideo(t, r, cookie, chapterID, "video-b")
	videoC := createVideo(t, r, cookie, chapterID, "video-c")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/author/videos/%d", videoB), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	orders := videoOrders(t, db, chapterID)
	assert.Equal(t, 1, orders[videoA])
	assert.Equal(t, 3, orders[videoC]) // khoảng trống ở vị trí 2

	// Reorder đầy đủ khôi phục dãy dày đặc
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/chapters/%d/videos/reorder", chapterID),
		gin.H{"video_ids": []uint{videoA, videoC}}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	orders = videoOrders(t, db, chapterID)
	assert.Equal(t, 1, orders[videoA])
	assert.Equal(t, 2, orders[videoC])
}

func TestChapterAppendAndExplicitOrder(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")

	// Không gửi sort_order: nối vào cuối 1, 2
	chapter1 := createChapter(t, r, cookie, courseID, "Chương 1")
	chapter2 := createChapter(t, r, cookie, courseID, "Chương 2")

	var first, second models.Chapter
	require.NoError(t, db.First(&first, chapter1).Error)
	require.NoError(t, db.First(&second, chapter2).Error)
	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)

	// Gửi sort_order tường minh thì dùng nguyên giá trị caller đưa
	w := doJSON(t, r, http.MethodPost, "/api/author/chapters",
		gin.H{"course_id": courseID, "title": "Chương chen", "sort_order": 7}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var explicit models.Chapter
	require.NoError(t, db.First(&explicit, uint(decodeBody(t, w)["chapter_id"].(float64))).Error)
	assert.Equal(t, 7, explicit.SortOrder)
}

func TestReorderChaptersSwap(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapter1 := createChapter(t, r, cookie, courseID, "Chương 1")
	chapter2 := createChapter(t, r, cookie, courseID, "Chương 2")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/author/courses/%d/chapters/reorder", courseID),
		gin.H{"chapter_ids": []uint{chapter2, chapter1}}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first, second models.Chapter
	require.NoError(t, db.First(&first, chapter1).Error)
	require.NoError(t, db.First(&second, chapter2).Error)
	assert.Equal(t, 2, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)
}

func TestDeleteChapterCascadesVideos(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "Tác giả", "author@example.com", "secret123", models.RoleAuthor)
	cookie := sessionCookie(t, author)

	courseID := createCourse(t, r, cookie, "Khóa học")
	chapter1 := createChapter(t, r, cookie, courseID, "Chương 1")
	chapter2 := createChapter(t, r, cookie, courseID, "Chương 2")
	createVideo(t, r, cookie, chapter1, "video-a")
	createVideo(t, r, cookie, chapter1, "video-b")
	keep := createVideo(t, r, cookie, chapter2, "video-giu-lai")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/author/chapters/%d", chapter1), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var videos []models.Video
	require.NoError(t, db.Find(&videos).Error)
	require.Len(t, videos, 1)
	assert.Equal(t, keep, videos[0].ID)

	var chapters int64
	db.Model(&models.Chapter{}).Count(&chapters)
	assert.Equal(t, int64(1), chapters)
}
