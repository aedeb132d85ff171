package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/ws"
)

// Input cho Create / Update
type CreateCourseInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateCourseInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID không hợp lệ"})
		return 0, false
	}
	return uint(id), true
}

// POST /api/author/courses
func CreateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, _, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Chưa đăng nhập"})
		return
	}

	var input CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tiêu đề khóa học bắt buộc"})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tiêu đề khóa học bắt buộc"})
		return
	}

	course := models.Course{
		Title:       title,
		Description: input.Description,
		Slug:        slug.Make(title),
		AuthorID:    authorID,
		Status:      models.CourseDraft, // khóa học mới luôn ở trạng thái nháp
	}

	if err := db.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tạo khóa học"})
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Tạo khóa học thành công",
		"course_id": course.ID,
	})
}

type courseListItem struct {
	models.Course
	ChapterCount    int   `json:"chapter_count"`
	EnrollmentCount int64 `json:"enrollment_count"`
}

// GET /api/author/courses — khóa học của tác giả, mới nhất trước
func GetCourses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Chưa đăng nhập"})
		return
	}

	query := db.Model(&models.Course{}).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Chapters.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("created_at DESC")

	// Admin thấy tất cả, tác giả chỉ thấy khóa học của mình
	if role != models.RoleAdmin {
		query = query.Where("author_id = ?", authorID)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể lấy danh sách khóa học"})
		return
	}

	// Đếm ghi danh theo từng khóa học trong một truy vấn
	counts := make(map[uint]int64)
	if len(courses) > 0 {
		ids := make([]uint, 0, len(courses))
		for _, course := range courses {
			ids = append(ids, course.ID)
		}

		var rows []struct {
			CourseID uint
			Total    int64
		}
		if err := db.Model(&models.CourseEnrollment{}).
			Select("course_id, COUNT(*) AS total").
			Where("course_id IN ?", ids).
			Group("course_id").
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể đếm ghi danh"})
			return
		}
		for _, row := range rows {
			counts[row.CourseID] = row.Total
		}
	}

	items := make([]courseListItem, 0, len(courses))
	for _, course := range courses {
		items = append(items, courseListItem{
			Course:          course,
			ChapterCount:    len(course.Chapters),
			EnrollmentCount: counts[course.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GET /api/author/courses/:id
func GetCourseDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := findOwnedCourse(db, courseID, authorID, role); err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	var course models.Course
	if err := db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Chapters.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tải khóa học"})
		return
	}

	var enrollmentCount int64
	db.Model(&models.CourseEnrollment{}).Where("course_id = ?", courseID).Count(&enrollmentCount)

	c.JSON(http.StatusOK, gin.H{
		"course":           course,
		"enrollment_count": enrollmentCount,
	})
}

// PUT /api/author/courses/:id — patch từng phần, field nil giữ nguyên
func UpdateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dữ liệu không hợp lệ"})
		return
	}

	course, err := findOwnedCourse(db, courseID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tiêu đề không được trống"})
			return
		}
		updates["title"] = title
		updates["slug"] = slug.Make(title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Thumbnail != nil {
		updates["thumbnail"] = *input.Thumbnail
	}

	if len(updates) > 0 {
		if err := db.Model(course).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Cập nhật khóa học thất bại"})
			return
		}
		ws.BroadcastCourseChanged(course.ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật thành công"})
}

// setCourseStatus dùng chung cho publish/unpublish; thao tác idempotent
func setCourseStatus(c *gin.Context, status models.CourseStatus) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	course, err := findOwnedCourse(db, courseID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	if course.Status != status {
		if err := db.Model(course).Update("status", status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Cập nhật trạng thái thất bại"})
			return
		}
		ws.BroadcastCourseChanged(course.ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// PATCH /api/author/courses/:id/publish
// Không kiểm tra khóa học đã có chương/video hay chưa: cho phép publish rỗng
func PublishCourse(c *gin.Context) {
	setCourseStatus(c, models.CoursePublished)
}

// PATCH /api/author/courses/:id/unpublish
func UnpublishCourse(c *gin.Context) {
	setCourseStatus(c, models.CourseDraft)
}

// DELETE /api/author/courses/:id
// Kiểm tra quyền sở hữu trước, sau đó xóa trong MỘT transaction theo thứ tự
// phụ thuộc: video -> chương -> ghi danh -> khóa học. Lỗi giữa chừng rollback hết.
func DeleteCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	course, err := findOwnedCourse(db, courseID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		chapterIDs := tx.Model(&models.Chapter{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("chapter_id IN (?)", chapterIDs).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseEnrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, course.ID).Error
	})
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Xóa khóa học thành công"})
}

type ReorderChaptersInput struct {
	ChapterIDs []uint `json:"chapter_ids" binding:"required"`
}

// PUT /api/author/courses/:id/chapters/reorder
// Caller gửi đủ danh sách id chương theo thứ tự mới; sort_order = vị trí + 1.
// Toàn bộ chạy trong một transaction, tập chương bị khóa trong lúc gán lại.
func ReorderChapters(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input ReorderChaptersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Danh sách chương bắt buộc"})
		return
	}

	if _, err := findOwnedCourse(db, courseID, authorID, role); err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var chapters []models.Chapter
		if err := lockForUpdate(tx).Where("course_id = ?", courseID).Find(&chapters).Error; err != nil {
			return err
		}

		siblingIDs := make([]uint, 0, len(chapters))
		for _, chapter := range chapters {
			siblingIDs = append(siblingIDs, chapter.ID)
		}
		return applyReorder(tx, &models.Chapter{}, siblingIDs, input.ChapterIDs)
	})
	if err != nil {
		if errors.Is(err, errSiblingMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Danh sách chương không khớp với khóa học"})
			return
		}
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	ws.BroadcastCourseChanged(courseID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sắp xếp chương thành công"})
}
