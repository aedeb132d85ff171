package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/ws"
)

type CreateChapterInput struct {
	CourseID  uint   `json:"course_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateChapterInput struct {
	Title string `json:"title" binding:"required"`
}

// POST /api/author/chapters
func CreateChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	var input CreateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tên chương bắt buộc"})
		return
	}

	course, err := findOwnedCourse(db, input.CourseID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy khóa học")
		return
	}

	// Không gửi sort_order thì nối vào cuối: max + 1
	sortOrder := input.SortOrder
	if sortOrder <= 0 {
		var maxOrder int
		db.Model(&models.Chapter{}).Where("course_id = ?", course.ID).
			Select("COALESCE(MAX(sort_order),0)").Scan(&maxOrder)
		sortOrder = maxOrder + 1
	}

	chapter := models.Chapter{
		CourseID:  course.ID,
		Title:     title,
		SortOrder: sortOrder,
	}

	if err := db.Create(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tạo chương"})
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Tạo chương thành công",
		"chapter_id": chapter.ID,
	})
}

// PUT /api/author/chapters/:id — đổi tên chương
func UpdateChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	chapterID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tên chương bắt buộc"})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tên chương không được trống"})
		return
	}

	chapter, course, err := findOwnedChapter(db, chapterID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	if err := db.Model(chapter).Update("title", title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Cập nhật chương thất bại"})
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật chương thành công"})
}

// DELETE /api/author/chapters/:id
// Kiểm tra quyền sở hữu trước, rồi xóa video của chương và chương trong một
// transaction. Các chương còn lại KHÔNG được đánh số lại: khoảng trống
// sort_order được chấp nhận cho đến lần reorder kế tiếp.
func DeleteChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	chapterID, ok := parseIDParam(c)
	if !ok {
		return
	}

	chapter, course, err := findOwnedChapter(db, chapterID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Chapter{}, chapter.ID).Error
	})
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Xóa chương thành công"})
}
