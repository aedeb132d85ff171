package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/ws"
)

type CreateVideoInput struct {
	ChapterID   uint   `json:"chapter_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required"`
	SortOrder   int    `json:"sort_order"`
	DurationSec *int   `json:"duration_sec"`
}

type UpdateVideoInput struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	DurationSec *int    `json:"duration_sec"`
}

// POST /api/author/videos
func CreateVideo(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	var input CreateVideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tên video bắt buộc"})
		return
	}

	chapter, course, err := findOwnedChapter(db, input.ChapterID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	// Không gửi sort_order thì nối vào cuối: max + 1
	sortOrder := input.SortOrder
	if sortOrder <= 0 {
		var maxOrder int
		db.Model(&models.Video{}).Where("chapter_id = ?", chapter.ID).
			Select("COALESCE(MAX(sort_order),0)").Scan(&maxOrder)
		sortOrder = maxOrder + 1
	}

	video := models.Video{
		ChapterID:   chapter.ID,
		Title:       title,
		URL:         input.URL,
		SortOrder:   sortOrder,
		DurationSec: input.DurationSec,
	}

	if err := db.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tạo video"})
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Tạo video thành công",
		"video_id": video.ID,
	})
}

// PUT /api/author/videos/:id — patch title/url/duration, không đổi chương hay thứ tự
func UpdateVideo(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	videoID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateVideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dữ liệu không hợp lệ"})
		return
	}

	video, course, err := findOwnedVideo(db, videoID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy video")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tên video không được trống"})
			return
		}
		updates["title"] = title
	}
	if input.URL != nil {
		updates["url"] = *input.URL
	}
	if input.DurationSec != nil {
		updates["duration_sec"] = *input.DurationSec
	}

	if len(updates) > 0 {
		if err := db.Model(video).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Cập nhật video thất bại"})
			return
		}
		ws.BroadcastCourseChanged(course.ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật video thành công"})
}

// DELETE /api/author/videos/:id
// Các video còn lại không được đánh số lại sau khi xóa (giống chương).
func DeleteVideo(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	videoID, ok := parseIDParam(c)
	if !ok {
		return
	}

	video, course, err := findOwnedVideo(db, videoID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy video")
		return
	}

	if err := db.Delete(&models.Video{}, video.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Xóa video thất bại"})
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Xóa video thành công"})
}

type ReorderVideosInput struct {
	VideoIDs []uint `json:"video_ids" binding:"required"`
}

// PUT /api/author/chapters/:id/videos/reorder
// Đối xứng với reorder chương: danh sách id đầy đủ, transaction + khóa row.
func ReorderVideos(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, _ := currentAuthor(c)

	chapterID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input ReorderVideosInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Danh sách video bắt buộc"})
		return
	}

	chapter, course, err := findOwnedChapter(db, chapterID, authorID, role)
	if err != nil {
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var videos []models.Video
		if err := lockForUpdate(tx).Where("chapter_id = ?", chapter.ID).Find(&videos).Error; err != nil {
			return err
		}

		siblingIDs := make([]uint, 0, len(videos))
		for _, video := range videos {
			siblingIDs = append(siblingIDs, video.ID)
		}
		return applyReorder(tx, &models.Video{}, siblingIDs, input.VideoIDs)
	})
	if err != nil {
		if errors.Is(err, errSiblingMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Danh sách video không khớp với chương"})
			return
		}
		respondOwnershipError(c, err, "Không tìm thấy chương")
		return
	}

	ws.BroadcastCourseChanged(course.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sắp xếp video thành công"})
}
