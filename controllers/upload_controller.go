package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/lms-portal-backend/utils"
)

const maxThumbnailSize = 5 * 1024 * 1024

var validThumbnailTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// POST /api/author/upload — upload thumbnail khóa học (field "file")
func UploadThumbnail(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Không có file đính kèm"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !validThumbnailTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Định dạng file không hợp lệ. Chỉ nhận ảnh JPEG, PNG, WebP hoặc GIF",
		})
		return
	}

	if file.Size > maxThumbnailSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File vượt quá 5MB"})
		return
	}

	url, err := utils.SaveThumbnail(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload thất bại"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
