package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/lms-portal-backend/models"
)

// Phân loại lỗi nội bộ. NotFound và Forbidden được giữ tách biệt để log,
// nhưng ra ngoài dùng chung một message 404 để không lộ tài nguyên của người khác.
var (
	errNotFound        = errors.New("không tìm thấy tài nguyên")
	errForbidden       = errors.New("tài nguyên không thuộc về người gọi")
	errSiblingMismatch = errors.New("danh sách id không khớp với tập anh em")
)

// currentAuthor đọc principal đã được middleware xác thực từ context
func currentAuthor(c *gin.Context) (uint, models.UserRole, bool) {
	id, err := strconv.ParseUint(c.GetString("user_id"), 10, 64)
	if err != nil {
		return 0, "", false
	}
	return uint(id), models.UserRole(c.GetString("role")), true
}

// findOwnedCourse tìm khóa học và kiểm tra quyền sở hữu TRƯỚC mọi mutation.
// Admin thấy mọi khóa học.
func findOwnedCourse(db *gorm.DB, courseID, authorID uint, role models.UserRole) (*models.Course, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	if course.AuthorID != authorID && role != models.RoleAdmin {
		return nil, errForbidden
	}
	return &course, nil
}

// findOwnedChapter đi ngược chuỗi cha chapter -> course -> author
func findOwnedChapter(db *gorm.DB, chapterID, authorID uint, role models.UserRole) (*models.Chapter, *models.Course, error) {
	var chapter models.Chapter
	if err := db.First(&chapter, "id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errNotFound
		}
		return nil, nil, err
	}

	course, err := findOwnedCourse(db, chapter.CourseID, authorID, role)
	if err != nil {
		return nil, nil, err
	}
	return &chapter, course, nil
}

// findOwnedVideo đi ngược chuỗi cha video -> chapter -> course -> author
func findOwnedVideo(db *gorm.DB, videoID, authorID uint, role models.UserRole) (*models.Video, *models.Course, error) {
	var video models.Video
	if err := db.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errNotFound
		}
		return nil, nil, err
	}

	_, course, err := findOwnedChapter(db, video.ChapterID, authorID, role)
	if err != nil {
		return nil, nil, err
	}
	return &video, course, nil
}

// respondOwnershipError map lỗi nội bộ ra HTTP. Forbidden trả cùng message 404
// với NotFound, chỉ khác ở log.
func respondOwnershipError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, errNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": notFoundMsg})
	case errors.Is(err, errForbidden):
		log.Printf("Từ chối truy cập %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": notFoundMsg})
	default:
		log.Printf("Lỗi truy vấn %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi hệ thống, vui lòng thử lại"})
	}
}

// lockForUpdate khóa tập row anh em trong suốt transaction reorder.
// sqlite (dùng trong test) không hỗ trợ FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// applyReorder gán sort_order = vị trí + 1 theo đúng thứ tự orderedIDs.
// Caller phải gửi đủ tập anh em: thiếu, thừa hay trùng id đều bị từ chối
// để không bao giờ tạo ra dãy thứ tự không dày đặc.
func applyReorder(tx *gorm.DB, model interface{}, siblingIDs []uint, orderedIDs []uint) error {
	if len(orderedIDs) != len(siblingIDs) {
		return errSiblingMismatch
	}

	siblings := make(map[uint]bool, len(siblingIDs))
	for _, id := range siblingIDs {
		siblings[id] = true
	}

	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !siblings[id] || seen[id] {
			return errSiblingMismatch
		}
		seen[id] = true
	}

	for i, id := range orderedIDs {
		if err := tx.Model(model).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
