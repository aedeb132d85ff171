package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
)

// GET /api/author/dashboard — số liệu tổng quan cho trang dashboard của tác giả
func GetDashboardStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	authorID, role, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Chưa đăng nhập"})
		return
	}

	courseQuery := db.Model(&models.Course{})
	chapterQuery := db.Model(&models.Chapter{}).
		Joins("JOIN courses ON courses.id = chapters.course_id")
	videoQuery := db.Model(&models.Video{}).
		Joins("JOIN chapters ON chapters.id = videos.chapter_id").
		Joins("JOIN courses ON courses.id = chapters.course_id")
	enrollmentQuery := db.Model(&models.CourseEnrollment{}).
		Joins("JOIN courses ON courses.id = course_enrollments.course_id")

	// Tác giả chỉ thấy số liệu của mình, admin thấy toàn hệ thống
	if role != models.RoleAdmin {
		courseQuery = courseQuery.Where("courses.author_id = ?", authorID)
		chapterQuery = chapterQuery.Where("courses.author_id = ?", authorID)
		videoQuery = videoQuery.Where("courses.author_id = ?", authorID)
		enrollmentQuery = enrollmentQuery.Where("courses.author_id = ?", authorID)
	}

	var totalCourses, publishedCourses, totalChapters, totalVideos, totalEnrollments int64
	if err := courseQuery.Count(&totalCourses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể lấy số liệu"})
		return
	}
	courseQuery.Where("courses.status = ?", models.CoursePublished).Count(&publishedCourses)
	chapterQuery.Count(&totalChapters)
	videoQuery.Count(&totalVideos)
	enrollmentQuery.Count(&totalEnrollments)

	c.JSON(http.StatusOK, gin.H{
		"total_courses":     totalCourses,
		"published_courses": publishedCourses,
		"total_chapters":    totalChapters,
		"total_videos":      totalVideos,
		"total_enrollments": totalEnrollments,
	})
}
