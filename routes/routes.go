package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/controllers"
	"github.com/vnkhanh/lms-portal-backend/middleware"
	"github.com/vnkhanh/lms-portal-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Me)
	}

	author := api.Group("/author")
	{
		author.Use(middleware.AuthMiddleware(), middleware.RequireRoles("author", "admin"))

		// Quản lý khóa học
		author.POST("/courses", controllers.CreateCourse)
		author.GET("/courses", controllers.GetCourses)
		author.GET("/courses/:id", controllers.GetCourseDetail)
		author.PUT("/courses/:id", controllers.UpdateCourse)
		author.PATCH("/courses/:id/publish", controllers.PublishCourse)
		author.PATCH("/courses/:id/unpublish", controllers.UnpublishCourse)
		author.DELETE("/courses/:id", controllers.DeleteCourse)
		author.PUT("/courses/:id/chapters/reorder", controllers.ReorderChapters)

		// Quản lý chương
		author.POST("/chapters", controllers.CreateChapter)
		author.PUT("/chapters/:id", controllers.UpdateChapter)
		author.DELETE("/chapters/:id", controllers.DeleteChapter)
		author.PUT("/chapters/:id/videos/reorder", controllers.ReorderVideos)

		// Quản lý video
		author.POST("/videos", controllers.CreateVideo)
		author.PUT("/videos/:id", controllers.UpdateVideo)
		author.DELETE("/videos/:id", controllers.DeleteVideo)

		// Dashboard + upload thumbnail
		author.GET("/dashboard", controllers.GetDashboardStats)
		author.POST("/upload", controllers.UploadThumbnail)
	}

	// Tín hiệu invalidation cho tầng trình bày
	r.GET("/ws/courses/:id", ws.HandleCourseWebSocket)
	r.GET("/ws/courses", ws.HandleGlobalWebSocket)

	return r
}
