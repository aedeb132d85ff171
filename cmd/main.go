package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/lms-portal-backend/config"
	"github.com/vnkhanh/lms-portal-backend/routes"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	config.InitDB()

	r := gin.Default()

	// Bật CORS cho frontend
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Provider-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Serve thumbnail đã upload (khi không dùng Supabase)
	r.Static("/uploads", "./uploads")

	// Gọi SetupRouter để đăng ký route
	r = routes.SetupRouter(r, config.DB)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "LMS portal server is running")
	})

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // mặc định nếu không có PORT
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
