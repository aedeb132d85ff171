package middleware

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/config"
	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/utils"
)

// ResolveUser tìm principal của request theo hai nguồn phiên, thứ tự ưu tiên cố định:
// 1. Phiên provider ngoài: Google ID token trong header X-Provider-Token,
//    kèm side effect đồng bộ user vào DB.
// 2. Cookie lms_user_id chứa JWT do server ký.
// Mọi lỗi (cookie hỏng, user không tồn tại, provider lỗi) chỉ được log
// và coi như anonymous, không bao giờ trả lỗi cho caller.
func ResolveUser(c *gin.Context, db *gorm.DB) *models.User {
	if token := c.GetHeader("X-Provider-Token"); token != "" {
		payload, err := idtoken.Validate(c, token, os.Getenv("GOOGLE_CLIENT_ID"))
		if err != nil {
			log.Println("Provider token không hợp lệ:", err)
		} else {
			email, _ := payload.Claims["email"].(string)
			name, _ := payload.Claims["name"].(string)
			if name == "" {
				name, _ = payload.Claims["nickname"].(string)
			}
			user, err := utils.SyncProviderUser(db, email, name, payload.Subject)
			if err != nil {
				log.Println("Không đồng bộ được user từ provider:", err)
			} else {
				return user
			}
		}
	}

	tokenString, err := c.Cookie(utils.SessionCookieName)
	if err != nil {
		return nil
	}
	claims, err := utils.VerifyToken(tokenString)
	if err != nil {
		log.Println("Cookie phiên không hợp lệ:", err)
		return nil
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		log.Println("user_id trong token không hợp lệ:", err)
		return nil
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Println("Không tìm thấy user của phiên:", err)
		return nil
	}
	return &user
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := ResolveUser(c, config.DB)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success":   false,
				"error":     "Chưa đăng nhập",
				"login_url": "/login?returnTo=" + url.QueryEscape(c.Request.URL.Path),
			})
			c.Abort()
			return
		}

		// Lưu thông tin vào context để controller dùng
		c.Set("user_id", strconv.FormatUint(uint64(user.ID), 10))
		c.Set("role", string(user.Role))
		c.Next()
	}
}

// OptionalAuthMiddleware: có phiên thì gắn user, không có thì cho qua (anonymous)
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := ResolveUser(c, config.DB)
		if user != nil {
			c.Set("user_id", strconv.FormatUint(uint64(user.ID), 10))
			c.Set("role", string(user.Role))
		}
		c.Next()
	}
}
