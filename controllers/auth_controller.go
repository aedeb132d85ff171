package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/lms-portal-backend/models"
	"github.com/vnkhanh/lms-portal-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Cookie phiên sống 7 ngày, http-only, SameSite=Lax, Secure ở production
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(utils.SessionCookieName, token, int((7 * 24 * time.Hour).Seconds()), "/", "", secure, true)
}

// ====== HANDLERS ======

// POST /api/auth/register — đăng ký tài khoản tác giả
func Register(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Check email tồn tại
	var existing models.User
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email đã được sử dụng"})
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể mã hoá mật khẩu"})
		return
	}

	newUser := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     models.RoleAuthor,
	}

	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi khi tạo người dùng"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Đăng ký thành công",
		"user_id": newUser.ID,
	})
}

// POST /api/auth/login — đăng nhập bằng email + mật khẩu, set cookie phiên
func Login(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email hoặc mật khẩu không đúng"})
		return
	}

	// Cổng này chỉ dành cho tác giả
	if !user.IsAuthor() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Chỉ tác giả mới được truy cập cổng quản trị"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email hoặc mật khẩu không đúng"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tạo token"})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Đăng nhập thành công",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// POST /api/auth/logingoogle — đăng nhập qua Google, đồng bộ user theo email
func GoogleLogin(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Xác minh token với đúng GOOGLE_CLIENT_ID
	payload, err := idtoken.Validate(c, input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token Google không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name, _ = payload.Claims["nickname"].(string)
	}

	user, err := utils.SyncProviderUser(db, email, name, payload.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể đồng bộ user Google"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Không thể tạo token"})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// POST /api/auth/logout — xóa cookie phiên
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/auth/me — thông tin principal hiện tại
func Me(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID := c.GetString("user_id")
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Chưa đăng nhập"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
