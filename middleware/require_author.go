package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles cho phép chỉ định nhiều vai trò được quyền truy cập
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Không xác định được vai trò người dùng"})
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi xử lý vai trò người dùng"})
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Chỉ tác giả mới được truy cập khu vực này",
		})
		c.Abort()
	}
}
