package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/lms-portal-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

func formatCourseID(courseID uint) string {
	return strconv.FormatUint(uint64(courseID), 10)
}

// gửi message dạng JSON qua WebSocket
func sendJSON(conn *websocket.Conn, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("Lỗi JSON marshal:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("Lỗi gửi message:", err)
	}
}

// WebSocket theo dõi một khóa học (trang soạn thảo)
func HandleCourseWebSocket(c *gin.Context) {
	courseID := c.Param("id")
	token := c.Query("token")

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}

	userID := claims.UserID
	log.Printf("Course WS connected: courseID=%s, userID=%s\n", courseID, userID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade thất bại:", err)
		return
	}
	H.Register(courseID, conn)
	defer H.Unregister(courseID, conn)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to course " + courseID})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	log.Printf("Course WS disconnected: courseID=%s, userID=%s\n", courseID, userID)
	conn.Close()
}

// WebSocket cho trang danh sách khóa học
func HandleGlobalWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}

	userID := claims.UserID
	log.Printf("Global WS connected: userID=%s\n", userID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade thất bại:", err)
		return
	}
	H.RegisterGlobal(conn)
	defer H.UnregisterGlobal(conn)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to course list updates"})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	log.Printf("Global WS disconnected: userID=%s\n", userID)
	conn.Close()
}
