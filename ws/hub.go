package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // Theo từng courseID
	GlobalClients map[*websocket.Conn]*Client            // Dành cho trang danh sách khóa học
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// Tín hiệu invalidation gửi cho tầng trình bày sau mỗi mutation thành công
type CourseChangedEvent struct {
	Type     string `json:"type"`
	CourseID uint   `json:"course_id"`
}

// Register theo courseID riêng
func (h *Hub) Register(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[courseID]; !ok {
		h.Clients[courseID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[courseID][conn] = client

	go h.readPump(courseID, conn)
	go h.writePump(courseID, conn)
}

// Register global cho trang danh sách
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go h.readGlobalPump(conn)
	go h.writeGlobalPump(conn)
}

// Broadcast theo courseID
func (h *Hub) Broadcast(courseID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[courseID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast toàn bộ global clients (danh sách)
func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// GetStats trả về số client đang kết nối (cho health check)
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	perCourse := 0
	for _, clients := range h.Clients {
		perCourse += len(clients)
	}
	return map[string]int{
		"course_clients": perCourse,
		"global_clients": len(h.GlobalClients),
	}
}

// BroadcastCourseChanged gửi tín hiệu "khóa học đã thay đổi" cho tầng trình bày.
// Gửi cả vào room của khóa học lẫn kênh global (trang danh sách).
func BroadcastCourseChanged(courseID uint) {
	event := CourseChangedEvent{
		Type:     "course_changed",
		CourseID: courseID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}

	H.Broadcast(formatCourseID(courseID), data)
	H.BroadcastGlobal(data)
}

// Unregister client theo courseID
func (h *Hub) Unregister(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[courseID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, courseID)
		}
	}
}

// Unregister global client
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// Read pump riêng theo courseID
func (h *Hub) readPump(courseID string, conn *websocket.Conn) {
	defer h.Unregister(courseID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump riêng theo courseID
func (h *Hub) writePump(courseID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.Clients[courseID][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}

	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Read pump global
func (h *Hub) readGlobalPump(conn *websocket.Conn) {
	defer h.UnregisterGlobal(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump global
func (h *Hub) writeGlobalPump(conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.GlobalClients[conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}

	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
