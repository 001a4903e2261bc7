// internal/service/push/hub.go
package push

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"bazaar/internal/pkg/logger"
)

// Hub 按购物会话维护 WebSocket 连接，把服务端事件推给对应的浏览器。
// 同一会话允许多个标签页同时在线。
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]struct{}
}

// NewHub 创建一个空的连接中心。
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]struct{})}
}

// Register 把一个连接挂到会话名下。
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[sessionID][conn] = struct{}{}
}

// Unregister 摘掉一个连接并关闭它。
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	if set, ok := h.conns[sessionID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, sessionID)
		}
	}
	h.mu.Unlock()
	conn.Close()
}

// Push 把一条 JSON 消息发给会话名下的所有连接。
// 单个连接写失败只记日志，不影响其他连接。
func (h *Hub) Push(ctx context.Context, sessionID string, payload interface{}) {
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.conns[sessionID]))
	for conn := range h.conns[sessionID] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(payload); err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Str("session_id", sessionID).
				Msg("websocket push failed")
		}
	}
}

// SessionCount 返回当前在线的会话数，用于健康检查。
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
