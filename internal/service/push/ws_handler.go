// internal/service/push/ws_handler.go
package push

import (
	"net/http"

	"github.com/gorilla/websocket"

	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 门店页面与推送网关不同源
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler 把浏览器升级为 WebSocket 连接并注册到 Hub。
type WSHandler struct {
	hub *Hub
}

// NewWSHandler 创建一个新的 WebSocket 接入处理器。
func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes 在 ServeMux 上注册路由。
func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.handleConnect)
}

// handleConnect 的会话标识优先取查询参数，退回到购物车 Cookie。
func (h *WSHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		if cookie, err := r.Cookie(constants.CartSessionCookie); err == nil {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Register(sessionID, conn)
	logger.Ctx(r.Context()).Info().Str("session_id", sessionID).Msg("websocket connected")

	// 读循环只为感知对端关闭
	go func() {
		defer h.hub.Unregister(sessionID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
