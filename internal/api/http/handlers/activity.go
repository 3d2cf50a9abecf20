package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

const (
	activityBuffer = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

// ActivityMessage 活跃状态推送消息
type ActivityMessage struct {
	Active bool  `json:"active"`
	Size   int   `json:"size"`
	Time   int64 `json:"time"` // Unix毫秒
}

// ActivityHandlers 工作池活跃状态推送
type ActivityHandlers struct {
	pool     iface.WorkPool
	upgrader websocket.Upgrader
	logger   log.Logger
	shutdown context.Context
}

// NewActivityHandlers 创建活跃状态推送处理器
//
// shutdown 结束时关闭所有推送连接。
func NewActivityHandlers(shutdown context.Context, pool iface.WorkPool, logger log.Logger) *ActivityHandlers {
	return &ActivityHandlers{
		pool: pool,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:   logger,
		shutdown: shutdown,
	}
}

// Stream 升级为WebSocket并推送活跃状态变化
//
// 连接建立后先推送当前状态，之后每次状态翻转推送一条。
func (h *ActivityHandlers) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan bool, activityBuffer)
	id, err := h.pool.Subscribe(func(active bool) {
		// 监听器运行在观察者分发goroutine上，不能阻塞
		select {
		case updates <- active:
		default:
			h.logger.Warn("活跃状态推送缓冲已满，丢弃一条更新")
		}
	})
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		return
	}
	defer func() { _ = h.pool.Unsubscribe(id) }()

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	if err := h.write(conn, h.pool.Size() > 0); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case active := <-updates:
			if err := h.write(conn, active); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-h.shutdown.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (h *ActivityHandlers) write(conn *websocket.Conn, active bool) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ActivityMessage{
		Active: active,
		Size:   h.pool.Size(),
		Time:   time.Now().UnixMilli(),
	})
}

// readLoop 丢弃客户端消息，只用于感知断开与处理pong
func (h *ActivityHandlers) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
