package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	TypeChatMessage = "CHAT_MESSAGE"
)

// Payload クライアントに送るデータ
type Payload struct {
	Type    string         `json:"type"`
	Message models.Message `json:"message"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // 書き込みは同時に1つだけ
}

func (c *client) write(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fn()
}

// Hub ユーザーIDごとの WebSocket 接続 (複数端末可)
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *Hub) add(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, userID)
		}
	}
	c.conn.Close()
}

// Online 接続中の端末数
func (h *Hub) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve 接続をアップグレードし、切断されるまでブロックする
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn}
	h.add(userID, c)
	defer h.remove(userID, c)
	h.log.Debug("websocket connected", zap.String("user_id", userID))

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				err := c.write(func() error { return conn.WriteMessage(websocket.PingMessage, nil) })
				if err != nil {
					return
				}
			}
		}
	}()

	// クライアントからのメッセージは読み捨てる
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debug("websocket disconnected", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
	}
}

// NotifyMessage 新着メッセージを受信者の全端末に送る
func (h *Hub) NotifyMessage(userID string, msg models.Message) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	payload := Payload{Type: TypeChatMessage, Message: msg}
	for _, c := range targets {
		if err := c.write(func() error { return c.conn.WriteJSON(payload) }); err != nil {
			h.log.Warn("websocket write failed", zap.String("user_id", userID), zap.Error(err))
			h.remove(userID, c)
		}
	}
}
