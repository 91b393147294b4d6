package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/apex/log"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans chat events from a Redis channel out to every connected
// WebSocket client. The subscription only runs while at least one client
// is connected.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]struct{}
	redisClient *redis.Client
	channel     string
	cancel      context.CancelFunc
}

func NewHub(redisClient *redis.Client, channel string) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]struct{}),
		redisClient: redisClient,
		channel:     channel,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.registerConnection(conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Connections returns the number of connected clients.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close disconnects every client and stops the subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.Close()
		delete(h.connections, conn)
	}
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

func (h *Hub) registerConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn] = struct{}{}

	if len(h.connections) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go h.subscribeToPubSub(ctx)
	}

	log.WithField("total", len(h.connections)).Info("event feed client connected")
}

func (h *Hub) unregisterConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	if _, ok := h.connections[conn]; !ok {
		return
	}
	delete(h.connections, conn)

	if len(h.connections) == 0 && h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}

	log.WithField("total", len(h.connections)).Info("event feed client disconnected")
}

func (h *Hub) subscribeToPubSub(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	// Write lock: gorilla connections allow one concurrent writer.
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.WithError(err).Debug("event feed write failed")
		}
	}
}
