// internal/handlers/live.go
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/gateway"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveSendBuffer = 16
)

// ChangeMessage is pushed to browsers when a collection changed. It carries
// no data; clients refetch what they show.
type ChangeMessage struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveHandler fans change signals out to connected websocket clients.
type LiveHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*liveClient]struct{}
	subs    []gateway.Subscription
}

func NewLiveHandler(checkOrigin func(r *http.Request) bool) *LiveHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &LiveHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[*liveClient]struct{}),
	}
}

// Watch forwards changes of collection to all clients. refresh, when set,
// runs before clients are told, so a client that refetches sees fresh data.
func (h *LiveHandler) Watch(feed gateway.ChangeFeed, collection string, refresh func()) error {
	sub, err := feed.Subscribe(collection, func() {
		if refresh != nil {
			refresh()
		}
		h.Broadcast(collection)
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()
	return nil
}

func (h *LiveHandler) Broadcast(collection string) {
	payload, err := json.Marshal(ChangeMessage{Type: "changed", Collection: collection})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// too slow to keep up, drop it
			h.removeLocked(client)
		}
	}
}

func (h *LiveHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unsubscribes from the feed and disconnects every client.
func (h *LiveHandler) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	for client := range h.clients {
		h.removeLocked(client)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// GET /v1/catalog/live
func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &liveClient{conn: conn, send: make(chan []byte, liveSendBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	logrus.WithField("remote", conn.RemoteAddr().String()).Debug("Live client connected")

	go h.writePump(client)
	h.readPump(client)
}

// readPump only watches for the connection going away; clients never send
// anything meaningful.
func (h *LiveHandler) readPump(client *liveClient) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(client)
		h.mu.Unlock()
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(livePongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("WebSocket read error")
			}
			return
		}
	}
}

func (h *LiveHandler) writePump(client *liveClient) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithError(err).Debug("WebSocket write error")
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) removeLocked(client *liveClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}
