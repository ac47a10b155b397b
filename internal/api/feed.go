package api

import (
	"mobil_market/internal/domain" // Importing domain models
	"net/http"                     // HTTP status codes
	"sync"                         // Locking
	"time"                         // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/gorilla/websocket" // WebSocket connections
	"github.com/sirupsen/logrus"   // Structured logging
)

// Order event types pushed to admin clients
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

const feedWriteTimeout = 5 * time.Second

// OrderEvent is one message on the admin order feed
type OrderEvent struct {
	Type  string       `json:"type"`
	Order domain.Order `json:"order"`
}

// feedBuffer is how many events may queue for one client before it is dropped
const feedBuffer = 16

// OrderFeed fans order events out to connected admin websockets.
// Every client has its own writer goroutine, so Publish never waits on the network.
// A nil *OrderFeed drops every event.
type OrderFeed struct {
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
	upgrader websocket.Upgrader
}

type feedClient struct {
	conn *websocket.Conn
	send chan OrderEvent
}

// writeLoop drains send until it is closed or a write fails
func (cl *feedClient) writeLoop() {
	defer cl.conn.Close()
	for ev := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := cl.conn.WriteJSON(ev); err != nil {
			logrus.WithError(err).Debug("Order feed write failed")
			return
		}
	}
}

// NewOrderFeed accepts upgrades from the given origins ("*" for any)
func NewOrderFeed(allowedOrigins []string) *OrderFeed {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &OrderFeed{
		clients: make(map[*feedClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Handler upgrades the request and keeps the connection until the client leaves
func (f *OrderFeed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("Order feed upgrade failed")
			return
		}
		cl := &feedClient{conn: conn, send: make(chan OrderEvent, feedBuffer)}
		f.mu.Lock()
		f.clients[cl] = struct{}{}
		f.mu.Unlock()
		go cl.writeLoop()

		// Only control frames are expected from admins; a read error means they left.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		f.remove(cl)
	}
}

// Publish queues ev for every connected client. A client whose queue is
// full is disconnected.
func (f *OrderFeed) Publish(ev OrderEvent) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for cl := range f.clients {
		select {
		case cl.send <- ev:
		default:
			logrus.Warn("Order feed client too slow, disconnecting")
			f.dropLocked(cl)
		}
	}
}

// Clients returns the number of connected clients
func (f *OrderFeed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every client
func (f *OrderFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for cl := range f.clients {
		f.dropLocked(cl)
	}
}

func (f *OrderFeed) remove(cl *feedClient) {
	f.mu.Lock()
	f.dropLocked(cl)
	f.mu.Unlock()
}

// dropLocked forgets cl and stops its writer, which closes the connection
func (f *OrderFeed) dropLocked(cl *feedClient) {
	if _, ok := f.clients[cl]; !ok {
		return
	}
	delete(f.clients, cl)
	close(cl.send)
}
