// Package ws runs WebSocket fan-out on gorilla/websocket.
//
//	var hub = ws.NewHub()
//	func init() { go hub.Run() }
//
//	// in a route handler:
//	ws.Upgrade(w, r, hub)
//
//	// from anywhere:
//	hub.Broadcast <- payload
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = 54 * time.Second // under pongWait so pings keep the read alive
	maxMsgSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     originAllowed,
}

// originAllowed accepts the configured CORS origin; with no origin
// configured (development) everything passes.
func originAllowed(r *http.Request) bool {
	allowed := config.CORSOrigin()
	if allowed == "" || allowed == "*" {
		return true
	}
	return r.Header.Get("Origin") == allowed
}

// Message is one inbound frame with the connection it arrived on.
type Message struct {
	Client *Client
	Data   []byte
}

// Hub tracks connections and fans Broadcast out to all of them.
// Everything funnels through Run's loop, so no lock guards the set.
type Hub struct {
	Broadcast chan []byte

	// OnMessage, when set before Run, receives every inbound frame.
	// The feed endpoints are one-way and leave it nil.
	OnMessage func(h *Hub, m Message)

	clients map[*Client]struct{}
	join    chan *Client
	leave   chan *Client
	inbound chan Message
}

func NewHub() *Hub {
	return &Hub{
		Broadcast: make(chan []byte, 256),
		clients:   make(map[*Client]struct{}),
		join:      make(chan *Client),
		leave:     make(chan *Client),
		inbound:   make(chan Message, 256),
	}
}

// Run owns the client set. Start it in a goroutine before Upgrade.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.join:
			h.clients[c] = struct{}{}
			logger.Info("ws: client joined", "total", len(h.clients))

		case c := <-h.leave:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.out)
				logger.Info("ws: client left", "total", len(h.clients))
			}

		case msg := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.out <- msg:
				default: // slow client: disconnect rather than block the hub
					delete(h.clients, c)
					close(c.out)
				}
			}

		case m := <-h.inbound:
			if h.OnMessage != nil {
				h.OnMessage(h, m)
			}
		}
	}
}

// Upgrade promotes the HTTP connection and attaches it to hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}

	c := &Client{hub: hub, conn: conn, out: make(chan []byte, 256)}
	hub.join <- c
	go c.writeLoop()
	go c.readLoop()
}

// Client is one live connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	out  chan []byte
}

// Send queues a frame for this client alone, dropping it if the client
// cannot keep up.
func (c *Client) Send(data []byte) {
	select {
	case c.out <- data:
	default:
	}
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.leave <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: abnormal close", "error", err)
			}
			return
		}
		c.hub.inbound <- Message{Client: c, Data: data}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
