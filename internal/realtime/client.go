package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/01moynul/campusmart/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBuffer = 64
)

// Inbound client events.
const (
	clientTypingStart = "typing:start"
	clientTypingStop  = "typing:stop"
	clientMessageRead = "message:read"
)

// Client is one WebSocket connection of an authenticated user.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  int64
	limiter *rate.Limiter
}

func newClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		userID:  userID,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 20),
	}
}

// enqueue never blocks. Frames for a client that is not draining its
// buffer are dropped.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Printf("realtime: send buffer full for user %d, dropping frame", c.userID)
	}
}

// readPump reads client events until the connection fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error for user %d: %v", c.userID, err)
			}
			return
		}
		if !c.limiter.Allow() {
			continue
		}
		c.handle(message)
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type typingPayload struct {
	ReceiverID int64 `json:"receiverId"`
}

type readPayload struct {
	MessageIDs []int64 `json:"messageIds"`
	SenderID   int64   `json:"senderId"`
}

// handle relays one client event. Unknown or malformed events are ignored.
func (c *Client) handle(message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		log.Printf("realtime: bad frame from user %d: %v", c.userID, err)
		return
	}

	switch env.Event {
	case clientTypingStart, clientTypingStop:
		var p typingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.ReceiverID <= 0 {
			return
		}
		out := service.EventTypingStarted
		if env.Event == clientTypingStop {
			out = service.EventTypingStopped
		}
		c.hub.Emit(p.ReceiverID, out, map[string]int64{"userId": c.userID})

	case clientMessageRead:
		var p readPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.SenderID <= 0 {
			return
		}
		c.hub.Emit(p.SenderID, service.EventMessageRead, map[string]interface{}{
			"messageIds": p.MessageIDs,
			"readBy":     c.userID,
		})
	}
}
