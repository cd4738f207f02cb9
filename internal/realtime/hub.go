// Package realtime is the WebSocket layer: a process-local presence
// registry and per-user fan-out of JSON events.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/01moynul/campusmart/internal/service"
)

// Envelope is the wire format of every frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks open connections per user. A user may have several (tabs,
// devices); they count as online while at least one is open.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	users map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		users:      make(map[int64]map[*Client]struct{}),
	}
}

// Run serialises connects and disconnects so presence events go out in
// order. It returns when ctx is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	conns, ok := h.users[c.userID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.users[c.userID] = conns
	}
	conns[c] = struct{}{}
	count := len(conns)
	online := h.onlineLocked()
	h.mu.Unlock()

	log.Printf("realtime: user %d connected (%d connection(s))", c.userID, count)
	if count == 1 {
		h.broadcast(service.EventUserOnline, map[string]int64{"userId": c.userID}, c.userID)
	}
	c.enqueue(encode(service.EventUsersOnlineSet, map[string][]int64{"userIds": online}))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	conns, ok := h.users[c.userID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	close(c.send)
	last := len(conns) == 0
	if last {
		delete(h.users, c.userID)
	}
	h.mu.Unlock()

	if last {
		log.Printf("realtime: user %d offline", c.userID)
		h.broadcast(service.EventUserOffline, map[string]int64{"userId": c.userID}, c.userID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conns := range h.users {
		for c := range conns {
			close(c.send)
		}
		delete(h.users, id)
	}
}

func (h *Hub) onlineLocked() []int64 {
	ids := make([]int64, 0, len(h.users))
	for id := range h.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsOnline reports whether the user has at least one open connection.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// Online returns the ids of all connected users, ascending.
func (h *Hub) Online() []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineLocked()
}

// Emit sends event to every connection of userID. Offline users are
// skipped silently.
func (h *Hub) Emit(userID int64, event string, data interface{}) {
	frame := encode(event, data)
	if frame == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.enqueue(frame)
	}
}

// broadcast sends to every connection except those of skip.
func (h *Hub) broadcast(event string, data interface{}, skip int64) {
	frame := encode(event, data)
	if frame == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, conns := range h.users {
		if id == skip {
			continue
		}
		for c := range conns {
			c.enqueue(frame)
		}
	}
}

func encode(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("realtime: marshal %s: %v", event, err)
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		log.Printf("realtime: marshal envelope %s: %v", event, err)
		return nil
	}
	return frame
}
