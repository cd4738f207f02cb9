package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/01moynul/campusmart/internal/auth"
	"github.com/01moynul/campusmart/internal/service"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

// attach registers a connection-less client; its frames stay in send.
func attach(h *Hub, userID int64) *Client {
	c := newClient(h, nil, userID)
	h.register <- c
	return c
}

func nextFrame(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatal(err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return Envelope{}
}

func expectEvent(t *testing.T, c *Client, event string) json.RawMessage {
	t.Helper()
	env := nextFrame(t, c)
	if env.Event != event {
		t.Fatalf("event = %s (%s), want %s", env.Event, env.Data, event)
	}
	return env.Data
}

func connCount(h *Hub, userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPresenceMultiDevice(t *testing.T) {
	h := startHub(t)

	alice := attach(h, 1)
	if data := expectEvent(t, alice, service.EventUsersOnlineSet); string(data) != `{"userIds":[1]}` {
		t.Fatalf("initial set = %s", data)
	}

	phone := attach(h, 2)
	expectEvent(t, phone, service.EventUsersOnlineSet)
	if data := expectEvent(t, alice, service.EventUserOnline); string(data) != `{"userId":2}` {
		t.Fatalf("online = %s", data)
	}

	laptop := attach(h, 2)
	if data := expectEvent(t, laptop, service.EventUsersOnlineSet); string(data) != `{"userIds":[1,2]}` {
		t.Fatalf("set = %s", data)
	}

	h.unregister <- phone
	eventually(t, func() bool { return connCount(h, 2) == 1 })
	if !h.IsOnline(2) {
		t.Fatal("user went offline while a connection remained")
	}
	select {
	case frame := <-alice.send:
		t.Fatalf("unexpected frame %s", frame)
	case <-time.After(50 * time.Millisecond):
	}

	h.unregister <- laptop
	if data := expectEvent(t, alice, service.EventUserOffline); string(data) != `{"userId":2}` {
		t.Fatalf("offline = %s", data)
	}
	if h.IsOnline(2) {
		t.Fatal("user still online after last connection closed")
	}
}

func TestEmitReachesEveryConnection(t *testing.T) {
	h := startHub(t)
	a := attach(h, 7)
	b := attach(h, 7)
	expectEvent(t, a, service.EventUsersOnlineSet)
	expectEvent(t, b, service.EventUsersOnlineSet)

	h.Emit(7, service.EventMessageNew, map[string]string{"content": "hi"})
	for _, c := range []*Client{a, b} {
		if data := expectEvent(t, c, service.EventMessageNew); string(data) != `{"content":"hi"}` {
			t.Fatalf("data = %s", data)
		}
	}

	// Offline users are a no-op.
	h.Emit(99, service.EventMessageNew, nil)
}

func TestClientRelaysEvents(t *testing.T) {
	h := startHub(t)
	sender := attach(h, 1)
	receiver := attach(h, 2)
	expectEvent(t, sender, service.EventUsersOnlineSet)
	expectEvent(t, sender, service.EventUserOnline)
	expectEvent(t, receiver, service.EventUsersOnlineSet)

	sender.handle([]byte(`{"event":"typing:start","data":{"receiverId":2}}`))
	if data := expectEvent(t, receiver, service.EventTypingStarted); string(data) != `{"userId":1}` {
		t.Fatalf("typing = %s", data)
	}
	sender.handle([]byte(`{"event":"typing:stop","data":{"receiverId":2}}`))
	if data := expectEvent(t, receiver, service.EventTypingStopped); string(data) != `{"userId":1}` {
		t.Fatalf("typing stop = %s", data)
	}

	receiver.handle([]byte(`{"event":"message:read","data":{"messageIds":[4,5],"senderId":1}}`))
	if data := expectEvent(t, sender, service.EventMessageRead); string(data) != `{"messageIds":[4,5],"readBy":2}` {
		t.Fatalf("read = %s", data)
	}

	// Garbage is ignored.
	sender.handle([]byte(`not json`))
	sender.handle([]byte(`{"event":"typing:start","data":{"receiverId":0}}`))
	select {
	case frame := <-receiver.send:
		t.Fatalf("unexpected frame %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

type stubTokens map[string]*auth.Claims

func (s stubTokens) ValidateToken(token string) (*auth.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid")
}

func TestServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := startHub(t)
	tokens := stubTokens{
		"buyer": {UserID: 3, Role: "buyer"},
		"admin": {UserID: 1, Role: "admin"},
	}
	r := gin.New()
	r.GET("/ws", h.ServeWS(tokens, []string{"http://localhost:5173"}))
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	for token, status := range map[string]int{"": 401, "nope": 401, "admin": 403} {
		_, res, err := websocket.DefaultDialer.Dial(base+"?token="+token, nil)
		if err == nil {
			t.Fatalf("token %q: dial succeeded", token)
		}
		if res == nil || res.StatusCode != status {
			t.Fatalf("token %q: response %v, want %d", token, res, status)
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token=buyer", nil)
	if err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatal(err)
	}
	if env.Event != service.EventUsersOnlineSet || !strings.Contains(string(env.Data), strconv.Itoa(3)) {
		t.Fatalf("first frame = %+v", env)
	}
	if !h.IsOnline(3) {
		t.Fatal("connected user not online")
	}

	conn.Close()
	eventually(t, func() bool { return !h.IsOnline(3) })
}
