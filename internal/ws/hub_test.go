package ws

import (
	"encoding/json"
	"testing"
)

func recvOne(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.Send:
		var payload map[string]interface{}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return payload
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	hub := NewHub()
	a1 := &Client{UserID: 1, Send: make(chan []byte, 4)}
	a2 := &Client{UserID: 1, Send: make(chan []byte, 4)}
	b := &Client{UserID: 2, Send: make(chan []byte, 4)}
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)

	hub.SendToUser(1, map[string]string{"title": "hello"})

	if got := recvOne(t, a1); got["title"] != "hello" {
		t.Errorf("a1 payload = %v", got)
	}
	if got := recvOne(t, a2); got["title"] != "hello" {
		t.Errorf("a2 payload = %v", got)
	}
	select {
	case <-b.Send:
		t.Error("user 2 received user 1's message")
	default:
	}
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 7, Send: make(chan []byte, 1)}
	hub.Register(c)
	if n := hub.ConnectionCount(); n != 1 {
		t.Fatalf("connections = %d, want 1", n)
	}
	c.Close()
	if n := hub.ConnectionCount(); n != 0 {
		t.Fatalf("connections after close = %d, want 0", n)
	}
	// Sending to a closed client must not panic or block.
	hub.SendToUser(7, map[string]string{"title": "late"})
	c.Close() // double close is safe
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 3, Send: make(chan []byte, 1)}
	hub.Register(c)

	hub.SendToUser(3, "first")
	hub.SendToUser(3, "second") // buffer full, dropped

	if n := len(c.Send); n != 1 {
		t.Errorf("queued = %d, want 1 (overflow dropped)", n)
	}
}
