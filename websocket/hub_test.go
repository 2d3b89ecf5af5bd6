package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func register(t *testing.T, hub *Hub, userID uint) *Client {
	t.Helper()
	client := &Client{Hub: hub, ID: userID, Role: "customer", Send: make(chan []byte, 8)}
	hub.Register <- client

	deadline := time.After(time.Second)
	for !hub.IsUserConnected(userID) {
		select {
		case <-deadline:
			t.Fatalf("user %d not registered in time", userID)
		case <-time.After(5 * time.Millisecond):
		}
	}
	return client
}

func receive(t *testing.T, client *Client) *Message {
	t.Helper()
	select {
	case raw := <-client.Send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("failed to decode message: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestPushReachesConnectedUser(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub, 7)

	hub.Push(7, "new_bid", map[string]interface{}{"bid_request_id": float64(3)})

	msg := receive(t, client)
	if msg.Type != "new_bid" {
		t.Errorf("type = %q, want new_bid", msg.Type)
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok || data["bid_request_id"] != float64(3) {
		t.Errorf("data = %v, want bid_request_id 3", msg.Data)
	}
}

func TestPushToOfflineUserIsDropped(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub, 7)

	hub.Push(99, "new_bid", nil)

	select {
	case raw := <-client.Send:
		t.Errorf("unexpected message delivered: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)
	first := register(t, hub, 1)
	second := register(t, hub, 2)

	hub.Broadcast <- &Message{Type: "announcement", Timestamp: time.Now()}

	for _, client := range []*Client{first, second} {
		if msg := receive(t, client); msg.Type != "announcement" {
			t.Errorf("type = %q, want announcement", msg.Type)
		}
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub, 5)

	hub.Unregister <- client

	deadline := time.After(time.Second)
	for hub.IsUserConnected(5) {
		select {
		case <-deadline:
			t.Fatal("user 5 still connected after unregister")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if users := hub.ConnectedUsers(); len(users) != 0 {
		t.Errorf("connected users = %v, want none", users)
	}
}
