package websocket

import (
	"testing"
	"time"
)

func newTestClient(hub *Hub, id string) *Client {
	return &Client{hub: hub, send: make(chan []byte, 8), StationID: id}
}

func stationCount(h *Hub) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func drain(c *Client) int {
	n := 0
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return n
			}
			n++
		case <-time.After(50 * time.Millisecond):
			return n
		}
	}
}

func TestHubIdentifyRebindsStation(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, "station_anon-1")
	hub.register <- c
	waitFor(t, "anonymous registration", func() bool {
		return hub.SendToStation("station_anon-1", map[string]string{"type": "PING"})
	})
	drain(c)

	// Identify handshake: same connection re-registers under the real id
	c.StationID = "press-3"
	hub.register <- c
	waitFor(t, "identified registration", func() bool {
		return hub.SendToStation("press-3", map[string]string{"type": "PING"})
	})
	drain(c)

	if got := stationCount(hub); got != 1 {
		t.Fatalf("expected 1 registered station after identify, got %d", got)
	}
	if hub.SendToStation("station_anon-1", map[string]string{"type": "PING"}) {
		t.Error("anonymous id still routable after identify")
	}

	hub.Broadcast(map[string]string{"type": "POCKET_UPDATED"})
	waitFor(t, "broadcast delivery", func() bool {
		return len(c.send) > 0
	})
	time.Sleep(20 * time.Millisecond)
	if got := drain(c); got != 1 {
		t.Errorf("expected exactly 1 broadcast message, got %d", got)
	}
}

func TestHubDisconnectThenBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, "station_anon-2")
	hub.register <- c
	waitFor(t, "anonymous registration", func() bool {
		return hub.SendToStation("station_anon-2", map[string]string{"type": "PING"})
	})
	c.StationID = "press-7"
	hub.register <- c
	waitFor(t, "identified registration", func() bool {
		return hub.SendToStation("press-7", map[string]string{"type": "PING"})
	})

	hub.unregister <- c
	waitFor(t, "unregister", func() bool { return stationCount(hub) == 0 })

	// The hub must stay alive after the station is gone
	hub.Broadcast(map[string]string{"type": "POCKET_UPDATED"})
	hub.Broadcast(map[string]string{"type": "POCKET_UPDATED"})
	waitFor(t, "broadcast queue drained", func() bool { return len(hub.broadcast) == 0 })

	if err := c.SendJSON(map[string]string{"type": "ACK"}); err == nil {
		t.Error("SendJSON after disconnect should report an error")
	}
}

func TestHubReconnectReplacesOldConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient(hub, "press-5")
	hub.register <- c1
	waitFor(t, "first registration", func() bool {
		return hub.SendToStation("press-5", map[string]string{"type": "PING"})
	})
	drain(c1)

	c2 := newTestClient(hub, "press-5")
	hub.register <- c2
	waitFor(t, "replacement", func() bool {
		c1.sendMu.Lock()
		defer c1.sendMu.Unlock()
		return c1.closed
	})
	if got := stationCount(hub); got != 1 {
		t.Fatalf("expected 1 registered station after reconnect, got %d", got)
	}

	// The replaced connection's unregister must not evict its successor
	hub.unregister <- c1
	time.Sleep(20 * time.Millisecond)
	if !hub.SendToStation("press-5", map[string]string{"type": "PING"}) {
		t.Error("successor connection evicted by stale unregister")
	}
	if got := drain(c2); got == 0 {
		t.Error("expected replacement connection to receive messages")
	}
}
