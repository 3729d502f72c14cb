package connectors

// Test index:
//  1. TestQuoteStreamConsumesTicks verifies subscription, caching, and snapshot ordering.
//  2. TestQuoteStreamSnapshotEmpty returns an empty snapshot before any ticks.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// TestQuoteStreamConsumesTicks verifies subscription, caching, and snapshot ordering.
func TestQuoteStreamConsumesTicks(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan []string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var sub struct {
			Action  string   `json:"action"`
			Symbols []string `json:"symbols"`
		}
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("reading subscribe: %v", err)
			return
		}
		subscribed <- sub.Symbols

		frames := []quoteFrame{
			{Type: "quote", Symbol: "GBPUSD", Bid: 1.2650, Ask: 1.2652, Time: 1748855700},
			{Type: "quote", Symbol: "EURUSD", Bid: 1.1050, Ask: 1.1051, Time: 1748855700},
			{Type: "quote", Symbol: "EURUSD", Bid: 1.1052, Ask: 1.1053, Time: 1748855760},
			{Type: "heartbeat"},
		}
		for _, f := range frames {
			data, _ := json.Marshal(f)
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}

		// hold the socket open until the client goes away
		conn.ReadMessage()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	stream := NewQuoteStream(wsURL, []string{"EURUSD", "GBPUSD"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.Run(ctx)

	select {
	case symbols := <-subscribed:
		if len(symbols) != 2 {
			t.Fatalf("unexpected subscription: %v", symbols)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("subscribe message never arrived")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snapshot := stream.Snapshot()
		if len(snapshot) == 2 && snapshot[0].Bid == 1.1052 {
			if snapshot[0].Symbol != "EURUSD" || snapshot[1].Symbol != "GBPUSD" {
				t.Fatalf("snapshot not sorted by symbol: %+v", snapshot)
			}
			if !snapshot[0].Time.Equal(time.Unix(1748855760, 0).UTC()) {
				t.Fatalf("unexpected quote time: %v", snapshot[0].Time)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("quotes never reached the cache, snapshot: %+v", snapshot)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestQuoteStreamSnapshotEmpty returns an empty snapshot before any ticks.
func TestQuoteStreamSnapshotEmpty(t *testing.T) {
	stream := NewQuoteStream("ws://127.0.0.1:1", nil)
	if got := stream.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}
