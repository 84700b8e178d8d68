package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"go-mythos/internal/objective"
)

func TestEventStream_DeliversBusEvents(t *testing.T) {
	s, r := newTestServer(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	// one event already on the bus before the client connects
	s.manager.Bus().Emit("objective_added", map[string]interface{}{"objective_id": "early"})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/mythos/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var replay objective.BusEvent
	if err := conn.ReadJSON(&replay); err != nil {
		t.Fatalf("reading replayed event: %v", err)
	}
	if replay.Type != "objective_added" || replay.Data["objective_id"] != "early" {
		t.Fatalf("replayed event = %+v", replay)
	}

	// wait for the hub to register the live connection, then emit
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.manager.Bus().Emit("objective_completed", map[string]interface{}{"objective_id": "live"})

	var live objective.BusEvent
	if err := conn.ReadJSON(&live); err != nil {
		t.Fatalf("reading live event: %v", err)
	}
	if live.Type != "objective_completed" || live.Data["objective_id"] != "live" {
		t.Fatalf("live event = %+v", live)
	}
}

func TestEventHub_DropsDeadClients(t *testing.T) {
	s, r := newTestServer(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/mythos/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("dead client never dropped")
		}
		s.manager.Bus().Emit("tick", nil)
		time.Sleep(10 * time.Millisecond)
	}
}
