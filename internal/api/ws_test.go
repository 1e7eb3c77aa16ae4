package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSolveStreamForwardsEvents(t *testing.T) {
	s := newTestServer(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/solves/stream", s.SolveStreamHandler)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/solves/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give the handler time to subscribe before publishing
	time.Sleep(50 * time.Millisecond)
	s.Broker.Publish(TopicSolves, SolveEvent{Type: "solve.completed", Data: map[string]any{"solveId": "x"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt SolveEvent
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != "solve.completed" {
		t.Fatalf("event type: %s", evt.Type)
	}
	if evt.Data["solveId"].(string) != "x" {
		t.Fatalf("payload: %+v", evt.Data)
	}
}
