package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/infra/memory"
)

func TestWebSocketPlayFlow(t *testing.T) {
	ctx := context.Background()
	service := app.NewPlayServiceWithSeed(memory.NewCollectionStore(), memory.NewSessionStore(), app.Settings{}, func() int64 { return 1 })
	quiz, err := service.Upload(ctx, []byte(sampleDoc))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	view, err := service.Start(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	server := httptest.NewServer(NewRouter(service))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=" + view.SessionID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if typ, _ := readNext(t, conn); typ != "state" {
		t.Fatalf("expected initial state, got %s", typ)
	}

	send(t, conn, "select", map[string]any{"option": 1, "selected": true})
	expectType(t, conn, "state")
	send(t, conn, "submit", nil)
	_, payload := readNext(t, conn)
	var state app.SessionView
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Question == nil || state.Question.State != domain.StateSubmitted {
		t.Fatalf("expected submitted question, got %+v", state.Question)
	}

	send(t, conn, "advance", nil)
	expectType(t, conn, "state")
	send(t, conn, "select", map[string]any{"question": 1, "option": 0, "selected": true})
	expectType(t, conn, "state")
	send(t, conn, "select", map[string]any{"question": 1, "option": 2, "selected": true})
	expectType(t, conn, "state")
	send(t, conn, "advance", nil)
	expectType(t, conn, "state")

	typ, payload := readNext(t, conn)
	if typ != "results" {
		t.Fatalf("expected results, got %s", typ)
	}
	var res domain.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if res.Percentage != 100 || res.Message != "Great job!" {
		t.Fatalf("expected perfect score, got %+v", res)
	}

	send(t, conn, "bogus", nil)
	expectType(t, conn, "error")
}

func TestWebSocketUnknownSession(t *testing.T) {
	service := app.NewPlayService(memory.NewCollectionStore(), memory.NewSessionStore(), app.Settings{})
	server := httptest.NewServer(NewRouter(service))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=nope"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", resp)
	}
}

func TestEnqueueStopsWhenWriterExits(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !enqueue(send, writerDone, outboundMessage[any]{Type: "state"}) {
		t.Fatalf("expected buffered message to be accepted")
	}
	close(writerDone)

	result := make(chan bool, 1)
	go func() { result <- enqueue(send, writerDone, outboundMessage[any]{Type: "state"}) }()
	select {
	case ok := <-result:
		if ok {
			t.Fatalf("full buffer with a stopped writer must not accept messages")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked after the writer stopped")
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func expectType(t *testing.T, conn *websocket.Conn, want string) {
	t.Helper()
	if typ, payload := readNext(t, conn); typ != want {
		t.Fatalf("expected %s, got %s: %s", want, typ, payload)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg.Type, msg.Payload
}
