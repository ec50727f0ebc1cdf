package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"practice-quiz-service/internal/app"
)

type WSHandler struct {
	service  *app.PlayService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlayService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS attaches a websocket to an existing play session. Every accepted
// command answers with the new session state; finishing the quiz also sends
// the results.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	initial, err := h.service.View(r.Context(), sessionID)
	if err != nil {
		status, body := errorBody(err)
		writeJSON(w, status, body)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// single writer; gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblocks the read loop below
				conn.Close()
				return
			}
		}
	}()

	if enqueue(send, writerDone, outboundMessage[any]{Type: "state", Payload: initial}) {
	read:
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			for _, msg := range h.handle(r.Context(), sessionID, inbound) {
				if !enqueue(send, writerDone, msg) {
					break read
				}
			}
		}
	}

	close(send)
	<-writerDone
}

// enqueue hands msg to the writer. It reports false once the writer has stopped.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func (h *WSHandler) handle(ctx context.Context, sessionID string, inbound inboundMessage) []outboundMessage[any] {
	fail := func(err error) []outboundMessage[any] {
		return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: err.Error()}}}
	}
	state := func(view app.SessionView) []outboundMessage[any] {
		return []outboundMessage[any]{{Type: "state", Payload: view}}
	}

	switch inbound.Type {
	case "select":
		var payload selectRequest
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}}
		}
		question, err := questionOrCurrent(ctx, h.service, sessionID, payload.Question)
		if err != nil {
			return fail(err)
		}
		view, err := h.service.Select(ctx, sessionID, question, payload.Option, payload.Selected)
		if err != nil {
			return fail(err)
		}
		return state(view)
	case "submit":
		var payload submitRequest
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: "invalid submit payload"}}}
		}
		question, err := questionOrCurrent(ctx, h.service, sessionID, payload.Question)
		if err != nil {
			return fail(err)
		}
		view, _, err := h.service.Submit(ctx, sessionID, question)
		if err != nil {
			return fail(err)
		}
		return state(view)
	case "advance":
		view, complete, err := h.service.Advance(ctx, sessionID)
		if err != nil {
			return fail(err)
		}
		out := state(view)
		if complete {
			res, err := h.service.Results(ctx, sessionID)
			if err != nil {
				return append(out, fail(err)...)
			}
			out = append(out, outboundMessage[any]{Type: "results", Payload: res})
		}
		return out
	case "retreat":
		view, err := h.service.Retreat(ctx, sessionID)
		if err != nil {
			return fail(err)
		}
		return state(view)
	case "restart":
		view, err := h.service.Restart(ctx, sessionID)
		if err != nil {
			return fail(err)
		}
		return state(view)
	}
	return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
