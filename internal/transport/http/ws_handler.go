package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"mechina-chat-service/internal/engine"
	"mechina-chat-service/internal/infra/llm"
)

// WSHandler serves the conversational flow over a websocket: quiz prompts
// arrive as individual frames instead of one joined reply.
type WSHandler struct {
	engine    *engine.Engine
	buffer    *ReplyBuffer
	responder Responder
	upgrader  websocket.Upgrader
}

func NewWSHandler(eng *engine.Engine, buffer *ReplyBuffer, responder Responder) *WSHandler {
	return &WSHandler{
		engine:    eng,
		buffer:    buffer,
		responder: responder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type chatFrame struct {
	Message string `json:"message"`
	Payload string `json:"payload"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// ServeWS upgrades the request and relays frames between the client, the
// questionnaire engine and the chat responder. Writes go through a single
// goroutine so the connection never sees concurrent writes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	respondentID := r.URL.Query().Get("respondentId")
	if respondentID == "" {
		http.Error(w, "missing respondentId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundFrame, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for frame := range send {
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundFrame
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if err := h.engine.Start(ctx, respondentID); err != nil {
				send <- outboundFrame{Type: "error", Payload: err.Error()}
				continue
			}
			h.flushQuiz(respondentID, send)
		case "chat":
			var payload chatFrame
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundFrame{Type: "error", Payload: "invalid chat payload"}
				continue
			}
			handled, err := h.engine.Handle(ctx, respondentID, engine.Input{
				Message: payload.Message,
				Payload: payload.Payload,
			})
			if err != nil {
				send <- outboundFrame{Type: "error", Payload: err.Error()}
				continue
			}
			if handled {
				h.flushQuiz(respondentID, send)
				continue
			}
			reply, err := h.responder.ChatReply(ctx, []llm.Message{{Role: "user", Content: payload.Message}})
			if err != nil {
				send <- outboundFrame{Type: "error", Payload: "chat unavailable"}
				continue
			}
			send <- outboundFrame{Type: "chat", Payload: reply}
		case "reset":
			if err := h.engine.Reset(ctx, respondentID); err != nil {
				send <- outboundFrame{Type: "error", Payload: err.Error()}
			}
		default:
			send <- outboundFrame{Type: "error", Payload: "unsupported message type"}
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) flushQuiz(respondentID string, send chan<- outboundFrame) {
	for _, message := range h.buffer.DrainAll(respondentID) {
		send <- outboundFrame{Type: "quiz", Payload: message}
	}
}
