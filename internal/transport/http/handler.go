package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"mechina-chat-service/internal/engine"
	"mechina-chat-service/internal/infra/llm"
)

// defaultRespondentID is used when the client does not identify itself.
const defaultRespondentID = "default"

// Responder produces a general-purpose chat reply for messages the
// questionnaire engine did not handle.
type Responder interface {
	ChatReply(ctx context.Context, history []llm.Message) (string, error)
}

// StaticResponder always answers with a fixed reply, used when no language
// model is configured.
type StaticResponder string

func (s StaticResponder) ChatReply(context.Context, []llm.Message) (string, error) {
	return string(s), nil
}

// ChatHandler is the REST surface of the chat API: the questionnaire gets
// priority while active, everything else goes to the responder.
type ChatHandler struct {
	engine    *engine.Engine
	buffer    *ReplyBuffer
	responder Responder
	publicDir string
}

func NewChatHandler(eng *engine.Engine, buffer *ReplyBuffer, responder Responder, publicDir string) *ChatHandler {
	return &ChatHandler{engine: eng, buffer: buffer, responder: responder, publicDir: publicDir}
}

// NewRouter assembles the public HTTP surface: JSON API, websocket chat and
// static files, behind a permissive CORS policy.
func NewRouter(chat *ChatHandler, ws *WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/ping", chat.handlePing)
	r.Post("/api/start-quiz", chat.handleStartQuiz)
	r.Post("/api/chat", chat.handleChat)
	r.Get("/ws", ws.ServeWS)
	if chat.publicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(chat.publicDir)))
	}
	return r
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Quiz  bool   `json:"quiz,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *ChatHandler) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "t": time.Now().UnixMilli()})
}

func (h *ChatHandler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	respondentID := respondentID(r)
	h.buffer.DrainAll(respondentID) // drop leftovers from an aborted run

	if err := h.engine.Start(r.Context(), respondentID); err != nil {
		log.Printf("start quiz: %v", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Reply: "לא הצלחתי להתחיל את השאלון.",
			Error: "failed_to_start_quiz",
		})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: h.buffer.Drain(respondentID), Quiz: true})
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "bad_request"})
		return
	}
	respondentID := respondentID(r)
	userText := lastUserMessage(req.Messages)

	h.buffer.DrainAll(respondentID)
	handled, err := h.engine.Handle(r.Context(), respondentID, engine.Input{Message: userText})
	if err != nil {
		log.Printf("quiz handle: %v", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Reply: "יש תקלה זמנית בצ׳אט (שגיאת שרת).",
			Error: "server_error",
		})
		return
	}
	if handled {
		reply := h.buffer.Drain(respondentID)
		if reply == "" {
			reply = "…"
		}
		writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Quiz: true})
		return
	}

	reply, err := h.responder.ChatReply(r.Context(), req.Messages)
	if err != nil {
		log.Printf("chat reply: %v", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Reply: "יש תקלה זמנית בצ׳אט (שגיאת שרת).",
			Error: "server_error",
		})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func respondentID(r *http.Request) string {
	if id := r.Header.Get("X-Respondent-ID"); id != "" {
		return id
	}
	return defaultRespondentID
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
