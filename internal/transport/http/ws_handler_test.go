package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mechina-chat-service/internal/domain"
	"mechina-chat-service/internal/engine"
	"mechina-chat-service/internal/infra/memory"
	"mechina-chat-service/internal/quiz"
)

func dialWS(t *testing.T, server *httptest.Server, respondentID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?respondentId=" + respondentID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", u, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) outboundFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func writeFrame(t *testing.T, conn *websocket.Conn, frameType string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		raw = b
	}
	if err := conn.WriteJSON(inboundFrame{Type: frameType, Payload: raw}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestWSStartEmitsQuizFrames(t *testing.T) {
	server := newTestServer(t, &fakeResponder{reply: "hi"})
	conn := dialWS(t, server, "ws-u1")

	writeFrame(t, conn, "start", nil)

	intro := readFrame(t, conn)
	if intro.Type != "quiz" || !strings.Contains(intro.Payload, "נתחיל") {
		t.Fatalf("intro frame = %+v", intro)
	}
	first := readFrame(t, conn)
	if first.Type != "quiz" || !strings.Contains(first.Payload, "1.") {
		t.Fatalf("first question frame = %+v", first)
	}
}

func TestWSChatAnswersQuiz(t *testing.T) {
	server := newTestServer(t, &fakeResponder{reply: "hi"})
	conn := dialWS(t, server, "ws-u2")

	writeFrame(t, conn, "start", nil)
	readFrame(t, conn) // intro
	readFrame(t, conn) // first question

	writeFrame(t, conn, "chat", chatFrame{Message: "1"})
	next := readFrame(t, conn)
	if next.Type != "quiz" {
		t.Fatalf("expected quiz frame, got %+v", next)
	}
}

func TestWSChatFallsBackToResponder(t *testing.T) {
	server := newTestServer(t, &fakeResponder{reply: "מענה חופשי"})
	conn := dialWS(t, server, "ws-u3")

	writeFrame(t, conn, "chat", chatFrame{Message: "סתם שאלה"})
	frame := readFrame(t, conn)
	if frame.Type != "chat" || frame.Payload != "מענה חופשי" {
		t.Fatalf("chat frame = %+v", frame)
	}
}

func TestWSRejectsMissingRespondentID(t *testing.T) {
	server := newTestServer(t, &fakeResponder{reply: "hi"})

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("GET /ws: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestWSResetDeactivatesQuiz(t *testing.T) {
	store := memory.NewSessionStore()
	repoQuizzes := map[string]domain.Quiz{quiz.FitQuizID: quiz.FitQuiz()}
	repo := memory.NewQuizRepository(memory.NewStaticDefinitions(repoQuizzes), time.Minute)
	buffer := NewReplyBuffer()
	eng := engine.New(quiz.FitQuizID, repo, buffer, engine.WithSessionStore(store))
	responder := &fakeResponder{reply: "חופשי"}
	server := httptest.NewServer(NewRouter(NewChatHandler(eng, buffer, responder, ""), NewWSHandler(eng, buffer, responder)))
	t.Cleanup(server.Close)

	conn := dialWS(t, server, "ws-u4")
	writeFrame(t, conn, "start", nil)
	readFrame(t, conn)
	readFrame(t, conn)

	writeFrame(t, conn, "reset", nil)
	// A reset emits nothing; the next chat turn must reach the responder.
	writeFrame(t, conn, "chat", chatFrame{Message: "שלום"})
	frame := readFrame(t, conn)
	if frame.Type != "chat" || frame.Payload != "חופשי" {
		t.Fatalf("post-reset frame = %+v", frame)
	}
}
