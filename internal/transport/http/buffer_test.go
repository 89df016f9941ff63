package http

import (
	"context"
	"strings"
	"testing"

	"mechina-chat-service/internal/engine"
)

func TestReplyBufferRendersOptions(t *testing.T) {
	buffer := NewReplyBuffer()
	ctx := context.Background()

	_ = buffer.SendText(ctx, "u1", "שלום")
	_ = buffer.SendOptions(ctx, "u1", "בחר/י אפשרות", []engine.ChoicePrompt{
		{ID: "a", Label: "ראשונה"},
		{ID: "b", Label: "שנייה"},
	})

	reply := buffer.Drain("u1")
	if !strings.Contains(reply, "שלום") {
		t.Fatalf("missing text message: %q", reply)
	}
	if !strings.Contains(reply, "1. ראשונה") || !strings.Contains(reply, "2. שנייה") {
		t.Fatalf("options not numbered: %q", reply)
	}
	if !strings.Contains(reply, "(אפשר להשיב במספר או בטקסט)") {
		t.Fatalf("missing answer hint: %q", reply)
	}
}

func TestReplyBufferDrainClears(t *testing.T) {
	buffer := NewReplyBuffer()
	_ = buffer.SendText(context.Background(), "u1", "הודעה")

	if got := buffer.Drain("u1"); got == "" {
		t.Fatalf("expected buffered message")
	}
	if got := buffer.Drain("u1"); got != "" {
		t.Fatalf("expected empty buffer after drain, got %q", got)
	}
}

func TestReplyBufferIsolatesRespondents(t *testing.T) {
	buffer := NewReplyBuffer()
	ctx := context.Background()

	_ = buffer.SendText(ctx, "u1", "לאחד")
	_ = buffer.SendText(ctx, "u2", "לשני")

	if got := buffer.Drain("u1"); got != "לאחד" {
		t.Fatalf("u1 got %q", got)
	}
	if got := buffer.Drain("u2"); got != "לשני" {
		t.Fatalf("u2 got %q", got)
	}
}
