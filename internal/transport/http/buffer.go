package http

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mechina-chat-service/internal/engine"
)

// ReplyBuffer collects outbound questionnaire messages per respondent so a
// request/response transport can return everything the engine said in one
// reply. It implements engine.Sender.
type ReplyBuffer struct {
	mu      sync.Mutex
	pending map[string][]string
}

func NewReplyBuffer() *ReplyBuffer {
	return &ReplyBuffer{pending: make(map[string][]string)}
}

func (b *ReplyBuffer) SendText(_ context.Context, respondentID, text string) error {
	b.push(respondentID, text)
	return nil
}

// SendOptions renders the options as a numbered list with a hint that a
// number or free text both work.
func (b *ReplyBuffer) SendOptions(_ context.Context, respondentID, text string, options []engine.ChoicePrompt) error {
	var sb strings.Builder
	sb.WriteString(text)
	for i, option := range options {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, option.Label)
	}
	sb.WriteString("\n(אפשר להשיב במספר או בטקסט)")
	b.push(respondentID, sb.String())
	return nil
}

// Drain returns the buffered messages joined with blank lines and clears
// the buffer for the respondent.
func (b *ReplyBuffer) Drain(respondentID string) string {
	return strings.Join(b.DrainAll(respondentID), "\n\n")
}

// DrainAll returns and clears the individual buffered messages.
func (b *ReplyBuffer) DrainAll(respondentID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	messages := b.pending[respondentID]
	delete(b.pending, respondentID)
	return messages
}

func (b *ReplyBuffer) push(respondentID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[respondentID] = append(b.pending[respondentID], text)
}
