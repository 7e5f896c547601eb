package mailer

import (
	"context"
	"log"
	"sync"
)

// ConsoleTransport logs messages instead of sending them; used in dev and as
// a test double. Sent messages are retained for inspection.
type ConsoleTransport struct {
	mu   sync.Mutex
	sent []Message

	// Fail, when set, makes every delivery fail; for tests.
	Fail error
}

var _ Transport = (*ConsoleTransport)(nil)

// NewConsoleTransport creates the transport.
func NewConsoleTransport() *ConsoleTransport {
	return &ConsoleTransport{}
}

// Deliver logs the message and records it.
func (t *ConsoleTransport) Deliver(ctx context.Context, from, fromName string, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	t.sent = append(t.sent, msg)
	log.Printf("email (console): from=%q <%s> to=%q subject=%q", fromName, from, msg.To, msg.Subject)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (t *ConsoleTransport) Sent() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.sent))
	copy(out, t.sent)
	return out
}
