package speech

import (
	log "log/slog"
	"time"
)

// Queue wraps an Input with an injection queue so control clients can feed
// typed commands into the listen flow. Queued text is consumed by the very
// next Listen call, sub-dialogues included, ahead of the wrapped device.
type Queue struct {
	inner   Input
	pending chan string
}

func NewQueue(inner Input) *Queue {
	return &Queue{inner: inner, pending: make(chan string, 16)}
}

// Push enqueues text as if it had been spoken. Drops when the queue is
// full rather than blocking the control server.
func (q *Queue) Push(text string) {
	select {
	case q.pending <- text:
	default:
		log.Warn("Command queue full, dropping", "text", text)
	}
}

func (q *Queue) Listen(timeout, phraseLimit time.Duration) (string, error) {
	select {
	case text := <-q.pending:
		log.Info("Injected command", "text", text)
		return text, nil
	default:
	}
	return q.inner.Listen(timeout, phraseLimit)
}
