package smtp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/publication-admin/internal/domain"
)

// ErrQueueFull is returned by Enqueue when the worker is behind.
var ErrQueueFull = errors.New("mail queue is full")

// Queue hands messages to a single background worker so request handlers
// never wait on the SMTP server.
type Queue struct {
	ch     chan domain.EmailMessage
	mailer Mailer
}

func NewQueue(mailer Mailer, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan domain.EmailMessage, size), mailer: mailer}
}

// Send enqueues msg and returns immediately so Queue itself satisfies Mailer.
func (q *Queue) Send(_ context.Context, msg domain.EmailMessage) error {
	return q.Enqueue(msg)
}

func (q *Queue) Enqueue(msg domain.EmailMessage) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued messages until ctx is cancelled, then drains what is
// left with a short grace period.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case msg := <-q.ch:
			q.deliver(ctx, msg)
		case <-ctx.Done():
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for {
		select {
		case msg := <-q.ch:
			q.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, msg domain.EmailMessage) {
	if err := q.mailer.Send(ctx, msg); err != nil {
		slog.Error("email delivery failed",
			"component", "email",
			"recipients", msg.Recipients,
			"subject", msg.Subject,
			"error", err,
		)
	}
}
