package smtp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/publication-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw := buildMessage("noreply@example.com", domain.EmailMessage{
		Subject:    "publication_admin authorization",
		HTMLBody:   "<h1>Authorization</h1>",
		Recipients: []string{"a@example.com", "b@example.com"},
	})

	header, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, header, "From: noreply@example.com")
	assert.Contains(t, header, "To: a@example.com, b@example.com")
	assert.Contains(t, header, "Subject: publication_admin authorization")
	assert.Contains(t, header, `Content-Type: text/html; charset="utf-8"`)
	assert.Equal(t, "<h1>Authorization</h1>", body)
}

func TestMailer_NoRecipients(t *testing.T) {
	m := &mailer{host: "localhost", port: 1025}
	err := m.Send(context.Background(), domain.EmailMessage{Subject: "s"})
	assert.ErrorContains(t, err, "no recipients")
}

func TestLogMailer_NeverFails(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), domain.EmailMessage{Recipients: []string{"a@example.com"}}))
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.EmailMessage
	err  error
	done chan struct{}
}

func (r *recordingMailer) Send(_ context.Context, msg domain.EmailMessage) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	return r.err
}

func (r *recordingMailer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestQueue_DeliversInBackground(t *testing.T) {
	rec := &recordingMailer{done: make(chan struct{}, 1)}
	q := NewQueue(rec, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	require.NoError(t, q.Send(context.Background(), domain.EmailMessage{Subject: "hi", Recipients: []string{"a@example.com"}}))

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
	assert.Equal(t, 1, rec.count())
}

func TestQueue_FullReturnsError(t *testing.T) {
	q := NewQueue(&recordingMailer{}, 1)
	require.NoError(t, q.Enqueue(domain.EmailMessage{}))
	assert.ErrorIs(t, q.Enqueue(domain.EmailMessage{}), ErrQueueFull)
}

func TestQueue_DrainsOnShutdown(t *testing.T) {
	rec := &recordingMailer{err: errors.New("smtp down")}
	q := NewQueue(rec, 3)
	require.NoError(t, q.Enqueue(domain.EmailMessage{Subject: "1"}))
	require.NoError(t, q.Enqueue(domain.EmailMessage{Subject: "2"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Run(ctx)

	assert.Equal(t, 2, rec.count())
}
