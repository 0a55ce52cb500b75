package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"sms-portal/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	fail map[string]bool
}

func (r *recordingSender) Send(msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[msg.To] {
		return errors.New("relay refused")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_DeliversEverythingBeforeClose(t *testing.T) {
	sender := &recordingSender{}
	p := NewPool(sender, 3, 20, zap.NewNop())

	for i := 0; i < 20; i++ {
		require.NoError(t, p.Enqueue(email.Message{To: "a@pdn.ac.lk", Subject: "s"}))
	}
	p.Close()

	assert.Len(t, sender.sent, 20)
}

func TestPool_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sender := &recordingSender{fail: map[string]bool{"bad@pdn.ac.lk": true}}
	p := NewPool(sender, 1, 4, zap.New(core))

	require.NoError(t, p.Enqueue(email.Message{To: "bad@pdn.ac.lk", Subject: "Status"}))
	require.NoError(t, p.Enqueue(email.Message{To: "good@pdn.ac.lk", Subject: "Status"}))
	p.Close()

	assert.Len(t, sender.sent, 1)
	entries := logs.FilterMessage("Failed to send email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bad@pdn.ac.lk", entries[0].ContextMap()["to"])
}

// blockingSender holds every send until release is closed.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSender) Send(email.Message) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}

func TestPool_EnqueueFailsFastWhenFull(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	p := NewPool(sender, 1, 1, zap.NewNop())
	defer p.Close()
	defer close(sender.release)

	require.NoError(t, p.Enqueue(email.Message{To: "a@pdn.ac.lk"}))
	<-sender.started
	require.NoError(t, p.Enqueue(email.Message{To: "b@pdn.ac.lk"}))

	done := make(chan error, 1)
	go func() { done <- p.Enqueue(email.Message{To: "c@pdn.ac.lk"}) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestPool_EnqueueAfterClose(t *testing.T) {
	p := NewPool(&recordingSender{}, 1, 1, nil)
	p.Close()
	p.Close()
	assert.ErrorIs(t, p.Enqueue(email.Message{To: "x@pdn.ac.lk"}), ErrClosed)
}

func TestPool_DropsEmptyRecipient(t *testing.T) {
	sender := &recordingSender{}
	p := NewPool(sender, 1, 1, nil)
	require.NoError(t, p.Enqueue(email.Message{Subject: "nobody"}))
	p.Close()
	assert.Empty(t, sender.sent)
}

func TestSync(t *testing.T) {
	sender := &recordingSender{fail: map[string]bool{"bad@pdn.ac.lk": true}}
	s := Sync{Sender: sender}
	require.NoError(t, s.Enqueue(email.Message{To: "ok@pdn.ac.lk"}))
	assert.Error(t, s.Enqueue(email.Message{To: "bad@pdn.ac.lk"}))
	assert.Len(t, sender.sent, 1)
}
