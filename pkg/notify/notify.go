// Package notify delivers emails in the background so request handlers never
// wait on the SMTP relay.
package notify

import (
	"errors"
	"sync"

	"sms-portal/pkg/email"

	"go.uber.org/zap"
)

var (
	ErrClosed    = errors.New("notifier is closed")
	ErrQueueFull = errors.New("notification queue is full")
)

// Notifier queues outgoing messages.
type Notifier interface {
	Enqueue(msg email.Message) error
}

// Pool is a fixed set of workers draining a buffered queue into a Sender.
type Pool struct {
	sender email.Sender
	logger *zap.Logger
	queue  chan email.Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(sender email.Sender, workers, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		sender: sender,
		logger: logger,
		queue:  make(chan email.Message, queueSize),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work(i)
	}
	return p
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for msg := range p.queue {
		if err := p.sender.Send(msg); err != nil {
			p.logger.Error("Failed to send email",
				zap.Int("worker", id),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			continue
		}
		p.logger.Debug("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	}
}

// Enqueue never blocks. It returns ErrQueueFull when every slot is taken.
// Messages without a recipient are dropped with a warning.
func (p *Pool) Enqueue(msg email.Message) error {
	if msg.To == "" {
		p.logger.Warn("Dropping email without recipient", zap.String("subject", msg.Subject))
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

// Sync sends messages inline. Commands that exit right after their work use it.
type Sync struct {
	Sender email.Sender
	Logger *zap.Logger
}

func (s Sync) Enqueue(msg email.Message) error {
	if msg.To == "" {
		return nil
	}
	if err := s.Sender.Send(msg); err != nil {
		if s.Logger != nil {
			s.Logger.Error("Failed to send email", zap.String("to", msg.To), zap.Error(err))
		}
		return err
	}
	return nil
}
