package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher delivers an encoded message to the configured destination. key
// identifies the identity so brokers that partition keep one identity's
// messages in order.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
	Close() error
}

// LogPublisher writes messages to the logger. Used when no broker is
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, key string, body []byte) error {
	p.logger.InfoContext(ctx, "notification", "key", key, "body", string(body))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Published is one message captured by a Recorder.
type Published struct {
	Key  string
	Body []byte
}

// Recorder keeps published messages in memory. Err, when set, is returned
// from every Publish instead of recording.
type Recorder struct {
	mu       sync.Mutex
	messages []Published
	Err      error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, key string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Published{Key: key, Body: append([]byte(nil), body...)})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a snapshot of everything published so far.
func (r *Recorder) Messages() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.messages))
	copy(out, r.messages)
	return out
}
