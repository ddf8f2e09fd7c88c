package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

var (
	ErrBufferFull = errors.New("producer buffer full")
	ErrClosed     = errors.New("producer closed")
)

// Producer publishes envelopes asynchronously. Messages carry their own topic
// so one writer serves every event type.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func NewProducer(brokers []string, buf int, log *slog.Logger) *Producer {
	if log == nil {
		log = slog.Default()
	}
	p := &Producer{
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
	p.w = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				p.log.Error("kafka write failed", "messages", len(msgs), "err", err)
			}
		},
	}
	return p
}

// Start runs the writer loop until Close drains the inbox.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Error("kafka publish failed", "topic", m.Topic, "err", err)
			}
		}
		if err := p.w.Close(); err != nil {
			p.log.Error("kafka writer close", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		p.Close()
	}()
}

func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- kafka.Message{Topic: topic, Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishEnvelope encodes env and queues it with the event type/version headers.
func (p *Producer) PublishEnvelope(topic string, key []byte, env booking.Envelope) error {
	value, err := Marshal(env)
	if err != nil {
		return err
	}
	return p.Publish(topic, key, value,
		kafka.Header{Key: HeaderEventType, Value: []byte(env.EventType)},
		kafka.Header{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
	)
}

// Close stops accepting messages; the loop flushes what is queued and exits.
func (p *Producer) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
	})
}

func (p *Producer) WaitClosed() { <-p.closeCh }

// Nop drops every envelope. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishEnvelope(string, []byte, booking.Envelope) error { return nil }
