package kafka

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

// Handler returns nil only when the message was processed and its offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

// Reader is the part of *kafka.Reader the consumer drives.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       Reader
	workers int
	log     *slog.Logger

	// RetryBase and RetryMax bound the backoff between attempts at a failing message.
	RetryBase time.Duration
	RetryMax  time.Duration
}

func NewConsumer(brokers []string, group string, topics []string, workers int, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, workers, log)
}

func newConsumer(r Reader, workers int, log *slog.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{r: r, workers: workers, log: log, RetryBase: defaultRetryBase, RetryMax: defaultRetryMax}
}

const (
	defaultRetryBase = 200 * time.Millisecond
	defaultRetryMax  = 30 * time.Second
)

func (c *Consumer) backoff() retry.Backoff {
	base, ceiling := c.RetryBase, c.RetryMax
	if base <= 0 {
		base = defaultRetryBase
	}
	if ceiling < base {
		ceiling = defaultRetryMax
	}
	return retry.WithCappedDuration(ceiling, retry.NewExponential(base))
}

// lane pins a partition to one worker so its messages are handled and
// committed in offset order.
func (c *Consumer) lane(m kafka.Message) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(m.Topic))
	return int((h.Sum32() + uint32(m.Partition)) % uint32(c.workers))
}

// Start fetches messages and hands each partition to its worker. A message
// that fails is retried with backoff until it succeeds or ctx ends; its offset
// is committed only after success, so later offsets never pass it.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 128)
		wg.Add(1)
		go func(id int, in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if err := c.process(ctx, id, h, m); err != nil {
					// ctx ended; the uncommitted offset is redelivered to the next owner
					return
				}
			}
		}(i, lanes[i])
	}
	stop := func() {
		for _, l := range lanes {
			close(l)
		}
		wg.Wait()
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case lanes[c.lane(m)] <- m:
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

func (c *Consumer) process(ctx context.Context, id int, h Handler, m kafka.Message) error {
	attempt := 0
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		if err := h(ctx, m); err != nil {
			c.log.Warn("handler failed, retrying", "worker", id, "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "attempt", attempt, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.r.CommitMessages(ctx, m); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Error("commit failed", "worker", id, "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
	}
	return nil
}
