package broker

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pong/logger"
	"pong/metrics"
)

const (
	defaultQueueSize      = 256
	defaultMaxRetries     = 3
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

type NotifierOptions struct {
	Channel        string
	QueueSize      int
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Notifier decouples event producers from broker latency. Emit never blocks:
// events go onto a bounded queue and a single worker publishes them in order,
// retrying with exponential backoff. A full queue drops the event.
type Notifier struct {
	broker MessageBroker
	opts   NotifierOptions

	mu     sync.Mutex
	closed bool
	queue  chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNotifier(b MessageBroker, opts NotifierOptions) *Notifier {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		broker: b,
		opts:   opts,
		queue:  make(chan Event, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) Emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		metrics.EventsDropped.WithLabelValues("closed").Inc()
		return
	}
	select {
	case n.queue <- ev:
	default:
		metrics.EventsDropped.WithLabelValues("queue_full").Inc()
		logger.Warn("Event queue full, dropping event", "kind", ev.Kind, "session", ev.SessionID)
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	for ev := range n.queue {
		if err := n.publish(ev); err != nil {
			metrics.EventsDropped.WithLabelValues("publish_failed").Inc()
			logger.Error("Failed to publish event", "kind", ev.Kind, "session", ev.SessionID, "err", err)
			continue
		}
		metrics.EventsPublished.WithLabelValues(n.broker.Type()).Inc()
	}
}

func (n *Notifier) publish(ev Event) error {
	operation := func() error {
		return n.broker.Publish(n.ctx, n.opts.Channel, ev)
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(n.opts.InitialBackoff),
				backoff.WithMaxInterval(n.opts.MaxBackoff),
			),
			n.opts.MaxRetries,
		),
		n.ctx,
	)

	return backoff.RetryNotify(operation, strategy, func(err error, d time.Duration) {
		metrics.EventPublishRetries.WithLabelValues(n.broker.Type()).Inc()
		logger.Debug("Retrying event publish", "kind", ev.Kind, "err", err, "next", d)
	})
}

// Close stops accepting events and waits for the queue to drain. If ctx ends
// first, in-flight retries are abandoned.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		n.cancel()
		return nil
	case <-ctx.Done():
		n.cancel()
		<-n.done
		return ctx.Err()
	}
}
