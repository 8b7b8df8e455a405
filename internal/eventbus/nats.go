package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBus publishes events to JetStream subjects, one stream per subject.
type NATSBus struct {
	conn          *nats.Conn
	jetStream     nats.JetStreamContext
	subscriptions []*nats.Subscription

	mu           sync.Mutex
	knownStreams map[string]bool
}

func NewNATSBus(natsURL string) (*NATSBus, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %v", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	return &NATSBus{
		conn:         nc,
		jetStream:    js,
		knownStreams: make(map[string]bool),
	}, nil
}

func (b *NATSBus) ensureStream(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.knownStreams[subject] {
		return nil
	}

	if _, err := b.jetStream.StreamInfo(subject); err != nil {
		cfg := &nats.StreamConfig{
			Name:       subject,
			Subjects:   []string{subject},
			Retention:  nats.WorkQueuePolicy,
			Storage:    nats.FileStorage,
			Duplicates: 2 * time.Minute,
			MaxAge:     24 * time.Hour,
		}
		if _, err := b.jetStream.AddStream(cfg); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", subject, err)
		}
	}

	b.knownStreams[subject] = true
	return nil
}

func (b *NATSBus) Emit(event Event) error {
	subject := event.Subject()

	if err := b.ensureStream(subject); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := b.jetStream.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	return nil
}

// Subscribe attaches a durable queue consumer for subject. Handlers are
// invoked with a background context; payload decoding is up to the caller.
func (b *NATSBus) Subscribe(subject, queue string, handler Handler) error {
	if err := b.ensureStream(subject); err != nil {
		return err
	}

	sub, err := b.jetStream.QueueSubscribe(subject, queue,
		func(msg *nats.Msg) {
			handler(context.Background(), msg.Data)
			msg.Ack()
		},
		nats.Durable(fmt.Sprintf("%s-consumer", queue)),
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	b.subscriptions = append(b.subscriptions, sub)
	log.Printf("EventBus: subscribed to %s with queue %s", subject, queue)
	return nil
}

func (b *NATSBus) Close() error {
	for _, sub := range b.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Error unsubscribing: %v", err)
		}
	}

	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}

func (b *NATSBus) IsConnected() bool {
	return b.conn != nil && b.conn.IsConnected()
}
