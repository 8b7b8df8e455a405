package eventbus

import "context"

type Event interface {
	Subject() string
}

// Handler receives the raw payload published for a subject.
type Handler func(ctx context.Context, data []byte)

type EventBus interface {
	Emit(event Event) error
	Close() error
}
