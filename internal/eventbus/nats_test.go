package eventbus

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	Payload string `json:"payload"`
}

func (e pingEvent) Subject() string { return "eventbus-test-ping" }

// Integration test; needs a reachable NATS server with JetStream. Set
// NATS_URL to run.
func TestNATSBusEmitSubscribe(t *testing.T) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		t.Skip("NATS_URL not set, skipping NATS integration test")
	}

	bus, err := NewNATSBus(natsURL)
	require.NoError(t, err)
	defer bus.Close()

	require.True(t, bus.IsConnected())

	received := make(chan pingEvent, 1)
	err = bus.Subscribe(pingEvent{}.Subject(), "eventbus-test", func(ctx context.Context, data []byte) {
		var event pingEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return
		}
		received <- event
	})
	require.NoError(t, err)

	require.NoError(t, bus.Emit(pingEvent{Payload: "hello"}))

	select {
	case event := <-received:
		assert.Equal(t, "hello", event.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered within 5s")
	}
}
