package agent

import (
	"context"
	"log"

	"github.com/jaxonlabs/jaxon/internal/eventbus"
	"github.com/jaxonlabs/jaxon/internal/events"
)

// TurnController handles one user utterance: it appends the user message,
// runs the loop, and commits the result. On loop failure the transcript
// keeps only the user message; the partial tool records of the failed
// attempt are discarded.
type TurnController struct {
	loop *Loop
	bus  eventbus.EventBus
}

type TurnOption func(*TurnController)

// WithTurnEventBus publishes turn lifecycle events. The turn-completed
// event is the speech side channel: it is fire-and-forget, and a bus
// failure never fails the turn.
func WithTurnEventBus(bus eventbus.EventBus) TurnOption {
	return func(tc *TurnController) { tc.bus = bus }
}

func NewTurnController(loop *Loop, opts ...TurnOption) *TurnController {
	tc := &TurnController{loop: loop}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

func (tc *TurnController) HandleTurn(ctx context.Context, conversationID string, transcript *Transcript, userText string) (Message, error) {
	transcript.Append(NewUserMessage(userText))

	tc.emit(events.TurnStartedEvent{ConversationID: conversationID, Text: userText})

	reply, working, err := tc.loop.Run(ctx, conversationID, transcript.Messages())
	if err != nil {
		tc.emit(events.TurnFailedEvent{ConversationID: conversationID, Error: err.Error()})
		return Message{}, err
	}

	transcript.Append(working...)
	transcript.Append(reply)

	tc.emit(events.TurnCompletedEvent{ConversationID: conversationID, Reply: reply.Content})
	return reply, nil
}

func (tc *TurnController) emit(event eventbus.Event) {
	if tc.bus == nil {
		return
	}
	if err := tc.bus.Emit(event); err != nil {
		log.Printf("Failed to emit %s event: %v", event.Subject(), err)
	}
}
