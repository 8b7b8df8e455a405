package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/jaxonlabs/jaxon/internal/eventbus"
	"github.com/jaxonlabs/jaxon/internal/events"
	"github.com/jaxonlabs/jaxon/internal/gateway"
)

// Loop states. A run starts awaiting the model and finishes only via a
// final answer; tool call responses cycle through dispatch and back.
const (
	StateAwaitingModel    = "awaiting_model"
	StateDispatchingTools = "dispatching_tool_calls"
	StateFinished         = "finished"
)

const DefaultMaxToolCycles = 10

// ToolInvoker dispatches one tool call and always yields a textual result.
type ToolInvoker interface {
	Invoke(ctx context.Context, name, arguments string) string
}

// Loop drives repeated gateway calls and tool dispatches until the model
// produces a terminal answer.
type Loop struct {
	gateway   gateway.Gateway
	invoker   ToolInvoker
	bus       eventbus.EventBus
	maxCycles int
}

type LoopOption func(*Loop)

// WithMaxToolCycles bounds the number of tool-dispatch cycles per run.
func WithMaxToolCycles(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.maxCycles = n
		}
	}
}

// WithEventBus emits tool lifecycle events on the bus. Emission is
// best-effort and never affects the run.
func WithEventBus(bus eventbus.EventBus) LoopOption {
	return func(l *Loop) { l.bus = bus }
}

func NewLoop(gw gateway.Gateway, invoker ToolInvoker, opts ...LoopOption) *Loop {
	l := &Loop{
		gateway:   gw,
		invoker:   invoker,
		maxCycles: DefaultMaxToolCycles,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run converts the transcript into a single terminal assistant message. It
// returns the message and the synthetic tool records accumulated along the
// way; on any error the caller must discard the run, nothing is committed
// here.
func (l *Loop) Run(ctx context.Context, conversationID string, transcript []Message) (Message, []Message, error) {
	working := make([]Message, 0)

	for cycle := 0; ; cycle++ {
		if cycle >= l.maxCycles {
			return Message{}, nil, fmt.Errorf("%w after %d cycles", ErrLoopBudgetExceeded, l.maxCycles)
		}

		log.Printf("[%s] state=%s cycle=%d", conversationID, StateAwaitingModel, cycle)
		input := Serialize(append(transcript[:len(transcript):len(transcript)], working...))

		result, err := l.gateway.Complete(ctx, input)
		if err != nil {
			return Message{}, nil, &OrchestrationError{Cycle: cycle, Err: err}
		}

		if result.IsFinal() {
			log.Printf("[%s] state=%s", conversationID, StateFinished)
			return NewAssistantMessage(result.FinalText), working, nil
		}

		log.Printf("[%s] state=%s calls=%d", conversationID, StateDispatchingTools, len(result.ToolCalls))

		// Each call gets exactly one result; the pair is folded into the
		// working buffer in request order before the next model call.
		for _, call := range result.ToolCalls {
			l.emit(events.ToolExecStartEvent{
				ConversationID: conversationID,
				ToolCallID:     call.CallID,
				ToolName:       call.Name,
				Arguments:      call.Arguments,
			})

			output := l.invoker.Invoke(ctx, call.Name, call.Arguments)

			l.emit(events.ToolExecFinishEvent{
				ConversationID: conversationID,
				ToolCallID:     call.CallID,
				ToolName:       call.Name,
				Result:         output,
			})

			working = append(working,
				NewToolCallMessage(call.ID, call.CallID, call.Name, call.Arguments),
				NewToolResultMessage(call.CallID, output),
			)
		}
	}
}

func (l *Loop) emit(event eventbus.Event) {
	if l.bus == nil {
		return
	}
	if err := l.bus.Emit(event); err != nil {
		log.Printf("Failed to emit %s event: %v", event.Subject(), err)
	}
}
