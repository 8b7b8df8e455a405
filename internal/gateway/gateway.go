// Package gateway abstracts the single external call the agent loop makes:
// given the serialized transcript, ask the model for the next step.
package gateway

import (
	"context"
	"errors"
)

// ErrUnavailable marks transport or provider failures. The gateway never
// retries; retry policy belongs to the caller.
var ErrUnavailable = errors.New("model gateway unavailable")

// InputItem is one entry of the wire transcript. Plain chat turns carry
// role/content; tool exchanges are typed items echoing the call_id.
type InputItem struct {
	Type      string `json:"type,omitempty"`
	Role      string `json:"role,omitempty"`
	Content   string `json:"content,omitempty"`
	ID        string `json:"id,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

// ToolCallRequest is a structured instruction from the model to invoke a
// tool. CallID is the correlation token the result must echo back.
type ToolCallRequest struct {
	ID        string
	CallID    string
	Name      string
	Arguments string
}

// Result is the tagged outcome of one model call: either a final answer or
// one or more tool call requests.
type Result struct {
	FinalText string
	ToolCalls []ToolCallRequest
}

func (r Result) IsFinal() bool { return len(r.ToolCalls) == 0 }

type Gateway interface {
	Complete(ctx context.Context, input []InputItem) (Result, error)
}
