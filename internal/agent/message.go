package agent

import (
	"fmt"
	"time"

	"github.com/jaxonlabs/jaxon/internal/gateway"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Kinds of synthetic records folded into the transcript during tool
// dispatch. Plain chat messages have an empty Kind.
const (
	KindFunctionCall       = "function_call"
	KindFunctionCallOutput = "function_call_output"
)

// Message is one turn in a conversation. Immutable once created; the
// timestamp is assigned at creation and never serialized to the model.
type Message struct {
	Role      string    `json:"role,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Timestamp: time.Now()}
}

func NewToolCallMessage(id, callID, toolName, arguments string) Message {
	return Message{
		Role:      RoleTool,
		Kind:      KindFunctionCall,
		ID:        id,
		CallID:    callID,
		ToolName:  toolName,
		Arguments: arguments,
		Timestamp: time.Now(),
	}
}

func NewToolResultMessage(callID, output string) Message {
	return Message{
		Role:      RoleTool,
		Kind:      KindFunctionCallOutput,
		CallID:    callID,
		Output:    output,
		Timestamp: time.Now(),
	}
}

// String renders the display form of a message.
func (m Message) String() string {
	return fmt.Sprintf("%s @ %s : %s", m.Role, m.Timestamp.Format("15:04:05"), m.Content)
}

// Serialize produces the wire transcript in order. Plain messages become
// minimal role/content records; synthetic tool records become typed items
// echoing the call_id. Timestamps never cross the wire.
func Serialize(messages []Message) []gateway.InputItem {
	items := make([]gateway.InputItem, 0, len(messages))
	for _, m := range messages {
		switch m.Kind {
		case KindFunctionCall:
			items = append(items, gateway.InputItem{
				Type:      KindFunctionCall,
				ID:        m.ID,
				CallID:    m.CallID,
				Name:      m.ToolName,
				Arguments: m.Arguments,
			})
		case KindFunctionCallOutput:
			items = append(items, gateway.InputItem{
				Type:   KindFunctionCallOutput,
				CallID: m.CallID,
				Output: m.Output,
			})
		default:
			items = append(items, gateway.InputItem{
				Role:    m.Role,
				Content: m.Content,
			})
		}
	}
	return items
}
