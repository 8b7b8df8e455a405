package events

const (
	TurnStartedEventName   = "turn-started"
	TurnCompletedEventName = "turn-completed"
	TurnFailedEventName    = "turn-failed"

	ToolExecStartEventName  = "tool-exec-start"
	ToolExecFinishEventName = "tool-exec-finish"
)

type TurnStartedEvent struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

func (e TurnStartedEvent) Subject() string { return TurnStartedEventName }

// TurnCompletedEvent carries the final reply of a turn. The speech runtime
// subscribes to it; nothing in the turn path waits on its consumers.
type TurnCompletedEvent struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

func (e TurnCompletedEvent) Subject() string { return TurnCompletedEventName }

type TurnFailedEvent struct {
	ConversationID string `json:"conversation_id"`
	Error          string `json:"error"`
}

func (e TurnFailedEvent) Subject() string { return TurnFailedEventName }

type ToolExecStartEvent struct {
	ConversationID string `json:"conversation_id"`
	ToolCallID     string `json:"tool_call_id"`
	ToolName       string `json:"tool_name"`
	Arguments      string `json:"arguments,omitempty"`
}

func (e ToolExecStartEvent) Subject() string { return ToolExecStartEventName }

type ToolExecFinishEvent struct {
	ConversationID string `json:"conversation_id"`
	ToolCallID     string `json:"tool_call_id"`
	ToolName       string `json:"tool_name"`
	Result         string `json:"result,omitempty"`
}

func (e ToolExecFinishEvent) Subject() string { return ToolExecFinishEventName }
