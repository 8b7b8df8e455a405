package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaxonlabs/jaxon/internal/gateway"
)

func TestSerializePreservesOrderAndDropsTimestamps(t *testing.T) {
	messages := []Message{
		NewAssistantMessage("Hello, I am Jaxon."),
		NewUserMessage("Where is 'Dune'?"),
		NewToolCallMessage("fc_1", "call_1", "locate_book", `{"book_title":"Dune"}`),
		NewToolResultMessage("call_1", `{"branch":"Main Library"}`),
		NewAssistantMessage("Dune is at the Main Library."),
	}

	items := Serialize(messages)
	require.Len(t, items, len(messages))

	assert.Equal(t, gateway.InputItem{Role: RoleAssistant, Content: "Hello, I am Jaxon."}, items[0])
	assert.Equal(t, gateway.InputItem{Role: RoleUser, Content: "Where is 'Dune'?"}, items[1])
	assert.Equal(t, gateway.InputItem{
		Type:      KindFunctionCall,
		ID:        "fc_1",
		CallID:    "call_1",
		Name:      "locate_book",
		Arguments: `{"book_title":"Dune"}`,
	}, items[2])
	assert.Equal(t, gateway.InputItem{
		Type:   KindFunctionCallOutput,
		CallID: "call_1",
		Output: `{"branch":"Main Library"}`,
	}, items[3])
	assert.Equal(t, gateway.InputItem{Role: RoleAssistant, Content: "Dune is at the Main Library."}, items[4])
}

func TestMessageDisplayForm(t *testing.T) {
	msg := Message{
		Role:      RoleUser,
		Content:   "hello",
		Timestamp: time.Date(2025, 6, 1, 9, 30, 5, 0, time.UTC),
	}
	assert.Equal(t, "user @ 09:30:05 : hello", msg.String())
}

func TestMessageEquality(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 5, 0, time.UTC)
	a := Message{Role: RoleUser, Content: "hi", Timestamp: at}
	b := Message{Role: RoleUser, Content: "hi", Timestamp: at}
	c := Message{Role: RoleUser, Content: "hi", Timestamp: at.Add(time.Second)}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestConstructorsAssignRolesAndKinds(t *testing.T) {
	assert.Equal(t, RoleUser, NewUserMessage("x").Role)
	assert.Equal(t, RoleAssistant, NewAssistantMessage("x").Role)
	assert.Equal(t, RoleSystem, NewSystemMessage("x").Role)

	call := NewToolCallMessage("fc_1", "call_1", "renew_book", `{}`)
	assert.Equal(t, RoleTool, call.Role)
	assert.Equal(t, KindFunctionCall, call.Kind)

	result := NewToolResultMessage("call_1", "done")
	assert.Equal(t, RoleTool, result.Role)
	assert.Equal(t, KindFunctionCallOutput, result.Kind)
	assert.Equal(t, "call_1", result.CallID)
}

func TestTranscriptTimestampsNonDecreasing(t *testing.T) {
	transcript := NewTranscript()
	for i := 0; i < 5; i++ {
		transcript.Append(NewUserMessage("msg"))
	}

	messages := transcript.Messages()
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].Timestamp.Before(messages[i-1].Timestamp))
	}
}

func TestTranscriptMessagesReturnsCopy(t *testing.T) {
	transcript := NewTranscript(NewUserMessage("one"))
	snapshot := transcript.Messages()
	snapshot[0].Content = "mutated"

	assert.Equal(t, "one", transcript.Messages()[0].Content)
}
