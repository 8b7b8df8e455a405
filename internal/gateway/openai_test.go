package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaxonlabs/jaxon/internal/tools"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, cfg Config) *OpenAIGateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	cfg.APIBase = server.URL

	gw, err := NewOpenAIGateway(cfg)
	require.NoError(t, err)
	return gw
}

func TestCompleteFinalAnswer(t *testing.T) {
	var captured map[string]any

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"resp_1","output_text":"Hello there."}`))
	}, Config{Model: "gpt-4o-mini", Instructions: "You are Jaxon."})

	result, err := gw.Complete(context.Background(), []InputItem{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.True(t, result.IsFinal())
	assert.Equal(t, "Hello there.", result.FinalText)
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, "You are Jaxon.", captured["instructions"])
}

func TestCompleteMessageOutputItems(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"From items."}]}]}`))
	}, Config{})

	result, err := gw.Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "From items.", result.FinalText)
}

func TestCompleteToolCalls(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[
			{"type":"function_call","id":"fc_1","call_id":"call_1","name":"locate_book","arguments":"{\"book_title\":\"Dune\"}"},
			{"type":"function_call","id":"fc_2","call_id":"call_2","name":"place_on_hold","arguments":"{\"title\":\"Dune\"}"}
		]}`))
	}, Config{})

	result, err := gw.Complete(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, result.IsFinal())
	require.Len(t, result.ToolCalls, 2)
	assert.Equal(t, ToolCallRequest{
		ID:        "fc_1",
		CallID:    "call_1",
		Name:      "locate_book",
		Arguments: `{"book_title":"Dune"}`,
	}, result.ToolCalls[0])
	assert.Equal(t, "place_on_hold", result.ToolCalls[1].Name)
}

func TestCompleteSendsFunctionTools(t *testing.T) {
	var captured struct {
		Tools []map[string]any `json:"tools"`
	}

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"output_text":"ok"}`))
	}, Config{
		Tools: []tools.Specification{{
			Type:        "function",
			Name:        "locate_book",
			Description: "Locate a book.",
		}},
	})

	_, err := gw.Complete(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "function", captured.Tools[0]["type"])
	assert.Equal(t, "locate_book", captured.Tools[0]["name"])
}

func TestCompleteRetrievalMode(t *testing.T) {
	var captured struct {
		Tools []map[string]any `json:"tools"`
	}

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"output_text":"ok"}`))
	}, Config{VectorStoreID: "vs_123"})

	_, err := gw.Complete(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "file_search", captured.Tools[0]["type"])
	assert.Equal(t, []any{"vs_123"}, captured.Tools[0]["vector_store_ids"])
}

func TestCompleteProviderError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}, Config{})

	_, err := gw.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestCompleteTransportError(t *testing.T) {
	gw, err := NewOpenAIGateway(Config{APIKey: "k", APIBase: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewOpenAIGatewayModeExclusivity(t *testing.T) {
	_, err := NewOpenAIGateway(Config{
		APIKey:        "k",
		Tools:         []tools.Specification{{Type: "function", Name: "locate_book"}},
		VectorStoreID: "vs_123",
	})
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestNewOpenAIGatewayRequiresKey(t *testing.T) {
	_, err := NewOpenAIGateway(Config{})
	assert.Error(t, err)
}
