package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jaxonlabs/jaxon/internal/tools"
)

const defaultAPIBase = "https://api.openai.com/v1"

// Config configures an OpenAI-backed gateway. Exactly one of Tools or
// VectorStoreID may be set: function-calling mode and document-search mode
// are separate deployment variants, never mixed in one call.
type Config struct {
	APIKey       string
	APIBase      string
	Model        string
	Instructions string

	Tools         []tools.Specification
	VectorStoreID string

	Timeout time.Duration
}

type OpenAIGateway struct {
	apiKey       string
	apiBase      string
	model        string
	instructions string
	tools        []json.RawMessage
	httpClient   *http.Client
}

func NewOpenAIGateway(cfg Config) (*OpenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if len(cfg.Tools) > 0 && cfg.VectorStoreID != "" {
		return nil, errors.New("function tools and retrieval mode are mutually exclusive")
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	gw := &OpenAIGateway{
		apiKey:       cfg.APIKey,
		apiBase:      strings.TrimRight(apiBase, "/"),
		model:        model,
		instructions: cfg.Instructions,
		httpClient:   &http.Client{Timeout: timeout},
	}

	for _, spec := range cfg.Tools {
		data, err := json.Marshal(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool %s: %w", spec.Name, err)
		}
		gw.tools = append(gw.tools, data)
	}
	if cfg.VectorStoreID != "" {
		data, err := json.Marshal(map[string]any{
			"type":             "file_search",
			"vector_store_ids": []string{cfg.VectorStoreID},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal file_search tool: %w", err)
		}
		gw.tools = append(gw.tools, data)
	}

	return gw, nil
}

type responsesRequest struct {
	Model        string            `json:"model"`
	Instructions string            `json:"instructions,omitempty"`
	Input        []InputItem       `json:"input"`
	Tools        []json.RawMessage `json:"tools,omitempty"`
}

type responsesResponse struct {
	ID         string       `json:"id"`
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
}

type outputItem struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	CallID    string        `json:"call_id"`
	Name      string        `json:"name"`
	Arguments string        `json:"arguments"`
	Content   []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (g *OpenAIGateway) Complete(ctx context.Context, input []InputItem) (Result, error) {
	request := responsesRequest{
		Model:        g.model,
		Instructions: g.instructions,
		Input:        input,
		Tools:        g.tools,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/responses", g.apiBase)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error.Message != "" {
			return Result{}, fmt.Errorf("%w: %s: %s", ErrUnavailable, errorResp.Error.Type, errorResp.Error.Message)
		}
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}

	var response responsesResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return Result{}, fmt.Errorf("%w: failed to unmarshal response: %v", ErrUnavailable, err)
	}

	return parseResult(response), nil
}

// parseResult folds the response output into the tagged Result variant. Any
// function_call item makes the result a tool call batch; otherwise the
// answer text wins.
func parseResult(response responsesResponse) Result {
	var result Result
	var texts []string

	for _, item := range response.Output {
		switch item.Type {
		case "function_call":
			result.ToolCalls = append(result.ToolCalls, ToolCallRequest{
				ID:        item.ID,
				CallID:    item.CallID,
				Name:      item.Name,
				Arguments: item.Arguments,
			})
		case "message":
			for _, part := range item.Content {
				if part.Text != "" {
					texts = append(texts, part.Text)
				}
			}
		}
	}

	if len(result.ToolCalls) > 0 {
		log.Printf("Model response includes %d tool calls", len(result.ToolCalls))
		return result
	}

	if response.OutputText != "" {
		result.FinalText = response.OutputText
	} else {
		result.FinalText = strings.Join(texts, "\n")
	}
	return result
}

// SetAPIBase overrides the API base URL (for testing or proxies).
func (g *OpenAIGateway) SetAPIBase(apiBase string) {
	g.apiBase = strings.TrimRight(apiBase, "/")
}

// SetHTTPClient replaces the underlying HTTP client.
func (g *OpenAIGateway) SetHTTPClient(client *http.Client) {
	g.httpClient = client
}
