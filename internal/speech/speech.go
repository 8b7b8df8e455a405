// Package speech synthesizes spoken audio for final answers. Playback is a
// best-effort side channel; callers log failures and move on.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.openai.com/v1"

type Config struct {
	APIKey       string
	APIBase      string
	Model        string
	Voice        string
	Instructions string
	Timeout      time.Duration
}

type Synthesizer struct {
	apiKey       string
	apiBase      string
	model        string
	voice        string
	instructions string
	httpClient   *http.Client
}

func NewSynthesizer(cfg Config) *Synthesizer {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	voice := cfg.Voice
	if voice == "" {
		voice = "onyx"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Synthesizer{
		apiKey:       cfg.APIKey,
		apiBase:      strings.TrimRight(apiBase, "/"),
		model:        model,
		voice:        voice,
		instructions: cfg.Instructions,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	Instructions   string `json:"instructions,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize streams synthesized audio for text into w.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, w io.Writer) error {
	body, err := json.Marshal(speechRequest{
		Model:          s.model,
		Voice:          s.voice,
		Input:          text,
		Instructions:   s.instructions,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/audio/speech", s.apiBase)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("speech request failed: status %d: %s", resp.StatusCode, string(msg))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to stream audio: %w", err)
	}
	return nil
}

// SetAPIBase overrides the API base URL (for testing or proxies).
func (s *Synthesizer) SetAPIBase(apiBase string) {
	s.apiBase = strings.TrimRight(apiBase, "/")
}

// Player pipes audio into an external player command reading from stdin.
type Player struct {
	command []string
}

func NewPlayer(command []string) *Player {
	return &Player{command: command}
}

func (p *Player) Play(ctx context.Context, audio io.Reader) error {
	if len(p.command) == 0 {
		return fmt.Errorf("no player command configured")
	}

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Stdin = audio
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s failed: %w", p.command[0], err)
	}
	return nil
}

// Speak synthesizes text and plays it through the player, streaming the
// audio without buffering it whole.
func Speak(ctx context.Context, s *Synthesizer, p *Player, text string) error {
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(s.Synthesize(ctx, text, pw))
	}()

	return p.Play(ctx, pr)
}
