package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Message is one entry of a chat completions transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Apology lines spoken in place of a real reply when the service
// misbehaves. Players hear these as NPC speech.
const (
	FallbackLine        = "I'm sorry, I don't have anything to say right now."
	fallbackUnavailable = "I'm sorry, the AI service is not available right now."
	fallbackTimeout     = "I'm sorry, the AI service is taking too long to respond."
	fallbackStatus      = "I'm sorry, there was an error with the AI service."
	fallbackDecode      = "I'm sorry, the AI service returned an invalid response."
)

const requestTimeout = 30 * time.Second

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
	TopP             float64   `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client asks a chat completions server for NPC dialogue.
type Client struct {
	url  string
	cfg  *Config
	http *http.Client
}

func NewClient(cfg *Config) *Client {
	return &Client{
		url:  fmt.Sprintf("http://%s:%d/v1/chat/completions", cfg.Host, cfg.Port),
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}
}

// Chat produces the next line of dialogue from a transcript. It never
// fails: when the service is unreachable, times out, or answers garbage,
// the problem is logged and the speaker apologizes instead.
func (c *Client) Chat(ctx context.Context, transcript []Message) string {
	body, err := json.Marshal(chatRequest{
		Model:            c.cfg.Model,
		Messages:         transcript,
		MaxTokens:        c.cfg.MaxTokens,
		Temperature:      c.cfg.Temperature,
		FrequencyPenalty: c.cfg.FrequencyPenalty,
		PresencePenalty:  c.cfg.PresencePenalty,
		TopP:             c.cfg.TopP,
	})
	if err != nil {
		slog.Error("encoding chat request", "error", err)
		return FallbackLine
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		slog.Error("building chat request", "url", c.url, "error", err)
		return FallbackLine
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("chat completion request failed", "url", c.url, "error", err)
		if isTimeout(err) {
			return fallbackTimeout
		}
		return fallbackUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("chat completion rejected", "url", c.url, "status", resp.Status)
		return fallbackStatus
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("decoding chat completion", "error", err)
		return fallbackDecode
	}
	if len(out.Choices) == 0 {
		return FallbackLine
	}

	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	if reply == "" {
		return FallbackLine
	}
	return reply
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
