package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
)

// Anthropic implements the Streamer interface for Anthropic's API.
type Anthropic struct {
	apiKey string
	model  string
	client *http.Client
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(model string) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}
	return &Anthropic{
		apiKey: key,
		model:  model,
		client: &http.Client{Timeout: 300 * time.Second},
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Stream(ctx context.Context, req Request, emit func(string) error) error {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Stream:    true,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	return retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", anthropicAPIURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "text/event-stream")
		httpReq.Header.Set("x-api-key", a.apiKey)
		httpReq.Header.Set("anthropic-version", anthropicAPIVersion)
		if req.RequestID != "" {
			httpReq.Header.Set("X-Request-ID", req.RequestID)
		}

		httpResp, err := a.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != 200 {
			respBody, _ := io.ReadAll(httpResp.Body)
			return classifyStatus(httpResp.StatusCode, string(respBody))
		}

		return a.relayEvents(ctx, httpResp.Body, emit)
	})
}

// relayEvents reads the SSE stream and forwards text deltas in arrival
// order until message_stop, an error event, or cancellation.
func (a *Anthropic) relayEvents(ctx context.Context, body io.Reader, emit func(string) error) error {
	emitted := false
	wrap := func(err error) error {
		if emitted {
			return &startedError{err: err}
		}
		return err
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var event anthropicEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue // ignore malformed keep-alive noise
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				if err := emit(event.Delta.Text); err != nil {
					return wrap(err)
				}
				emitted = true
			}
		case "error":
			return wrap(&ModelError{
				Message: event.Error.Message,
				Code:    anthropicErrorCode(event.Error.Type),
			})
		case "message_stop":
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return wrap(ctx.Err())
		}
		return wrap(&ModelError{Message: err.Error(), Code: CodeStream, Cause: err})
	}
	return nil
}

// anthropicErrorCode maps the API's error types to ModelError codes.
func anthropicErrorCode(apiType string) string {
	switch apiType {
	case "authentication_error", "permission_error":
		return CodeAuth
	case "rate_limit_error":
		return CodeRateLimited
	case "overloaded_error":
		return CodeOverloaded
	case "invalid_request_error":
		return CodeInvalidRequest
	default:
		return CodeServerError
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Stream    bool               `json:"stream"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
