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

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI implements the Streamer interface for OpenAI's API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(model string) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	return &OpenAI{
		apiKey:  key,
		model:   model,
		baseURL: openaiAPIURL,
		client:  &http.Client{Timeout: 300 * time.Second},
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Stream(ctx context.Context, req Request, emit func(string) error) error {
	return streamChatCompletions(ctx, o.client, o.baseURL, o.apiKey, o.model, req, emit)
}

// streamChatCompletions drives a streaming chat-completions request.
// Shared by the OpenAI and Ollama providers, which speak the same wire
// protocol.
func streamChatCompletions(ctx context.Context, client *http.Client, url, apiKey, model string, req Request, emit func(string) error) error {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	body := openaiRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Stream:    true,
		Messages: []openaiMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	return retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "text/event-stream")
		if apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+apiKey)
		}
		if req.RequestID != "" {
			httpReq.Header.Set("X-Request-ID", req.RequestID)
		}

		httpResp, err := client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != 200 {
			respBody, _ := io.ReadAll(httpResp.Body)
			return classifyStatus(httpResp.StatusCode, string(respBody))
		}

		return relayChunks(ctx, httpResp.Body, emit)
	})
}

// relayChunks reads "data:" chunks off a chat-completions stream and
// forwards delta content until the [DONE] terminator.
func relayChunks(ctx context.Context, body io.Reader, emit func(string) error) error {
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
		if data == "[DONE]" {
			return nil
		}

		var chunk openaiChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if chunk.Error.Message != "" {
			return wrap(&ModelError{
				Message: chunk.Error.Message,
				Code:    openaiErrorCode(chunk.Error.Type, chunk.Error.Code),
			})
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			if err := emit(text); err != nil {
				return wrap(err)
			}
			emitted = true
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

// openaiErrorCode maps in-stream error types to ModelError codes.
func openaiErrorCode(apiType, apiCode string) string {
	switch {
	case apiCode == "rate_limit_exceeded" || apiCode == "insufficient_quota":
		return CodeRateLimited
	case apiCode == "invalid_api_key" || apiType == "authentication_error":
		return CodeAuth
	case apiType == "invalid_request_error":
		return CodeInvalidRequest
	case apiType == "server_error":
		return CodeServerError
	default:
		return CodeStream
	}
}

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Stream    bool            `json:"stream"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
