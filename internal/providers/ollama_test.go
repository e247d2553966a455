package providers

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestNewOllama_URLNormalization(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"default", "", "http://localhost:11434/v1/chat/completions"},
		{"plain host", "http://myhost:8080", "http://myhost:8080/v1/chat/completions"},
		{"trailing slash", "http://myhost:8080/", "http://myhost:8080/v1/chat/completions"},
		{"with v1", "http://myhost:8080/v1", "http://myhost:8080/v1/chat/completions"},
		{"full path", "http://myhost:8080/v1/chat/completions", "http://myhost:8080/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.host)
			o, err := NewOllama("llama3.3")
			if err != nil {
				t.Fatalf("NewOllama error: %v", err)
			}
			if o.baseURL != tt.want {
				t.Errorf("baseURL = %q, want %q", o.baseURL, tt.want)
			}
		})
	}
}

func TestOllama_Stream(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		`data: {"choices":[{"delta":{"content":"local "}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":"review"}}]}`,
		``,
		`data: [DONE]`,
	}))
	defer server.Close()

	t.Setenv("OLLAMA_HOST", server.URL)
	o, err := NewOllama("llama3.3")
	if err != nil {
		t.Fatalf("NewOllama error: %v", err)
	}
	o.client = server.Client()

	var got string
	err = o.Stream(context.Background(), Request{UserPrompt: "review"}, func(f string) error {
		got += f
		return nil
	})
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if got != "local review" {
		t.Errorf("content = %q, want %q", got, "local review")
	}
}

func TestOllama_NoAPIKeyRequired(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("REVU_OLLAMA_API_KEY", "")
	if _, err := NewOllama("llama3.3"); err != nil {
		t.Errorf("NewOllama should not require an API key, got %v", err)
	}
}
