package providers

import (
	"context"
	"errors"
	"testing"
)

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_RetriesRateLimit(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return &ModelError{Code: CodeRateLimited}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryWithBackoff_DoesNotRetryAuth(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		return &ModelError{Code: CodeAuth}
	})
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want auth ModelError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (auth errors never retry)", calls)
	}
}

func TestRetryWithBackoff_DoesNotRetryUnclassified(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_StartedStreamNeverRetries(t *testing.T) {
	calls := 0
	inner := &ModelError{Code: CodeOverloaded, Message: "mid-stream"}
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		return &startedError{err: inner}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (started streams never retry)", calls)
	}
	var me *ModelError
	if !errors.As(err, &me) || me != inner {
		t.Errorf("err = %v, want the inner error unwrapped", err)
	}
}

func TestRetryWithBackoff_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		// Cancel while the first backoff sleep is in progress.
		cancel()
	}()
	err := retryWithBackoff(ctx, 3, func() error {
		calls++
		return &ModelError{Code: CodeRateLimited}
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestModelError_Message(t *testing.T) {
	me := &ModelError{Message: "too many requests", Code: CodeRateLimited}
	if got := me.Error(); got != "model error [rate_limited]: too many requests" {
		t.Errorf("Error() = %q", got)
	}

	bare := &ModelError{Code: CodeStream}
	if got := bare.Error(); got != "model error [stream]" {
		t.Errorf("Error() = %q", got)
	}
}

func TestModelError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	me := &ModelError{Code: CodeStream, Cause: cause}
	if !errors.Is(me, cause) {
		t.Error("ModelError should unwrap to its cause")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{401, CodeAuth},
		{403, CodeAuth},
		{429, CodeRateLimited},
		{529, CodeOverloaded},
		{500, CodeServerError},
		{503, CodeServerError},
		{400, CodeInvalidRequest},
		{404, CodeInvalidRequest},
	}
	for _, tt := range tests {
		me := classifyStatus(tt.status, "body")
		if me == nil {
			t.Fatalf("classifyStatus(%d) = nil", tt.status)
		}
		if me.Code != tt.want {
			t.Errorf("classifyStatus(%d).Code = %q, want %q", tt.status, me.Code, tt.want)
		}
	}
	if classifyStatus(200, "") != nil {
		t.Error("classifyStatus(200) should be nil")
	}
}
