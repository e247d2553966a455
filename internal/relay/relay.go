package relay

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/revu/internal/providers"
)

// Stream is a lazy, finite, non-restartable sequence of text fragments
// from one review request. Consume Fragments until it closes, then check
// Err. Fragments arrive strictly in the order the model emitted them.
type Stream struct {
	// RequestID identifies this request in provider-side logs.
	RequestID string

	frags chan string
	err   error
	done  chan struct{}
}

// Fragments returns the fragment channel. It closes when the model's
// stream ends, a failure occurs, or the request is cancelled.
func (s *Stream) Fragments() <-chan string {
	return s.frags
}

// Err reports the terminal failure, if any. Only valid after Fragments
// has closed. Cancellation is not a failure: a cancelled stream simply
// stops short with a nil Err.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Relay submits review prompts to a model provider and forwards the
// streamed response. One Relay may serve many sequential requests; each
// Stream it produces is independently owned by its caller.
type Relay struct {
	provider  providers.Streamer
	maxTokens int
}

// New creates a Relay on top of a provider.
func New(provider providers.Streamer, maxTokens int) *Relay {
	return &Relay{provider: provider, maxTokens: maxTokens}
}

// Review submits the prompt and returns a Stream of response fragments.
// Fragments are forwarded as they arrive, never buffered whole. Cancel
// ctx to stop the stream; fragments already delivered stand, no further
// fragments follow, and Err stays nil.
func (r *Relay) Review(ctx context.Context, systemPrompt, userPrompt string) *Stream {
	s := &Stream{
		RequestID: uuid.NewString(),
		frags:     make(chan string),
		done:      make(chan struct{}),
	}

	req := providers.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    r.maxTokens,
		RequestID:    s.RequestID,
	}

	go func() {
		defer close(s.done)
		defer close(s.frags)

		err := r.provider.Stream(ctx, req, func(fragment string) error {
			// Checked before every delivery so nothing is forwarded
			// once cancellation is signaled.
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case s.frags <- fragment:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.err = err
		}
	}()

	return s
}
