package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/genai"
)

func TestAwaitVideoOperation_ReturnsImmediatelyWhenDone(t *testing.T) {
	op := &genai.GenerateVideosOperation{Done: true}

	polled := 0
	got, err := awaitVideoOperation(context.Background(), op, time.Millisecond, func(ctx context.Context, cur *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		polled++
		return cur, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polled != 0 {
		t.Fatalf("expected no polls for a finished operation, got %d", polled)
	}
	if got != op {
		t.Fatalf("expected the original operation back")
	}
}

func TestAwaitVideoOperation_PollsUntilDone(t *testing.T) {
	op := &genai.GenerateVideosOperation{Name: "operations/abc"}

	polled := 0
	got, err := awaitVideoOperation(context.Background(), op, time.Millisecond, func(ctx context.Context, cur *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		polled++
		if polled < 3 {
			return &genai.GenerateVideosOperation{Name: cur.Name}, nil
		}
		return &genai.GenerateVideosOperation{Name: cur.Name, Done: true}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polled != 3 {
		t.Fatalf("expected exactly 3 polls, got %d", polled)
	}
	if !got.Done {
		t.Fatalf("returned operation should be done")
	}
}

func TestAwaitVideoOperation_PropagatesPollError(t *testing.T) {
	op := &genai.GenerateVideosOperation{Name: "operations/abc"}

	wantErr := fmt.Errorf("backend unavailable")
	_, err := awaitVideoOperation(context.Background(), op, time.Millisecond, func(ctx context.Context, cur *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		return nil, wantErr
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped poll error, got %v", err)
	}
}

func TestAwaitVideoOperation_StopsOnContextCancel(t *testing.T) {
	op := &genai.GenerateVideosOperation{Name: "operations/abc"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	polled := 0
	_, err := awaitVideoOperation(ctx, op, time.Hour, func(ctx context.Context, cur *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		polled++
		return cur, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if polled != 0 {
		t.Fatalf("expected no polls after cancellation, got %d", polled)
	}
}
