package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"exactscribe/internal/core/audio"
)

func testChunks(n int) []audio.Chunk {
	chunks := make([]audio.Chunk, n)
	for i := range chunks {
		chunks[i] = audio.Chunk{Index: i, Format: audio.FormatWAV}
	}
	return chunks
}

func TestDispatchPreservesTemporalOrder(t *testing.T) {
	chunks := testChunks(6)

	// Later chunks finish first; results must still come back in index
	// order.
	results := Dispatch(context.Background(), chunks, 3, func(_ context.Context, c audio.Chunk) (string, error) {
		time.Sleep(time.Duration(len(chunks)-c.Index) * 5 * time.Millisecond)
		return fmt.Sprintf("chunk-%d", c.Index), nil
	})

	if len(results) != len(chunks) {
		t.Fatalf("got %d results, want %d", len(results), len(chunks))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has Index %d", i, r.Index)
		}
		if want := fmt.Sprintf("chunk-%d", i); r.Transcript != want {
			t.Errorf("result %d = %q, want %q", i, r.Transcript, want)
		}
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	chunks := testChunks(4)
	boom := errors.New("backend down")

	results := Dispatch(context.Background(), chunks, 2, func(_ context.Context, c audio.Chunk) (string, error) {
		if c.Index == 1 {
			return "", boom
		}
		return "ok", nil
	})

	for i, r := range results {
		if i == 1 {
			if !errors.Is(r.Err, boom) {
				t.Errorf("chunk 1 err = %v, want %v", r.Err, boom)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("chunk %d failed: %v", i, r.Err)
		}
		if r.Transcript != "ok" {
			t.Errorf("chunk %d = %q", i, r.Transcript)
		}
	}
}

func TestDispatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := Dispatch(ctx, testChunks(3), 2, func(_ context.Context, _ audio.Chunk) (string, error) {
		called = true
		return "never", nil
	})

	if called {
		t.Error("job ran despite cancelled context")
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("chunk %d err = %v, want context.Canceled", i, r.Err)
		}
	}
}
