package engine

import (
	"context"
	"sync"

	"exactscribe/internal/core/audio"
)

// DefaultWorkers is the dispatcher pool width when none is configured.
const DefaultWorkers = 5

// ChunkResult is one chunk's outcome. Exactly one of Transcript and Err is
// meaningful.
type ChunkResult struct {
	Index      int
	Transcript string
	Err        error
}

// chunkJob pairs a chunk with its slot in the result slice.
type chunkJob struct {
	slot  int
	chunk audio.Chunk
}

// Dispatch fans the chunks out to a fixed-size worker pool and collects
// results into a slice addressed by input position, so downstream stitching
// sees chunks in temporal order regardless of completion order. One chunk's
// failure never cancels its siblings; the pool always runs every job to
// completion. There is no per-chunk retry here.
func Dispatch(ctx context.Context, chunks []audio.Chunk, workers int, job func(ctx context.Context, c audio.Chunk) (string, error)) []ChunkResult {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	results := make([]ChunkResult, len(chunks))
	jobs := make(chan chunkJob)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.slot] = runChunk(ctx, j.chunk, job)
			}
		}()
	}

	for i, c := range chunks {
		jobs <- chunkJob{slot: i, chunk: c}
	}
	close(jobs)
	wg.Wait()

	return results
}

// runChunk executes one job, honoring cancellation before the network work
// starts. A cancelled chunk reports the context error; it is never
// partially applied.
func runChunk(ctx context.Context, c audio.Chunk, job func(ctx context.Context, c audio.Chunk) (string, error)) ChunkResult {
	if err := ctx.Err(); err != nil {
		return ChunkResult{Index: c.Index, Err: err}
	}

	text, err := job(ctx, c)
	if err != nil {
		return ChunkResult{Index: c.Index, Err: err}
	}
	return ChunkResult{Index: c.Index, Transcript: text}
}
