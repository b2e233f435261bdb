package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"exactscribe/internal/core/audio"
	"exactscribe/internal/core/backend"
	"exactscribe/internal/core/transcript"
)

const (
	// DefaultMinSuccessRatio is the fraction of planned chunks that must
	// transcribe for the chunked result to be accepted.
	DefaultMinSuccessRatio = 0.8

	// DefaultLargeFileThresholdMB is the size above which audio is chunked
	// instead of sent whole.
	DefaultLargeFileThresholdMB = 20.0

	// DefaultModel is used when the request does not name one.
	DefaultModel = "gemini-2.0-flash"
)

// Options configures one Orchestrator. Zero values select the defaults.
type Options struct {
	ChunkDuration        time.Duration
	Workers              int
	MinSuccessRatio      float64
	LargeFileThresholdMB float64
	Model                string
}

func (o *Options) applyDefaults() {
	if o.ChunkDuration <= 0 {
		o.ChunkDuration = audio.DefaultChunkDuration
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	if o.MinSuccessRatio <= 0 {
		o.MinSuccessRatio = DefaultMinSuccessRatio
	}
	if o.LargeFileThresholdMB <= 0 {
		o.LargeFileThresholdMB = DefaultLargeFileThresholdMB
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
}

// Request is one transcription job. All state is request-scoped; the
// Orchestrator holds nothing mutable between calls.
type Request struct {
	Audio    []byte
	Format   audio.Format
	SizeMB   float64
	Metadata Metadata
	Speakers int
	Model    string
}

// Orchestrator is the top-level transcription entry point. Small files go
// to the backend in one call; large files are split, dispatched in
// parallel, rebased, judged by the fallback policy, and stitched.
type Orchestrator struct {
	transcriber *Transcriber
	splitter    *audio.Splitter
	opts        Options
}

// New builds an Orchestrator around a backend.
func New(b backend.Backend, opts Options) *Orchestrator {
	opts.applyDefaults()
	return &Orchestrator{
		transcriber: NewTranscriber(b),
		splitter:    audio.NewSplitter(opts.ChunkDuration),
		opts:        opts,
	}
}

// Transcribe runs one request end to end and returns the full transcript.
// Scratch resources allocated for chunking are released on every exit path.
func (o *Orchestrator) Transcribe(ctx context.Context, req Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", backend.NewError(backend.KindUnknown, "no audio data provided")
	}

	prompt, err := BuildPrompt(req.Metadata, req.Speakers)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	model := req.Model
	if model == "" {
		model = o.opts.Model
	}

	sizeMB := req.SizeMB
	if sizeMB <= 0 {
		sizeMB = float64(len(req.Audio)) / (1024 * 1024)
	}

	if sizeMB <= o.opts.LargeFileThresholdMB {
		log.Printf("transcribing %.2f MB file in a single call", sizeMB)
		return o.transcribeWhole(ctx, req, model, prompt)
	}

	log.Printf("file is %.2f MB, using chunked transcription", sizeMB)
	return o.transcribeChunked(ctx, req, model, prompt)
}

// transcribeWhole sends the original file as one backend call. No rebasing
// is needed because the audio was never split.
func (o *Orchestrator) transcribeWhole(ctx context.Context, req Request, model, prompt string) (string, error) {
	text, err := o.transcriber.Transcribe(ctx, req.Audio, req.Format.MIMEType(), model, prompt)
	if err != nil {
		log.Printf("transcription failed: %s", backend.Sanitize(err.Error()))
		return "", err
	}
	return text, nil
}

// transcribeChunked runs the split, dispatch, fallback, stitch pipeline.
func (o *Orchestrator) transcribeChunked(ctx context.Context, req Request, model, prompt string) (string, error) {
	split, err := o.splitter.Split(req.Audio, req.Format)
	if err != nil {
		return "", backend.WrapError(backend.KindChunking, err)
	}
	defer split.Cleanup()

	results := Dispatch(ctx, split.Chunks, o.opts.Workers, func(ctx context.Context, c audio.Chunk) (string, error) {
		data, err := c.Data()
		if err != nil {
			return "", backend.WrapError(backend.KindChunking, err)
		}
		text, err := o.transcriber.Transcribe(ctx, data, c.Format.MIMEType(), model, prompt)
		if err != nil {
			return "", err
		}
		return transcript.Rebase(text, c.Index, o.splitter.ChunkDuration()), nil
	})

	var accepted []string
	successes := 0
	for _, r := range results {
		if r.Err != nil {
			log.Printf("chunk %d failed: %s", r.Index, backend.Sanitize(r.Err.Error()))
			continue
		}
		successes++
		accepted = append(accepted, r.Transcript)
	}

	// The policy judges against the planned chunk count, so chunks dropped
	// by the splitter also count against the ratio.
	if !acceptChunked(successes, split.NumChunks, o.opts.MinSuccessRatio) {
		log.Printf("only %d of %d chunks succeeded, falling back to whole-file transcription", successes, split.NumChunks)
		return o.transcribeWhole(ctx, req, model, prompt)
	}

	log.Printf("stitching %d of %d chunk transcripts", successes, split.NumChunks)
	return transcript.Stitch(accepted), nil
}

// acceptChunked decides whether enough chunks succeeded to keep the
// chunked result instead of retrying the whole file.
func acceptChunked(successes, planned int, ratio float64) bool {
	return successes > 0 && float64(successes) >= float64(planned)*ratio
}
