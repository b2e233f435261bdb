package engine

import (
	"context"

	"exactscribe/internal/core/backend"
)

// Transcriber runs one audio payload through the backend: stage the bytes,
// request a transcription, pull the text out of the response. Each step
// classifies its own failure; an error already carrying a classification
// keeps it.
type Transcriber struct {
	backend backend.Backend
}

// NewTranscriber wraps a backend.
func NewTranscriber(b backend.Backend) *Transcriber {
	return &Transcriber{backend: b}
}

// Transcribe sends one payload and returns the raw transcript text. It
// never mutates shared state; the caller decides what a failure means.
func (t *Transcriber) Transcribe(ctx context.Context, data []byte, mimeType, model, prompt string) (string, error) {
	handle, err := t.backend.Upload(ctx, data, mimeType)
	if err != nil {
		return "", backend.ClassifyError(err, backend.KindUpload)
	}

	resp, err := t.backend.Generate(ctx, model, prompt, handle)
	if err != nil {
		return "", backend.ClassifyError(err, backend.KindNetwork)
	}

	text, err := resp.ExtractText()
	if err != nil {
		return "", backend.WrapError(backend.KindExtraction, err)
	}
	return text, nil
}
