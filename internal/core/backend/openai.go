package backend

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements Backend using the Whisper transcription API. Whisper
// takes the audio in the transcription call itself, so Upload stages the
// payload to a scratch file the adapter owns and Generate consumes and
// removes it.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI backend. baseURL overrides the public
// endpoint for compatible providers.
func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, NewError(KindAuth, "OpenAI API key not provided")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{client: openai.NewClientWithConfig(cfg)}, nil
}

// Name returns the provider name.
func (o *OpenAI) Name() string {
	return "openai"
}

// Upload writes the audio to a mode-0600 scratch file.
func (o *OpenAI) Upload(ctx context.Context, audio []byte, mimeType string) (FileHandle, error) {
	f, err := os.CreateTemp("", "exactscribe-upload-*")
	if err != nil {
		return FileHandle{}, WrapError(KindUpload, err)
	}

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		os.Remove(f.Name())
		return FileHandle{}, WrapError(KindUpload, err)
	}

	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return FileHandle{}, WrapError(KindUpload, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return FileHandle{}, WrapError(KindUpload, err)
	}

	return FileHandle{ID: f.Name(), MIMEType: mimeType}, nil
}

// Generate transcribes the staged file and releases it.
func (o *OpenAI) Generate(ctx context.Context, model, prompt string, file FileHandle) (Response, error) {
	defer os.Remove(file.ID)

	if model == "" {
		model = openai.Whisper1
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: file.ID,
		Prompt:   prompt,
	})
	if err != nil {
		return Response{}, classifyOpenAI(err)
	}

	// Whisper answers with the text directly; no candidate nesting.
	return Response{Text: resp.Text}, nil
}

// classifyOpenAI maps SDK errors onto the taxonomy, status code first.
func classifyOpenAI(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := fmt.Sprintf("transcription API error: http %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		return NewError(classify(apiErr.HTTPStatusCode, apiErr.Message, KindNetwork), msg)
	}
	return WrapError(KindNetwork, err)
}
