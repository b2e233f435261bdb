package backend

import "context"

// FileHandle references audio staged with a provider. For providers
// without a staging step the ID is a local scratch path owned by the
// adapter.
type FileHandle struct {
	ID       string
	URI      string
	MIMEType string
}

// Response is the provider reply. Text may be carried directly or nested
// inside a candidates/parts structure; ExtractText tries both.
type Response struct {
	Text       string
	Candidates []Candidate
}

// Candidate is one alternative the provider produced.
type Candidate struct {
	Content Content
}

// Content groups the parts of a candidate.
type Content struct {
	Parts []Part
}

// Part is one text fragment of a candidate.
type Part struct {
	Text string
}

// ExtractText returns the transcript text, trying the direct field first
// and the nested candidate/part path second. When neither yields text the
// failure is classified as an extraction error.
func (r Response) ExtractText() (string, error) {
	if r.Text != "" {
		return r.Text, nil
	}
	if len(r.Candidates) > 0 && len(r.Candidates[0].Content.Parts) > 0 {
		if text := r.Candidates[0].Content.Parts[0].Text; text != "" {
			return text, nil
		}
	}
	return "", NewError(KindExtraction, "response contained no transcript text")
}

// Backend is a remote transcription provider: possibly slow, possibly
// rate-limited, opaque to the core. Every error it returns is a classified
// *Error with a sanitized message.
type Backend interface {
	// Upload stages an audio payload with the provider.
	Upload(ctx context.Context, audio []byte, mimeType string) (FileHandle, error)

	// Generate produces a transcription of staged audio using the prompt.
	Generate(ctx context.Context, model, prompt string, file FileHandle) (Response, error)

	// Name returns the provider name.
	Name() string
}
