// Package backend defines the remote transcription contract: staging audio
// with a provider, generating a transcript from it, and classifying the
// ways that can fail.
package backend

import (
	"errors"
	"fmt"
)

// Kind is the failure taxonomy for one orchestration call. Per-chunk
// failures carry a Kind and are judged statistically; they never abort the
// batch on their own.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindQuota      Kind = "quota_exceeded"
	KindNetwork    Kind = "network"
	KindUpload     Kind = "upload_failed"
	KindExtraction Kind = "extraction_failed"
	KindChunking   Kind = "chunking_failed"
	KindUnknown    Kind = "unknown"
)

// Error is a classified backend failure. Message is already sanitized and
// safe to log or return to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error, sanitizing the message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: Sanitize(message)}
}

// WrapError classifies an underlying error under the given kind unless the
// error already carries a classification, which wins.
func WrapError(kind Kind, err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return &Error{Kind: kind, Message: Sanitize(err.Error()), Err: err}
}

// KindOf extracts the classification from an error chain, KindUnknown when
// none is present.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// UserMessage renders the one human-readable line the caller sees for the
// dominant cause. Raw payloads and stacks never cross this boundary.
func UserMessage(err error) string {
	var be *Error
	if !errors.As(err, &be) {
		return "Transcription failed: " + Sanitize(err.Error())
	}

	switch be.Kind {
	case KindAuth:
		return "API authentication error. Please check your API key."
	case KindQuota:
		return "API quota exceeded. Please try again later."
	case KindNetwork:
		return "Network error reaching the transcription service. Please try again."
	case KindUpload:
		return "File upload failed: " + be.Message
	case KindExtraction:
		return "Could not extract transcript text from the service response."
	case KindChunking:
		return "Failed to split the audio file."
	default:
		return "Transcription failed: " + be.Message
	}
}
