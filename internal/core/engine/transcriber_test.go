package engine

import (
	"context"
	"errors"
	"testing"

	"exactscribe/internal/core/backend"
)

type stubBackend struct {
	uploadErr   error
	generateErr error
	resp        backend.Response
}

func (s *stubBackend) Upload(context.Context, []byte, string) (backend.FileHandle, error) {
	if s.uploadErr != nil {
		return backend.FileHandle{}, s.uploadErr
	}
	return backend.FileHandle{ID: "1"}, nil
}

func (s *stubBackend) Generate(context.Context, string, string, backend.FileHandle) (backend.Response, error) {
	if s.generateErr != nil {
		return backend.Response{}, s.generateErr
	}
	return s.resp, nil
}

func (s *stubBackend) Name() string { return "stub" }

func TestTranscribeClassifiesSteps(t *testing.T) {
	tests := []struct {
		name string
		stub *stubBackend
		want backend.Kind
	}{
		{
			name: "upload quota sniffed from message",
			stub: &stubBackend{uploadErr: errors.New("429 quota exceeded for project")},
			want: backend.KindQuota,
		},
		{
			name: "upload auth sniffed from message",
			stub: &stubBackend{uploadErr: errors.New("request unauthorized")},
			want: backend.KindAuth,
		},
		{
			name: "unrecognized upload failure",
			stub: &stubBackend{uploadErr: errors.New("disk full")},
			want: backend.KindUpload,
		},
		{
			name: "classified upload error kept",
			stub: &stubBackend{uploadErr: backend.NewError(backend.KindAuth, "bad key")},
			want: backend.KindAuth,
		},
		{
			name: "unrecognized generate failure",
			stub: &stubBackend{generateErr: errors.New("internal error")},
			want: backend.KindNetwork,
		},
		{
			name: "empty response",
			stub: &stubBackend{resp: backend.Response{}},
			want: backend.KindExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscriber(tt.stub)
			_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/mpeg", "model", "prompt")
			if err == nil {
				t.Fatal("want error")
			}
			if got := backend.KindOf(err); got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscribeSuccess(t *testing.T) {
	tr := NewTranscriber(&stubBackend{resp: backend.Response{Text: "[00:01] Speaker 1: Hi.\n[END]"}})

	got, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/mpeg", "model", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[00:01] Speaker 1: Hi.\n[END]" {
		t.Errorf("transcript = %q", got)
	}
}
