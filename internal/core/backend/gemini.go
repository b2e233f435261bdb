package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini implements Backend against the Gemini REST API: a media upload to
// the files endpoint followed by generateContent referencing the staged
// file.
type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGemini creates a Gemini backend. baseURL overrides the public
// endpoint, mainly for tests.
func NewGemini(apiKey, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, NewError(KindAuth, "Gemini API key not provided")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &Gemini{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return "gemini"
}

type geminiFile struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
}

type geminiUploadResponse struct {
	File geminiFile `json:"file"`
}

// Upload stages audio bytes via the media upload endpoint.
func (g *Gemini) Upload(ctx context.Context, audio []byte, mimeType string) (FileHandle, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?uploadType=media&key=%s", g.baseURL, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return FileHandle{}, WrapError(KindUpload, err)
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := g.client.Do(req)
	if err != nil {
		return FileHandle{}, WrapError(KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return FileHandle{}, g.statusError(resp, KindUpload, "file upload failed")
	}

	var out geminiUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return FileHandle{}, WrapError(KindUpload, err)
	}
	if out.File.URI == "" {
		return FileHandle{}, NewError(KindUpload, "upload response carried no file URI")
	}

	return FileHandle{ID: out.File.Name, URI: out.File.URI, MIMEType: out.File.MIMEType}, nil
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text     string          `json:"text,omitempty"`
	FileData *geminiFileData `json:"file_data,omitempty"`
}

type geminiFileData struct {
	MIMEType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs generateContent with the prompt and the staged file.
func (g *Gemini) Generate(ctx context.Context, model, prompt string, file FileHandle) (Response, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)

	body := geminiGenerateRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{FileData: &geminiFileData{MIMEType: file.MIMEType, FileURI: file.URI}},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, WrapError(KindUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, WrapError(KindUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Response{}, WrapError(KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Response{}, g.statusError(resp, KindNetwork, "transcription request failed")
	}

	var out geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, WrapError(KindNetwork, err)
	}

	// Gemini only speaks the nested candidate/part shape; the direct Text
	// field stays empty and ExtractText falls through to the candidates.
	r := Response{}
	for _, c := range out.Candidates {
		cand := Candidate{}
		for _, p := range c.Content.Parts {
			cand.Content.Parts = append(cand.Content.Parts, Part{Text: p.Text})
		}
		r.Candidates = append(r.Candidates, cand)
	}
	return r, nil
}

// statusError reads a bounded amount of the error body and classifies the
// failure from the status code first.
func (g *Gemini) statusError(resp *http.Response, fallback Kind, action string) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := fmt.Sprintf("%s: http %d: %s", action, resp.StatusCode, string(body))
	return NewError(classify(resp.StatusCode, string(body), fallback), msg)
}
