package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format identifies an export encoding.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// srtWindow is the fixed caption duration. The encoder deliberately does
// not look at the next line's start time, so captions may overlap or gap.
const srtWindow = 3 * time.Second

// FormatInfo describes the artifact produced for a format.
type FormatInfo struct {
	Extension   string
	MIMEType    string
	Description string
}

// Formats lists the supported export formats and their artifact metadata.
var Formats = map[Format]FormatInfo{
	FormatTXT: {
		Extension:   "txt",
		MIMEType:    "text/plain",
		Description: "Simple text format with timestamps and speakers",
	},
	FormatSRT: {
		Extension:   "srt",
		MIMEType:    "application/x-subrip",
		Description: "Subtitle format with precise timestamps",
	},
	FormatJSON: {
		Extension:   "json",
		MIMEType:    "application/json",
		Description: "Structured data format for programmatic use",
	},
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Formats[f]; !ok {
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
	return f, nil
}

// Export encodes a transcript for download. All encoders are pure and
// tolerate partially malformed input: lines that do not parse are skipped
// (SRT, JSON) or passed through (TXT), never an error.
func Export(transcript string, format Format) (string, error) {
	switch format {
	case FormatTXT:
		return transcript, nil
	case FormatSRT:
		return exportSRT(transcript), nil
	case FormatJSON:
		return exportJSON(transcript)
	default:
		return "", fmt.Errorf("unsupported export format: %q", format)
	}
}

// exportSRT emits sequential captions with a fixed three-second window.
func exportSRT(transcript string) string {
	var b strings.Builder
	counter := 1

	for _, raw := range splitLines(transcript) {
		if strings.TrimSpace(raw) == "" || IsEnd(raw) {
			continue
		}

		line, ok := ParseLine(raw)
		if !ok {
			continue
		}

		start := line.Timestamp.Duration()
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			counter, srtTime(start), srtTime(start+srtWindow), srtContent(line))
		counter++
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// srtContent rebuilds the caption text from the parsed line.
func srtContent(line Line) string {
	switch line.Kind {
	case KindSpeech:
		return line.Speaker + ": " + line.Text
	case KindEvent:
		return "[" + line.Text + "]"
	default:
		return line.Text
	}
}

// srtTime formats an offset as HH:MM:SS,mmm. The grammar never produces
// sub-second precision, so the millisecond field is always 000.
func srtTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d,000", h, m, s)
}

// jsonEntry is one structured transcript record.
type jsonEntry struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Speaker   string `json:"speaker,omitempty"`
	Content   string `json:"content"`
}

// jsonDocument wraps the records; an empty transcript still produces
// {"transcript": []} rather than an empty string.
type jsonDocument struct {
	Transcript []jsonEntry `json:"transcript"`
}

func exportJSON(transcript string) (string, error) {
	doc := jsonDocument{Transcript: []jsonEntry{}}

	for _, raw := range splitLines(transcript) {
		if strings.TrimSpace(raw) == "" || IsEnd(raw) {
			continue
		}

		line, ok := ParseLine(raw)
		if !ok {
			continue
		}

		doc.Transcript = append(doc.Transcript, jsonEntry{
			Timestamp: line.Stamp,
			Type:      string(line.Kind),
			Speaker:   line.Speaker,
			Content:   line.Text,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
