package transcript

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExportTXTIsIdentity(t *testing.T) {
	in := "[00:01] Speaker A: Hello\n[END]"
	got, err := Export(in, FormatTXT)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("TXT export = %q, want identity", got)
	}
}

func TestExportSRTSkipsMalformedLines(t *testing.T) {
	in := "[00:01] Speaker A: Valid\n[bad:ts] Speaker B: Invalid\n[00:02] Speaker C: Also valid"

	got, err := Export(in, FormatSRT)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(got, "Invalid") {
		t.Errorf("malformed line leaked into SRT:\n%s", got)
	}

	blocks := strings.Split(got, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d captions, want 2:\n%s", len(blocks), got)
	}
	if !strings.HasPrefix(blocks[0], "1\n00:00:01,000 --> 00:00:04,000\nSpeaker A: Valid") {
		t.Errorf("caption 1 wrong:\n%s", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "2\n00:00:02,000 --> 00:00:05,000\nSpeaker C: Also valid") {
		t.Errorf("caption 2 wrong:\n%s", blocks[1])
	}
}

func TestExportSRTNormalizesOverflowedMinutes(t *testing.T) {
	// A two-part timestamp rebased past the hour keeps MM:SS in the
	// transcript but SRT times are absolute.
	got, err := Export("[75:10] Speaker 1: Late.", FormatSRT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "01:15:10,000 --> 01:15:13,000") {
		t.Errorf("overflowed minutes not normalized:\n%s", got)
	}
}

func TestExportSRTSkipsEndMarker(t *testing.T) {
	got, err := Export("[00:01] Speaker A: Hi\n[END]", FormatSRT)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "END") {
		t.Errorf("end marker leaked into SRT:\n%s", got)
	}
}

func TestExportJSONEmptyTranscript(t *testing.T) {
	got, err := Export("", FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Transcript []json.RawMessage `json:"transcript"`
	}
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Transcript == nil {
		t.Error(`want "transcript": [], got null`)
	}
	if len(doc.Transcript) != 0 {
		t.Errorf("want empty transcript array, got %d entries", len(doc.Transcript))
	}
}

func TestExportJSONRecords(t *testing.T) {
	in := "[00:05] Speaker 1: Hello.\n[01:02] [MUSIC]\n[00:10] just noise\n[bad] skip me\n[END]"

	got, err := Export(in, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Transcript []jsonEntry `json:"transcript"`
	}
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := []jsonEntry{
		{Timestamp: "00:05", Type: "speech", Speaker: "Speaker 1", Content: "Hello."},
		{Timestamp: "01:02", Type: "event", Content: "MUSIC"},
		{Timestamp: "00:10", Type: "other", Content: "just noise"},
	}
	if len(doc.Transcript) != len(want) {
		t.Fatalf("got %d records, want %d:\n%s", len(doc.Transcript), len(want), got)
	}
	for i, w := range want {
		if doc.Transcript[i] != w {
			t.Errorf("record %d = %+v, want %+v", i, doc.Transcript[i], w)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "txt", want: FormatTXT},
		{in: "SRT", want: FormatSRT},
		{in: " json ", want: FormatJSON},
		{in: "docx", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if Formats[FormatSRT].MIMEType != "application/x-subrip" {
		t.Error("srt mime type wrong")
	}
	if Formats[FormatTXT].Extension != "txt" || Formats[FormatJSON].MIMEType != "application/json" {
		t.Error("format metadata wrong")
	}
}
