package transcript

import (
	"testing"
	"time"
)

func TestTimestampRoundTrip(t *testing.T) {
	tests := []string{
		"00:00",
		"00:05",
		"12:34",
		"59:59",
		"75:10", // two-part minutes are unbounded
		"00:00:05",
		"01:02:03",
		"10:59:59",
	}

	for _, in := range tests {
		ts, ok := ParseTimestamp(in)
		if !ok {
			t.Errorf("ParseTimestamp(%q) failed", in)
			continue
		}
		if got := ts.String(); got != in {
			t.Errorf("round trip %q: got %q", in, got)
		}
	}
}

func TestParseTimestampRejects(t *testing.T) {
	tests := []string{
		"",
		"5",
		"1:2:3:4",
		"aa:bb",
		"bad:ts",
		"-1:00",
	}

	for _, in := range tests {
		if _, ok := ParseTimestamp(in); ok {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ok      bool
		kind    LineKind
		speaker string
		text    string
	}{
		{
			name:    "speech line",
			input:   "[00:05] Speaker 1: Hello, welcome to the meeting.",
			ok:      true,
			kind:    KindSpeech,
			speaker: "Speaker 1",
			text:    "Hello, welcome to the meeting.",
		},
		{
			name:  "event line",
			input: "[01:02] [MUSIC]",
			ok:    true,
			kind:  KindEvent,
			text:  "MUSIC",
		},
		{
			name:  "named event",
			input: "[01:02] [Firework by Katy Perry]",
			ok:    true,
			kind:  KindEvent,
			text:  "Firework by Katy Perry",
		},
		{
			name:  "free text",
			input: "[00:10] inaudible crosstalk",
			ok:    true,
			kind:  KindOther,
			text:  "inaudible crosstalk",
		},
		{
			name:    "speech with colon in text splits on first colon",
			input:   "[00:10] Host: The ratio is 3:1 roughly.",
			ok:      true,
			kind:    KindSpeech,
			speaker: "Host",
			text:    "The ratio is 3:1 roughly.",
		},
		{
			name:    "hour form",
			input:   "[01:00:05] Speaker 2: Later on.",
			ok:      true,
			kind:    KindSpeech,
			speaker: "Speaker 2",
			text:    "Later on.",
		},
		{
			name:  "malformed timestamp arity",
			input: "[1:2:3:4] Speaker: nope",
			ok:    false,
		},
		{
			name:  "non-numeric timestamp",
			input: "[bad:ts] Speaker B: Invalid",
			ok:    false,
		},
		{
			name:  "no timestamp",
			input: "plain narration line",
			ok:    false,
		},
		{
			name:  "end marker is not a line",
			input: "[END]",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := ParseLine(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if line.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", line.Kind, tt.kind)
			}
			if line.Speaker != tt.speaker {
				t.Errorf("speaker = %q, want %q", line.Speaker, tt.speaker)
			}
			if line.Text != tt.text {
				t.Errorf("text = %q, want %q", line.Text, tt.text)
			}
		})
	}
}

func TestTimestampDuration(t *testing.T) {
	ts, ok := ParseTimestamp("75:10")
	if !ok {
		t.Fatal("parse failed")
	}
	want := 75*time.Minute + 10*time.Second
	if got := ts.Duration(); got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}

func TestIsEnd(t *testing.T) {
	if !IsEnd("  [END]  ") {
		t.Error("trimmed [END] should match")
	}
	if IsEnd("[END] of part one") {
		t.Error("[END] must be exact")
	}
}
