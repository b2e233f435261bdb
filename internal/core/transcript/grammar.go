// Package transcript implements the line grammar shared by the chunking
// pipeline and the export encoders: lines of the form
// "[MM:SS] Speaker: text", "[HH:MM:SS] [EVENT]", and the terminal "[END]".
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EndMarker terminates a complete transcript. Intermediate chunk
// transcripts may each carry one; stitching keeps only the last.
const EndMarker = "[END]"

// linePattern matches a leading bracketed timestamp and captures the rest
// of the line verbatim.
var linePattern = regexp.MustCompile(`^\[([\d:]+)\](.*)$`)

// Timestamp is a parsed [MM:SS] or [HH:MM:SS] tag.
//
// HasHours records which of the two forms the tag was written in. A
// two-part timestamp has no hours field at all: its minutes are unbounded
// and rebasing never promotes them into an hours component. Only a
// three-part timestamp carries minute overflow into hours.
type Timestamp struct {
	Hours    int
	Minutes  int
	Seconds  int
	HasHours bool
}

// ParseTimestamp parses the inner text of a bracketed tag. Anything other
// than two or three colon-separated integers is rejected.
func ParseTimestamp(s string) (Timestamp, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Timestamp{}, false
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Timestamp{}, false
		}
		nums[i] = n
	}

	if len(parts) == 2 {
		return Timestamp{Minutes: nums[0], Seconds: nums[1]}, true
	}
	return Timestamp{Hours: nums[0], Minutes: nums[1], Seconds: nums[2], HasHours: true}, true
}

// String re-emits the timestamp in the arity it was parsed with, so a
// two-part tag round-trips as MM:SS rather than being upgraded.
func (t Timestamp) String() string {
	if t.HasHours {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
	}
	return fmt.Sprintf("%02d:%02d", t.Minutes, t.Seconds)
}

// Duration converts the timestamp to an offset from the start of audio.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second
}

// AddMinutes shifts the timestamp forward. Three-part timestamps carry
// minute overflow into the hours field; two-part timestamps keep pure
// minute arithmetic, so minutes can pass 59.
func (t Timestamp) AddMinutes(n int) Timestamp {
	t.Minutes += n
	if t.HasHours && t.Minutes >= 60 {
		t.Hours += t.Minutes / 60
		t.Minutes %= 60
	}
	return t
}

// LineKind classifies the content following a timestamp.
type LineKind string

const (
	// KindSpeech is a diarized utterance: "Speaker: text".
	KindSpeech LineKind = "speech"
	// KindEvent is a bracketed non-speech annotation: "[MUSIC]".
	KindEvent LineKind = "event"
	// KindOther is timestamped free text with no speaker label.
	KindOther LineKind = "other"
)

// Line is one parsed transcript line.
type Line struct {
	Stamp     string // timestamp as originally written, without brackets
	Timestamp Timestamp
	Kind      LineKind
	Speaker   string // set for KindSpeech only
	Text      string // utterance, event label, or free text
}

// ParseLine parses one transcript line. ok is false when the line does not
// open with a well-formed timestamp; such lines are opaque pass-through
// text and must never fail a transcript. The [END] marker is not a line in
// this grammar and also reports false.
func ParseLine(raw string) (Line, bool) {
	if strings.TrimSpace(raw) == EndMarker {
		return Line{}, false
	}

	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}

	ts, ok := ParseTimestamp(m[1])
	if !ok {
		return Line{}, false
	}

	line := Line{Stamp: m[1], Timestamp: ts}
	content := strings.TrimSpace(m[2])

	switch {
	case strings.HasPrefix(content, "[") && strings.HasSuffix(content, "]") && len(content) >= 2:
		line.Kind = KindEvent
		line.Text = strings.TrimSpace(content[1 : len(content)-1])
	case strings.Contains(content, ":"):
		speaker, text, _ := strings.Cut(content, ":")
		line.Kind = KindSpeech
		line.Speaker = strings.TrimSpace(speaker)
		line.Text = strings.TrimSpace(text)
	default:
		line.Kind = KindOther
		line.Text = content
	}

	return line, true
}

// IsEnd reports whether a raw line is the terminal marker.
func IsEnd(raw string) bool {
	return strings.TrimSpace(raw) == EndMarker
}
