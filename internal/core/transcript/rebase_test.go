package transcript

import (
	"testing"
	"time"
)

const chunkDur = 2 * time.Minute

func TestRebaseShiftsMinutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
		want  string
	}{
		{
			name:  "chunk zero is untouched",
			input: "[00:30] Speaker 1: Start.",
			index: 0,
			want:  "[00:30] Speaker 1: Start.",
		},
		{
			name:  "second chunk shifts two minutes",
			input: "[00:30] Speaker 1: Middle.",
			index: 1,
			want:  "[02:30] Speaker 1: Middle.",
		},
		{
			name:  "two-part minutes grow past 59 without an hours field",
			input: "[01:15] Speaker 2: Much later.",
			index: 30,
			want:  "[61:15] Speaker 2: Much later.",
		},
		{
			name:  "three-part carries overflow into hours",
			input: "[00:59:30] Speaker 1: Almost an hour in.",
			index: 1,
			want:  "[01:01:30] Speaker 1: Almost an hour in.",
		},
		{
			name:  "unparseable line passes through",
			input: "[bad:ts] Speaker B: Invalid",
			index: 3,
			want:  "[bad:ts] Speaker B: Invalid",
		},
		{
			name:  "end marker passes through",
			input: "[END]",
			index: 2,
			want:  "[END]",
		},
		{
			name:  "blank line passes through",
			input: "",
			index: 2,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rebase(tt.input, tt.index, chunkDur); got != tt.want {
				t.Errorf("Rebase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRebaseMultiLine(t *testing.T) {
	input := "[00:05] Speaker 1: Hello.\n[00:08] [MUSIC]\nno timestamp here\n[END]"
	want := "[04:05] Speaker 1: Hello.\n[04:08] [MUSIC]\nno timestamp here\n[END]"

	if got := Rebase(input, 2, chunkDur); got != want {
		t.Errorf("Rebase() = %q, want %q", got, want)
	}
}

// Rebasing by a and then b must equal rebasing by a+b as long as no
// three-part line crosses an hour boundary in between.
func TestRebaseAdditivity(t *testing.T) {
	line := "[00:10] Speaker 1: Additive."

	once := Rebase(line, 3, chunkDur)   // +6 minutes
	twice := Rebase(once, 2, chunkDur)  // +4 minutes
	direct := Rebase(line, 5, chunkDur) // +10 minutes

	if twice != direct {
		t.Errorf("composed rebase %q != direct rebase %q", twice, direct)
	}
}
