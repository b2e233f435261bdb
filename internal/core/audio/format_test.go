package audio

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "mp3", want: FormatMP3},
		{in: ".mp3", want: FormatMP3},
		{in: "MP3", want: FormatMP3},
		{in: "mpeg", want: FormatMP3},
		{in: "wav", want: FormatWAV},
		{in: "x-wav", want: FormatWAV},
		{in: "m4a", want: FormatM4A},
		{in: "mp4", want: FormatM4A},
		{in: "flac", want: FormatFLAC},
		{in: "ogg", want: FormatOGG},
		{in: "oga", want: FormatOGG},
		{in: "aiff", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): want error", tt.in)
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

func TestFormatMIMEType(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatMP3, "audio/mpeg"},
		{FormatWAV, "audio/wav"},
		{FormatM4A, "audio/mp4"},
		{FormatFLAC, "audio/flac"},
		{FormatOGG, "audio/ogg"},
	}

	for _, tt := range tests {
		if got := tt.format.MIMEType(); got != tt.want {
			t.Errorf("%s.MIMEType() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatFLAC.Ext(); got != ".flac" {
		t.Errorf("Ext() = %q", got)
	}
}
