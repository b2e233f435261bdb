package audio

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// Duration reports the total playing time of an audio payload. WAV, MP3,
// and FLAC are decoded natively; the remaining formats go through ffprobe.
func Duration(data []byte, format Format) (time.Duration, error) {
	switch format {
	case FormatWAV:
		return wavDuration(data)
	case FormatMP3:
		return mp3Duration(data)
	case FormatFLAC:
		return flacDuration(data)
	default:
		return ffprobeDuration(data, format)
	}
}

func wavDuration(data []byte) (time.Duration, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid WAV data")
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to read WAV duration: %w", err)
	}
	return d, nil
}

func mp3Duration(data []byte) (time.Duration, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode MP3: %w", err)
	}

	// Length is the decoded stream size in bytes: 2 channels of 16-bit
	// samples at the decoder's sample rate.
	samples := dec.Length() / 4
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), nil
}

func flacDuration(data []byte) (time.Duration, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to parse FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	if info.SampleRate == 0 {
		return 0, fmt.Errorf("FLAC stream has no sample rate")
	}
	return time.Duration(info.NSamples) * time.Second / time.Duration(info.SampleRate), nil
}

// ffprobeDuration shells out to ffprobe for containers without a native
// decoder. The payload is staged to a scratch file for the probe.
func ffprobeDuration(data []byte, format Format) (time.Duration, error) {
	f, err := os.CreateTemp("", "exactscribe-probe-*"+format.Ext())
	if err != nil {
		return 0, fmt.Errorf("failed to stage audio for probing: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to stage audio for probing: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
