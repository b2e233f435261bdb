package audio

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultChunkDuration is the slice length used when none is configured.
const DefaultChunkDuration = 2 * time.Minute

// Chunk is one bounded-duration slice of the source audio. Index is
// 0-based and fixes both ordering and the timestamp offset
// (Index * chunk duration); it is preserved even when a neighboring chunk
// failed to slice.
type Chunk struct {
	Index  int
	Start  time.Duration
	Path   string
	Format Format
}

// Data reads the chunk's audio bytes from its scratch file.
func (c Chunk) Data() ([]byte, error) {
	return os.ReadFile(c.Path)
}

// SplitResult owns the scratch directory holding the chunk files. Callers
// must Cleanup on every exit path.
type SplitResult struct {
	Chunks    []Chunk
	NumChunks int // planned count; len(Chunks) may be lower on partial failure
	dir       string
}

// Cleanup releases the scratch directory and every chunk in it.
func (r *SplitResult) Cleanup() {
	if r == nil || r.dir == "" {
		return
	}
	if err := os.RemoveAll(r.dir); err != nil {
		log.Printf("failed to remove chunk directory %s: %v", r.dir, err)
	}
	r.dir = ""
}

// Splitter slices audio into fixed-duration chunks, re-encoded in the
// source format. WAV is sliced natively at PCM frame accuracy; other
// formats go through ffmpeg stream copy.
type Splitter struct {
	chunkDuration time.Duration
}

// NewSplitter creates a Splitter. A zero duration selects the default.
func NewSplitter(chunkDuration time.Duration) *Splitter {
	if chunkDuration <= 0 {
		chunkDuration = DefaultChunkDuration
	}
	return &Splitter{chunkDuration: chunkDuration}
}

// ChunkDuration returns the configured slice length.
func (s *Splitter) ChunkDuration() time.Duration {
	return s.chunkDuration
}

// Split slices the audio payload. A single chunk's failure drops that
// chunk and continues; the call fails only when no chunk could be
// produced, and then no scratch storage is left behind.
func (s *Splitter) Split(data []byte, format Format) (*SplitResult, error) {
	total, err := Duration(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load audio data: %w", err)
	}

	numChunks := int((total + s.chunkDuration - 1) / s.chunkDuration)
	if numChunks < 1 {
		numChunks = 1
	}
	log.Printf("splitting %s audio (%.2fs) into %d chunks", format, total.Seconds(), numChunks)

	dir, err := os.MkdirTemp("", "exactscribe-chunks-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		log.Printf("could not restrict chunk directory permissions: %v", err)
	}

	result := &SplitResult{NumChunks: numChunks, dir: dir}

	var sliceErr error
	if format == FormatWAV {
		sliceErr = s.splitWAV(data, total, numChunks, result)
	} else {
		sliceErr = s.splitFFmpeg(data, format, total, numChunks, result)
	}
	if sliceErr != nil {
		result.Cleanup()
		return nil, sliceErr
	}

	if len(result.Chunks) == 0 {
		result.Cleanup()
		return nil, fmt.Errorf("failed to create any valid audio chunks")
	}

	return result, nil
}

// chunkSpan returns the half-open slice window for chunk i, clamped to the
// total duration.
func (s *Splitter) chunkSpan(i int, total time.Duration) (start, end time.Duration) {
	start = time.Duration(i) * s.chunkDuration
	end = start + s.chunkDuration
	if end > total {
		end = total
	}
	return start, end
}

// splitWAV decodes the PCM once and writes each chunk's frame range with a
// fresh WAV encoder.
func (s *Splitter) splitWAV(data []byte, total time.Duration, numChunks int, result *SplitResult) error {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return fmt.Errorf("invalid WAV data")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("failed to decode WAV: %w", err)
	}

	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	if channels <= 0 || sampleRate <= 0 {
		return fmt.Errorf("WAV data has no usable format")
	}
	totalFrames := len(buf.Data) / channels

	for i := 0; i < numChunks; i++ {
		start, end := s.chunkSpan(i, total)

		startFrame := int(int64(sampleRate) * start.Milliseconds() / 1000)
		endFrame := int(int64(sampleRate) * end.Milliseconds() / 1000)
		if endFrame > totalFrames {
			endFrame = totalFrames
		}
		if startFrame >= endFrame {
			continue
		}

		chunkPath := filepath.Join(result.dir, fmt.Sprintf("chunk_%d.wav", i))
		if err := writeWAVChunk(chunkPath, buf, startFrame, endFrame, int(dec.BitDepth)); err != nil {
			log.Printf("error creating chunk %d: %v", i, err)
			continue
		}

		restrictChunkFile(chunkPath, i)
		result.Chunks = append(result.Chunks, Chunk{Index: i, Start: start, Path: chunkPath, Format: FormatWAV})
	}

	return nil
}

// writeWAVChunk encodes one frame range to a standalone WAV file.
func writeWAVChunk(path string, buf *goaudio.IntBuffer, startFrame, endFrame, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	channels := buf.Format.NumChannels
	chunk := &goaudio.IntBuffer{
		Data:           buf.Data[startFrame*channels : endFrame*channels],
		Format:         buf.Format,
		SourceBitDepth: buf.SourceBitDepth,
	}

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, channels, 1)
	if err := enc.Write(chunk); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// splitFFmpeg stages the source once and extracts each window with ffmpeg
// stream copy.
func (s *Splitter) splitFFmpeg(data []byte, format Format, total time.Duration, numChunks int, result *SplitResult) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("%s chunking requires ffmpeg: %w", format, err)
	}

	srcPath := filepath.Join(result.dir, "source"+format.Ext())
	if err := os.WriteFile(srcPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to stage source audio: %w", err)
	}

	for i := 0; i < numChunks; i++ {
		start, end := s.chunkSpan(i, total)
		if start >= end {
			continue
		}

		chunkPath := filepath.Join(result.dir, fmt.Sprintf("chunk_%d%s", i, format.Ext()))
		cmd := exec.Command("ffmpeg",
			"-y",
			"-ss", ffmpegTime(start),
			"-i", srcPath,
			"-t", ffmpegTime(end-start),
			"-c", "copy",
			chunkPath,
		)
		if err := cmd.Run(); err != nil {
			log.Printf("error creating chunk %d: %v", i, err)
			continue
		}

		restrictChunkFile(chunkPath, i)
		result.Chunks = append(result.Chunks, Chunk{Index: i, Start: start, Path: chunkPath, Format: format})
	}

	return nil
}

// restrictChunkFile narrows chunk file permissions to the owner.
func restrictChunkFile(path string, index int) {
	if err := os.Chmod(path, 0o600); err != nil {
		log.Printf("could not restrict permissions on chunk %d: %v", index, err)
	}
}

// ffmpegTime formats a duration for ffmpeg (HH:MM:SS.mmm).
func ffmpegTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := d.Seconds() - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, seconds)
}
