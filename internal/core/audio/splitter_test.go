package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// makeWAV builds a mono 16-bit PCM sine tone of the given length.
func makeWAV(t *testing.T, length time.Duration, sampleRate int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	frames := int(float64(sampleRate) * length.Seconds())
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDurationWAV(t *testing.T) {
	data := makeWAV(t, 5*time.Second, 8000)

	d, err := Duration(data, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	if diff := (d - 5*time.Second).Abs(); diff > 50*time.Millisecond {
		t.Errorf("duration = %v, want ~5s", d)
	}
}

func TestSplitWAVChunkCount(t *testing.T) {
	// 150s at a 60s chunk length must produce exactly ceil(150/60) = 3
	// chunks, the last one shorter than the rest.
	data := makeWAV(t, 150*time.Second, 8000)

	s := NewSplitter(60 * time.Second)
	result, err := s.Split(data, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	defer result.Cleanup()

	if result.NumChunks != 3 {
		t.Errorf("NumChunks = %d, want 3", result.NumChunks)
	}
	if len(result.Chunks) != 3 {
		t.Fatalf("len(Chunks) = %d, want 3", len(result.Chunks))
	}

	wantDurations := []time.Duration{60 * time.Second, 60 * time.Second, 30 * time.Second}
	for i, c := range result.Chunks {
		if c.Index != i {
			t.Errorf("chunk %d: Index = %d", i, c.Index)
		}
		if want := time.Duration(i) * 60 * time.Second; c.Start != want {
			t.Errorf("chunk %d: Start = %v, want %v", i, c.Start, want)
		}

		chunkData, err := c.Data()
		if err != nil {
			t.Fatalf("chunk %d: %v", i, err)
		}
		d, err := Duration(chunkData, FormatWAV)
		if err != nil {
			t.Fatalf("chunk %d: %v", i, err)
		}
		if diff := (d - wantDurations[i]).Abs(); diff > 100*time.Millisecond {
			t.Errorf("chunk %d: duration = %v, want ~%v", i, d, wantDurations[i])
		}
	}
}

func TestSplitShortFileSingleChunk(t *testing.T) {
	data := makeWAV(t, 10*time.Second, 8000)

	result, err := NewSplitter(0).Split(data, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	defer result.Cleanup()

	if result.NumChunks != 1 || len(result.Chunks) != 1 {
		t.Errorf("got %d planned, %d produced, want 1 and 1", result.NumChunks, len(result.Chunks))
	}
}

func TestSplitRestrictsPermissions(t *testing.T) {
	data := makeWAV(t, 3*time.Second, 8000)

	result, err := NewSplitter(2 * time.Second).Split(data, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	defer result.Cleanup()

	dirInfo, err := os.Stat(filepath.Dir(result.Chunks[0].Path))
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("chunk dir perm = %o, want 700", perm)
	}

	for _, c := range result.Chunks {
		info, err := os.Stat(c.Path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("chunk %d perm = %o, want 600", c.Index, perm)
		}
	}
}

func TestCleanupRemovesChunks(t *testing.T) {
	data := makeWAV(t, 5*time.Second, 8000)

	result, err := NewSplitter(2 * time.Second).Split(data, FormatWAV)
	if err != nil {
		t.Fatal(err)
	}

	paths := make([]string, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		paths = append(paths, c.Path)
	}

	result.Cleanup()
	result.Cleanup() // idempotent

	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("chunk file %s survived cleanup", p)
		}
	}
}

func TestSplitRejectsGarbage(t *testing.T) {
	if _, err := NewSplitter(0).Split([]byte("not audio at all"), FormatWAV); err == nil {
		t.Fatal("want error for invalid WAV data")
	}
}
