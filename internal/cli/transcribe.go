package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exactscribe/internal/core/audio"
	"exactscribe/internal/core/backend"
	"exactscribe/internal/core/config"
	"exactscribe/internal/core/engine"
	"exactscribe/internal/core/transcript"
)

var (
	transcribeOutput      string
	transcribeModel       string
	transcribeSpeakers    int
	transcribeContentType string
	transcribeTopic       string
	transcribeDescription string
	transcribeLanguage    string
	transcribeFormat      string
	transcribePIN         string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio file",
	Long: `Transcribe an audio file with speaker diarization and timestamps.

Small files are sent to the backend in one call. Large files are split
into chunks, transcribed in parallel, and stitched back together.

Examples:
  exactscribe transcribe meeting.mp3
  exactscribe transcribe -s 3 --topic "board meeting" call.wav
  exactscribe transcribe --format srt interview.m4a`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTranscribe(args[0]); err != nil {
			exitErr(err)
		}
	},
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeOutput, "output", "o", "", "output file (default: alongside the audio)")
	transcribeCmd.Flags().StringVarP(&transcribeModel, "model", "m", "", "model identifier (default from config)")
	transcribeCmd.Flags().IntVarP(&transcribeSpeakers, "speakers", "s", 1, "number of distinct speakers")
	transcribeCmd.Flags().StringVar(&transcribeContentType, "content-type", "", "kind of recording (podcast, interview, meeting...)")
	transcribeCmd.Flags().StringVar(&transcribeTopic, "topic", "", "topic of the recording")
	transcribeCmd.Flags().StringVar(&transcribeDescription, "description", "", "free-form description")
	transcribeCmd.Flags().StringVar(&transcribeLanguage, "language", "", "spoken language")
	transcribeCmd.Flags().StringVarP(&transcribeFormat, "format", "f", "txt", "output format: txt, srt, or json")
	transcribeCmd.Flags().StringVar(&transcribePIN, "pin", "", "PIN for a sealed API key")

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(path string) error {
	cfg := config.LoadOrDefault()
	if !config.Exists() {
		fmt.Fprintln(os.Stderr, color.YellowString("Warning: config file not found. Run 'exactscribe init' to create one."))
	}

	exportFormat, err := transcript.ParseFormat(transcribeFormat)
	if err != nil {
		return err
	}

	format, err := audio.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	sizeMB := float64(len(data)) / (1024 * 1024)

	if cfg.Limits.MaxFileSizeMB > 0 && sizeMB > cfg.Limits.MaxFileSizeMB {
		return fmt.Errorf("file is %.1f MB, the limit is %.0f MB", sizeMB, cfg.Limits.MaxFileSizeMB)
	}

	apiKey, err := resolveKey(cfg, transcribePIN)
	if err != nil {
		return err
	}

	b, err := backend.New(cfg.Backend.Provider, apiKey, cfg.Backend.BaseURL)
	if err != nil {
		return err
	}

	orch := engine.New(b, engine.Options{
		ChunkDuration:        cfg.ChunkDuration(),
		Workers:              cfg.Chunking.Workers,
		MinSuccessRatio:      cfg.Chunking.MinSuccessRatio,
		LargeFileThresholdMB: cfg.Chunking.LargeFileThresholdMB,
		Model:                cfg.Backend.Model,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	color.Cyan("Transcribing %s (%.1f MB)...", filepath.Base(path), sizeMB)
	start := time.Now()

	text, err := orch.Transcribe(ctx, engine.Request{
		Audio:    data,
		Format:   format,
		SizeMB:   sizeMB,
		Speakers: transcribeSpeakers,
		Model:    transcribeModel,
		Metadata: engine.Metadata{
			ContentType: transcribeContentType,
			Topic:       transcribeTopic,
			Description: transcribeDescription,
			Language:    transcribeLanguage,
		},
	})
	if err != nil {
		return fmt.Errorf("%s", backend.UserMessage(err))
	}

	content, err := transcript.Export(text, exportFormat)
	if err != nil {
		return err
	}

	outPath := transcribeOutput
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outPath = filepath.Join(filepath.Dir(path), base+".transcript."+transcript.Formats[exportFormat].Extension)
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	color.Green("Done in %s. Transcript written to %s", time.Since(start).Round(time.Second), outPath)
	return nil
}
