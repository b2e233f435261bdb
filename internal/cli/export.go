package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exactscribe/internal/core/transcript"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <transcript-file>",
	Short: "Convert a saved transcript to SRT or JSON",
	Long: `Convert a transcript produced by 'exactscribe transcribe' into
another format.

Examples:
  exactscribe export -f srt meeting.transcript.txt
  exactscribe export -f json -o out.json meeting.transcript.txt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(args[0]); err != nil {
			exitErr(err)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "srt", "target format: txt, srt, or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: alongside the input)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(path string) error {
	format, err := transcript.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	content, err := transcript.Export(string(data), format)
	if err != nil {
		return err
	}

	outPath := exportOutput
	if outPath == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		outPath = base + "." + transcript.Formats[format].Extension
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	color.Green("Exported to %s", outPath)
	return nil
}
