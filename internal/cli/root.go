// Package cli implements the exactscribe command line interface.
package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"exactscribe/internal/core/config"
	"exactscribe/internal/core/version"
)

var rootCmd = &cobra.Command{
	Use:     "exactscribe",
	Short:   "Transcribe audio files with speaker diarization and timestamped output",
	Version: version.Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveKey returns the provider API key, prompting for the PIN when the
// stored key is sealed and none was given on the command line.
func resolveKey(cfg *config.Config, pin string) (string, error) {
	if cfg.APIKeySealed() && pin == "" {
		fmt.Print("PIN: ")
		pinBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read PIN: %w", err)
		}
		pin = string(pinBytes)
	}
	return cfg.ResolveAPIKey(pin)
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
