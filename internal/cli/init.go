package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"exactscribe/internal/core/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the exactscribe config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runInitWizard()
		if err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("\nSaved %s\n", config.SavePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInitWizard walks through provider, model, API key, and server
// settings. Existing config values are kept as defaults.
func runInitWizard() (*config.Config, error) {
	cfg := config.LoadOrDefault()
	reader := bufio.NewReader(os.Stdin)

	color.Cyan("exactscribe setup")
	fmt.Println()

	// Provider
	fmt.Printf("Provider (gemini/openai) [%s]: ", cfg.Backend.Provider)
	provider, _ := reader.ReadString('\n')
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider != "" {
		if provider != "gemini" && provider != "openai" {
			return nil, fmt.Errorf("unknown provider %q", provider)
		}
		cfg.Backend.Provider = provider
	}

	// Model
	fmt.Println("Available models:")
	for _, m := range config.ModelsFor(cfg.Backend.Provider) {
		fmt.Printf("  %s (%s)\n", m.ID, m.Name)
	}
	fmt.Printf("Model [%s]: ", cfg.Backend.Model)
	model, _ := reader.ReadString('\n')
	model = strings.TrimSpace(model)
	if model != "" {
		if _, ok := config.FindModel(model); !ok {
			return nil, fmt.Errorf("unknown model %q", model)
		}
		cfg.Backend.Model = model
	}

	// API key, read without echo
	fmt.Print("API key (enter to keep current): ")
	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read API key: %w", err)
	}
	key := strings.TrimSpace(string(keyBytes))

	if key != "" {
		fmt.Print("Protect the key with a 4-digit PIN? (y/N): ")
		answer, _ := reader.ReadString('\n')
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Print("PIN (4 digits): ")
			pinBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return nil, fmt.Errorf("failed to read PIN: %w", err)
			}
			if err := cfg.SetSealedAPIKey(key, strings.TrimSpace(string(pinBytes))); err != nil {
				return nil, err
			}
		} else {
			cfg.SetAPIKey(key)
		}
	}

	// Server password
	fmt.Print("Server password for 'exactscribe serve' (enter to skip): ")
	password, _ := reader.ReadString('\n')
	if password = strings.TrimSpace(password); password != "" {
		cfg.Server.Password = password
	}

	return cfg, nil
}
