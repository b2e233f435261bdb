package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"exactscribe/internal/core/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()

		// Never print a stored key, sealed or not.
		if cfg.Backend.APIKey != "" {
			if cfg.APIKeySealed() {
				cfg.Backend.APIKey = "(sealed)"
			} else {
				cfg.Backend.APIKey = "(set)"
			}
		}
		if cfg.Server.Password != "" {
			cfg.Server.Password = "(set)"
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitErr(err)
		}

		color.Cyan("# %s", config.SavePath())
		fmt.Print(string(data))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
