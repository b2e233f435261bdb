// Package config loads and persists the exactscribe configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "exactscribe"
)

// ConfigDir returns the standard config directory.
// Windows: %APPDATA%\exactscribe\
// macOS/Linux: ~/.config/exactscribe/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/exactscribe/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Server configuration for `exactscribe serve`
	Server ServerConfig `yaml:"server,omitempty"`

	// Backend selects and configures the transcription provider
	Backend BackendConfig `yaml:"backend,omitempty"`

	// Chunking controls the large-file pipeline
	Chunking ChunkingConfig `yaml:"chunking,omitempty"`

	// Limits bounds what uploads are accepted
	Limits LimitsConfig `yaml:"limits,omitempty"`

	// OutputDir is where transcripts are written by the CLI
	OutputDir string `yaml:"output_dir,omitempty"`
}

// ServerConfig holds HTTP server settings for `exactscribe serve`
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port,omitempty"`

	// Password gates the API (optional; if set all requests must carry it)
	Password string `yaml:"password,omitempty"`

	// MaxConcurrent is the max number of transcription jobs processed at
	// once (default: 2)
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// BackendConfig selects the transcription provider
type BackendConfig struct {
	// Provider is "gemini" or "openai" (default: "gemini")
	Provider string `yaml:"provider,omitempty"`

	// Model is the default model identifier
	Model string `yaml:"model,omitempty"`

	// APIKey is the provider key. Stored either plain or sealed with a PIN
	// (see the "sealed:" prefix handling in keys.go).
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (mainly for testing)
	BaseURL string `yaml:"base_url,omitempty"`
}

// ChunkingConfig controls how large files are split and dispatched
type ChunkingConfig struct {
	// DurationMS is the chunk length in milliseconds (default: 120000)
	DurationMS int `yaml:"duration_ms,omitempty"`

	// Workers is the parallel transcription pool width (default: 5)
	Workers int `yaml:"workers,omitempty"`

	// MinSuccessRatio is the fraction of chunks that must succeed before
	// falling back to a whole-file call (default: 0.8)
	MinSuccessRatio float64 `yaml:"min_success_ratio,omitempty"`

	// LargeFileThresholdMB routes files above this size into the chunked
	// pipeline (default: 20)
	LargeFileThresholdMB float64 `yaml:"large_file_threshold_mb,omitempty"`
}

// LimitsConfig bounds accepted uploads
type LimitsConfig struct {
	// MaxFileSizeMB rejects uploads above this size (default: 500)
	MaxFileSizeMB float64 `yaml:"max_file_size_mb,omitempty"`
}

// ChunkDuration returns the configured chunk length as a time.Duration.
func (c *Config) ChunkDuration() time.Duration {
	return time.Duration(c.Chunking.DurationMS) * time.Millisecond
}

// DefaultOutputDir returns where CLI transcripts land when unconfigured.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents", "transcripts")
}

// DefaultConfig returns a config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			MaxConcurrent: 2,
		},
		Backend: BackendConfig{
			Provider: "gemini",
			Model:    DefaultModel().ID,
		},
		Chunking: ChunkingConfig{
			DurationMS:           120000,
			Workers:              5,
			MinSuccessRatio:      0.8,
			LargeFileThresholdMB: 20,
		},
		Limits: LimitsConfig{
			MaxFileSizeMB: 500,
		},
		OutputDir: DefaultOutputDir(),
	}
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/exactscribe/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.OutputDir = expandPath(cfg.OutputDir)

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes so config files written on
// one platform keep working on another.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/exactscribe/config.yml. The file is
// created owner-only because it may hold an API key.
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# exactscribe configuration file\n# Run 'exactscribe init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0o600)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return "config.yml"
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	return cfg
}
