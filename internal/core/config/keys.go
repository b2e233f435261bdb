package config

import (
	"fmt"
	"os"
	"strings"

	"exactscribe/internal/core/crypto"
)

// sealedPrefix marks an API key stored encrypted. The remainder of the
// value is the base64 payload produced by crypto.Seal.
const sealedPrefix = "sealed:"

// SetAPIKey stores the key in plaintext.
func (c *Config) SetAPIKey(key string) {
	c.Backend.APIKey = key
}

// SetSealedAPIKey seals the key under the PIN before storing it.
func (c *Config) SetSealedAPIKey(key, pin string) error {
	sealed, err := crypto.Seal(key, pin)
	if err != nil {
		return err
	}
	c.Backend.APIKey = sealedPrefix + sealed
	return nil
}

// APIKeySealed reports whether the stored key needs a PIN to use.
func (c *Config) APIKeySealed() bool {
	return strings.HasPrefix(c.Backend.APIKey, sealedPrefix)
}

// envKeys lists the environment variables consulted per provider, in
// order, when no key is configured.
var envKeys = map[string][]string{
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
}

// ResolveAPIKey returns the usable provider key. A sealed key requires the
// PIN; a plain configured key is returned as-is; otherwise the provider's
// environment variables are consulted.
func (c *Config) ResolveAPIKey(pin string) (string, error) {
	key := c.Backend.APIKey

	if strings.HasPrefix(key, sealedPrefix) {
		if pin == "" {
			return "", fmt.Errorf("API key is PIN-protected, a PIN is required")
		}
		return crypto.Open(strings.TrimPrefix(key, sealedPrefix), pin)
	}

	if key != "" {
		return key, nil
	}

	provider := c.Backend.Provider
	if provider == "" {
		provider = "gemini"
	}
	for _, name := range envKeys[provider] {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}

	return "", fmt.Errorf("no API key configured for provider %q", provider)
}
