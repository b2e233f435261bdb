package backend

import "fmt"

// New creates a Backend for the configured provider. The apiKey parameter
// is the decrypted key (decryption happens at runtime with the user PIN).
func New(provider, apiKey, baseURL string) (Backend, error) {
	switch provider {
	case "gemini", "":
		return NewGemini(apiKey, baseURL)
	case "openai":
		return NewOpenAI(apiKey, baseURL)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}
