// Package crypto seals provider API keys at rest. Keys stored in the
// config file are encrypted with AES-256-GCM under a key derived from a
// short numeric PIN.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize = 16
	// nonceSize is the AES-GCM standard nonce length.
	nonceSize = 12
	// keySize selects AES-256.
	keySize    = 32
	iterations = 100000
)

var (
	// ErrInvalidPIN is returned when the PIN is not exactly 4 digits.
	ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")

	// ErrUnsealFailed is returned on a wrong PIN or corrupted payload.
	ErrUnsealFailed = errors.New("could not unseal key: wrong PIN or corrupted data")

	// ErrMalformed is returned when the sealed payload is not in the
	// expected encoding.
	ErrMalformed = errors.New("malformed sealed key")

	pinPattern = regexp.MustCompile(`^\d{4}$`)
)

// ValidatePIN checks the 4-digit PIN format.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

func deriveKey(pin string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pin), salt, iterations, keySize, sha256.New)
}

// Seal encrypts an API key under the PIN. The result is base64 over
// salt + nonce + ciphertext, suitable for storing in a YAML config value.
func Seal(secret, pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(pin, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(secret), nil)

	combined := make([]byte, 0, saltSize+nonceSize+len(sealed))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, sealed...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Open decrypts a sealed API key with the PIN.
func Open(sealed, pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}

	combined, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrMalformed
	}
	// The GCM tag alone is 16 bytes, so anything shorter cannot be valid.
	if len(combined) < saltSize+nonceSize+16 {
		return "", ErrMalformed
	}

	salt := combined[:saltSize]
	nonce := combined[saltSize : saltSize+nonceSize]
	ciphertext := combined[saltSize+nonceSize:]

	block, err := aes.NewCipher(deriveKey(pin, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	secret, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrUnsealFailed
	}

	return string(secret), nil
}
