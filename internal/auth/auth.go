// Package auth resolves the Gemini API key used by every capability call.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".studio-cli"
	credentialFile = "credentials"
)

// GetAPIKey retrieves the Gemini API key from available sources.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. Plaintext file at ~/.studio-cli/credentials (owner-only permissions required)
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := getFromFile()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from credentials file")
		return key, nil
	}

	log.Error().Err(err).Msg("Failed to retrieve API key")
	return "", fmt.Errorf("API key not found. Set GEMINI_API_KEY or write it to ~/%s/%s", credentialDir, credentialFile)
}

// getFromFile reads the API key from the credentials file, enforcing
// owner-only permissions so a world-readable key is never silently used.
func getFromFile() (string, error) {
	credPath, err := CredentialPath()
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(credPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("credentials file not found at %s", credPath)
		}
		return "", fmt.Errorf("failed to stat credentials file: %w", err)
	}

	if mode := fi.Mode().Perm(); mode&0077 != 0 {
		return "", fmt.Errorf("credentials file %s has permissions %o; run chmod 600 on it", credPath, mode)
	}

	data, err := os.ReadFile(credPath)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("credentials file %s is empty", credPath)
	}
	return key, nil
}

// CredentialPath returns the expected location of the credentials file.
func CredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, credentialFile), nil
}
