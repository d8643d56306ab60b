package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey() unexpected error: %v", err)
	}
	if key != "env-key" {
		t.Errorf("GetAPIKey() = %q, want env-key", key)
	}
}

func TestGetAPIKeyFromFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, credentialDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, credentialFile), []byte("file-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey() unexpected error: %v", err)
	}
	if key != "file-key" {
		t.Errorf("GetAPIKey() = %q, want file-key", key)
	}
}

func TestGetAPIKeyRejectsLooseFilePermissions(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, credentialDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, credentialFile), []byte("leaky-key"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := GetAPIKey(); err == nil {
		t.Error("GetAPIKey() expected error for world-readable credentials")
	}
}

func TestGetAPIKeyMissingEverywhere(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := GetAPIKey()
	if err == nil {
		t.Fatal("GetAPIKey() expected error when no source is configured")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error %v should mention the environment variable", err)
	}
}
