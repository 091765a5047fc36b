package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("  hunter2\n"), 0o600); err != nil {
		t.Fatalf("writing the secret file: %v", err)
	}

	secret, err := Load(Source{Name: "smtp password", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "hunter2" {
		t.Fatalf("expected the trimmed secret, got %q", secret)
	}
}

func TestLoadFilePrecedesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing the secret file: %v", err)
	}
	t.Setenv("TEST_SECRET", "from-env")

	secret, err := Load(Source{File: path, Env: "TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("expected the file to win, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_SECRET", " from-env ")

	secret, err := Load(Source{Env: "TEST_SECRET", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-env" {
		t.Fatalf("expected the env var to win over the inline value, got %q", secret)
	}
}

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline" {
		t.Fatalf("expected the inline value, got %q", secret)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(Source{Name: "smtp password", File: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "smtp password") {
		t.Fatalf("expected the secret name in the error, got %v", err)
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("writing the secret file: %v", err)
	}

	if _, err := Load(Source{File: path}); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	_, err := Load(Source{Name: "smtp password"})
	if err == nil {
		t.Fatalf("expected an error when no source is set")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("unexpected error: %v", err)
	}
}
