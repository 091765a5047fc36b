package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret value comes from. Resolution order is
// File, then Env, then Value; the first source that yields a non-empty
// secret wins.
type Source struct {
	// Name gives error messages context about which secret failed.
	Name string
	// File points to a file holding the secret.
	File string
	// Env names an environment variable holding the secret.
	Env string
	// Value is an inline secret from configuration or flags.
	Value string
}

// Load resolves the secret, always trimmed. An error is returned when no
// source yields a usable value.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
