// Package auth resolves the shared secret the proxy injects into upstream calls.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeySource identifies where the API key was resolved from.
type KeySource string

const (
	// KeySourceEnv is PROXY_API_KEY.
	KeySourceEnv KeySource = "proxy_api_key"
	// KeySourceFile is the proxy.api_key field of a YAML key file.
	KeySourceFile KeySource = "key_file"
	// KeySourceDevDefault is the built-in dev-mode key.
	KeySourceDevDefault KeySource = "dev_default"
)

// KeyResolution contains the resolved key and its source.
type KeyResolution struct {
	Key    string
	Source KeySource
}

// KeySourceOptions controls key resolution.
type KeySourceOptions struct {
	KeyFile    string
	DevDefault string
}

type keyFile struct {
	Proxy struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"proxy"`
}

// ResolveKey resolves the API key using deterministic precedence:
// 1) PROXY_API_KEY
// 2) proxy.api_key in KeyFile, when set
// 3) DevDefault, when set
//
// An unresolved key is not an error; the proxy reports it per request.
func ResolveKey(opts KeySourceOptions) (KeyResolution, error) {
	if key := strings.TrimSpace(os.Getenv("PROXY_API_KEY")); key != "" {
		return KeyResolution{Key: key, Source: KeySourceEnv}, nil
	}

	if path := strings.TrimSpace(opts.KeyFile); path != "" {
		key, err := readKeyFile(expandPath(path))
		if err != nil {
			return KeyResolution{}, err
		}
		if key != "" {
			return KeyResolution{Key: key, Source: KeySourceFile}, nil
		}
	}

	if key := strings.TrimSpace(opts.DevDefault); key != "" {
		return KeyResolution{Key: key, Source: KeySourceDevDefault}, nil
	}

	return KeyResolution{}, nil
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("reading key file: %w", err)
	}

	var f keyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("decoding key file: %w", err)
	}
	return strings.TrimSpace(f.Proxy.APIKey), nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return filepath.Clean(path)
}
