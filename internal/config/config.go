// Package config loads vibedex configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr      = ":5174"
	defaultEnvFile         = ".env"
	defaultCatalogURL      = "https://pokeapi.co/api/v2"
	defaultProxyURL        = "http://localhost:5174"
	defaultPageSize        = 20
	defaultDetailCacheSize = 256
	defaultDemoPath        = "/__demo/protected"

	// DevAPIKey is the shared secret used when dev mode is on and no key is configured.
	DevAPIKey = "demo-key"
)

// Config holds proxy service configuration.
type Config struct {
	ListenAddr string
	LogLevel   string

	// UpstreamBaseURL is the API the proxy forwards to (PROXY_API_BASE_URL).
	UpstreamBaseURL string
	// KeyFile is an optional YAML file holding proxy.api_key.
	KeyFile string

	OTelEndpoint   string
	MetricsEnabled bool
	TracesEnabled  bool
	DevMode        bool
}

// BrowserConfig holds catalog browser configuration.
type BrowserConfig struct {
	CatalogURL      string
	ProxyURL        string
	PageSize        int
	DetailCacheSize int
	DemoPath        string
	DemoQuery       string
	LogLevel        string
	LogFile         string
	OTelEndpoint    string
	TracesEnabled   bool
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error and
// reports false.
func LoadDotEnv(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		path = envOrDefault("VIBEDEX_ENV_FILE", defaultEnvFile)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return true, nil
}

// Load returns proxy configuration parsed from environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:      envOrDefault("VIBEDEX_LISTEN_ADDR", defaultListenAddr),
		LogLevel:        strings.ToLower(strings.TrimSpace(envOrDefault("VIBEDEX_LOG_LEVEL", "info"))),
		UpstreamBaseURL: strings.TrimSpace(os.Getenv("PROXY_API_BASE_URL")),
		KeyFile:         strings.TrimSpace(os.Getenv("VIBEDEX_KEY_FILE")),
		OTelEndpoint:    strings.TrimSpace(os.Getenv("VIBEDEX_OTEL_ENDPOINT")),
		MetricsEnabled:  envBool("VIBEDEX_METRICS_ENABLED", true),
		TracesEnabled:   envBool("VIBEDEX_TRACES_ENABLED", false),
		DevMode:         envBool("VIBEDEX_DEV_MODE", false),
	}

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TracesEnabled && cfg.OTelEndpoint == "" {
		return Config{}, fmt.Errorf("VIBEDEX_OTEL_ENDPOINT is required when VIBEDEX_TRACES_ENABLED is set")
	}

	// Dev mode proxies to itself so the demo protected route is reachable
	// without any upstream.
	if cfg.DevMode && cfg.UpstreamBaseURL == "" {
		cfg.UpstreamBaseURL = selfURL(cfg.ListenAddr)
	}

	return cfg, nil
}

// LoadBrowser returns catalog browser configuration parsed from environment
// variables.
func LoadBrowser() (BrowserConfig, error) {
	cfg := BrowserConfig{
		CatalogURL:      envOrDefault("VIBEDEX_CATALOG_URL", defaultCatalogURL),
		ProxyURL:        envOrDefault("VIBEDEX_PROXY_URL", defaultProxyURL),
		PageSize:        envPositiveInt("VIBEDEX_PAGE_SIZE", defaultPageSize),
		DetailCacheSize: envPositiveInt("VIBEDEX_DETAIL_CACHE_SIZE", defaultDetailCacheSize),
		DemoPath:        envOrDefault("VIBEDEX_DEMO_PATH", defaultDemoPath),
		DemoQuery:       os.Getenv("VIBEDEX_DEMO_QUERY"),
		LogLevel:        strings.ToLower(strings.TrimSpace(envOrDefault("VIBEDEX_LOG_LEVEL", "info"))),
		LogFile:         strings.TrimSpace(os.Getenv("VIBEDEX_LOG_FILE")),
		OTelEndpoint:    strings.TrimSpace(os.Getenv("VIBEDEX_OTEL_ENDPOINT")),
		TracesEnabled:   envBool("VIBEDEX_TRACES_ENABLED", false),
	}

	if !strings.HasPrefix(cfg.ProxyURL, "http://") && !strings.HasPrefix(cfg.ProxyURL, "https://") {
		return BrowserConfig{}, fmt.Errorf("invalid VIBEDEX_PROXY_URL %q (must be http or https)", cfg.ProxyURL)
	}
	if !strings.HasPrefix(cfg.CatalogURL, "http://") && !strings.HasPrefix(cfg.CatalogURL, "https://") {
		return BrowserConfig{}, fmt.Errorf("invalid VIBEDEX_CATALOG_URL %q (must be http or https)", cfg.CatalogURL)
	}

	return cfg, nil
}

func selfURL(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		switch strings.ToLower(value) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		default:
			return defaultVal
		}
	}
	return parsed
}

func envPositiveInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return defaultVal
	}
	return parsed
}
