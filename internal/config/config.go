package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tooling-spend-tracker/internal/provider"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	LogLevel       string
	AllowedOrigins []string
	Provider       provider.Config
	Policy         Policy
}

// Load reads envFile when present (missing files are not an error), then the
// process environment, then the policy file named by policyFile or POLICY_FILE.
func Load(envFile, policyFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	pageSize, err := intEnv("PROVIDER_PAGE_SIZE", provider.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	timeout, err := durationEnv("PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: listEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),
		Provider: provider.Config{
			BaseURL:      getEnv("PROVIDER_BASE_URL", provider.DefaultBaseURL),
			TokenURL:     getEnv("PROVIDER_TOKEN_URL", provider.DefaultTokenURL),
			ClientID:     os.Getenv("PROVIDER_CLIENT_ID"),
			ClientSecret: os.Getenv("PROVIDER_CLIENT_SECRET"),
			Scopes:       listEnv("PROVIDER_SCOPES", []string{"transactions:read"}),
			PageSize:     pageSize,
			Timeout:      timeout,
		},
		Policy: DefaultPolicy(),
	}

	if policyFile == "" {
		policyFile = os.Getenv("POLICY_FILE")
	}
	if policyFile != "" {
		p, err := LoadPolicy(policyFile)
		if err != nil {
			return nil, err
		}
		cfg.Policy = *p
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
