package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application settings.
type Config struct {
	DBPath string
	Port   string

	// APITokens maps bearer tokens to owner ids. Every request runs as the
	// owner its token resolves to.
	APITokens map[string]string

	AIEnabled  bool
	AIAPIKey   string
	AIEndpoint string
	AIModel    string

	EnableAsyncEnrich bool
	EnrichWorkerCount int

	ScrapeTimeoutSeconds int

	RateLimitEnabled bool
	RateLimitPerIP   int
	RateLimitBurst   int
}

// Load reads settings from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:               parseDBPath(getEnv("DATABASE_URL", "linkvault.db")),
		Port:                 getEnv("PORT", "8080"),
		APITokens:            parseAPITokens(getEnv("API_TOKENS", "")),
		AIEnabled:            getEnvBool("AI_ENABLED", false),
		AIAPIKey:             getEnv("AI_API_KEY", ""),
		AIEndpoint:           getEnv("AI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		AIModel:              getEnv("AI_MODEL", "gpt-3.5-turbo"),
		EnableAsyncEnrich:    getEnvBool("ENABLE_ASYNC_ENRICH", true),
		EnrichWorkerCount:    getEnvInt("ENRICH_WORKER_COUNT", 5),
		ScrapeTimeoutSeconds: getEnvInt("SCRAPE_TIMEOUT_SECONDS", 5),
		RateLimitEnabled:     getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerIP:       getEnvInt("RATE_LIMIT_PER_IP", 60),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 10),
	}

	// Single-token compatibility: API_TOKEN=<token> runs as owner "default"
	if len(cfg.APITokens) == 0 {
		if token := getEnv("API_TOKEN", ""); token != "" {
			cfg.APITokens = map[string]string{token: "default"}
		}
	}

	return cfg, nil
}

// Validate reports configuration problems before startup.
func (c *Config) Validate() error {
	if len(c.APITokens) == 0 {
		return fmt.Errorf("no API tokens configured: set API_TOKENS (token=owner,...) or API_TOKEN")
	}

	if c.AIEnabled && c.AIAPIKey == "" {
		return fmt.Errorf("AI is enabled but AI_API_KEY is not set")
	}

	if c.AIEnabled && (strings.Contains(c.AIEndpoint, "localhost") ||
		strings.Contains(c.AIEndpoint, "127.0.0.1") ||
		strings.Contains(c.AIEndpoint, "[::1]")) {
		fmt.Println("⚠️  warning: AI_ENDPOINT points at a local address, requests may loop")
		fmt.Printf("   current value: %s\n", c.AIEndpoint)
	}

	if c.RateLimitPerIP <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_IP must be greater than 0")
	}

	if c.ScrapeTimeoutSeconds <= 0 {
		return fmt.Errorf("SCRAPE_TIMEOUT_SECONDS must be greater than 0")
	}

	return nil
}

// parseAPITokens parses "token=owner,token=owner" pairs.
func parseAPITokens(raw string) map[string]string {
	tokens := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, owner, found := strings.Cut(pair, "=")
		if !found || token == "" || owner == "" {
			continue
		}
		tokens[token] = owner
	}
	return tokens
}

// parseDBPath strips a sqlite:/// prefix when DATABASE_URL uses one.
func parseDBPath(dbURL string) string {
	return strings.TrimPrefix(dbURL, "sqlite:///")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}
