package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"podcastcrm/internal/pkg/i18n"
)

const (
	defaultPort            = "8080"
	defaultLocalStorePath  = "podcast_local.db"
	defaultLLMProvider     = "gemini"
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultJWTAccessTTL    = "12h"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultCatalogRefresh  = "@every 15m"
	defaultWidgetSweep     = "@every 5m"
	defaultWidgetIdleTTL   = "2h"
	defaultAdminEmail      = "admin@example.com"
	defaultDefaultLanguage = i18n.Czech
)

// Config is the runtime configuration, read from the environment
// (and an optional .env file).
type Config struct {
	AppEnv string
	Port   string

	// DatabaseURL points at the remote lead store. Empty means the
	// remote store is not configured and the local store is used.
	DatabaseURL    string
	LocalStorePath string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIBase   string

	JWTSecret         string
	JWTAccessTTL      time.Duration
	AdminEmail        string
	AdminPasswordHash string

	DefaultLanguage    string
	BrandConfigPath    string
	CatalogRefresh     string
	WidgetSweep        string
	WidgetIdleTTL      time.Duration
	CORSAllowedOrigins []string
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.LocalStorePath = strings.TrimSpace(getEnv("LOCAL_STORE_PATH", defaultLocalStorePath))

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", defaultLLMProvider)))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.GeminiModel = strings.TrimSpace(getEnv("GEMINI_MODEL", defaultGeminiModel))
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIModel = strings.TrimSpace(getEnv("OPENAI_MODEL", defaultOpenAIModel))
	cfg.OpenAIBase = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail)))
	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.WidgetIdleTTL, err = parseDurationEnv("WIDGET_IDLE_TTL", defaultWidgetIdleTTL)
	if err != nil {
		return nil, err
	}

	cfg.DefaultLanguage = i18n.Normalize(getEnv("DEFAULT_LANGUAGE", defaultDefaultLanguage))
	cfg.BrandConfigPath = strings.TrimSpace(os.Getenv("BRAND_CONFIG"))
	cfg.CatalogRefresh = strings.TrimSpace(getEnv("CATALOG_REFRESH", defaultCatalogRefresh))
	cfg.WidgetSweep = strings.TrimSpace(getEnv("WIDGET_SWEEP", defaultWidgetSweep))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config: env=%s remote_store=%t llm=%s language=%s", cfg.AppEnv, cfg.RemoteConfigured(), cfg.LLMProvider, cfg.DefaultLanguage)

	return cfg, nil
}

// RemoteConfigured reports whether remote lead store credentials are present.
func (c *Config) RemoteConfigured() bool {
	return c.DatabaseURL != ""
}

// LLMAPIKey returns the credential of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.LocalStorePath == "" {
		return fmt.Errorf("LOCAL_STORE_PATH must not be empty")
	}
	if cfg.LLMProvider != "gemini" && cfg.LLMProvider != "openai" {
		return fmt.Errorf("LLM_PROVIDER must be one of: gemini, openai")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.WidgetIdleTTL <= 0 {
		return fmt.Errorf("WIDGET_IDLE_TTL must be > 0")
	}
	if cfg.CatalogRefresh == "" || cfg.WidgetSweep == "" {
		return fmt.Errorf("CATALOG_REFRESH and WIDGET_SWEEP must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.AdminPasswordHash == "" {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD_HASH must be set")
		}
		if cfg.LLMAPIKey() == "" {
			return fmt.Errorf("in prod/release the %s API key must be set", cfg.LLMProvider)
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
