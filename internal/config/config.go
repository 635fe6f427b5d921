package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ClassifierGenerative = "generative"
	ClassifierRules      = "rules"

	SearchGraphQL   = "graphql"
	SearchSubstring = "substring"

	ProductReplyGenerate = "generate"
	ProductReplyTemplate = "template"
)

type Config struct {
	ShopifyStore       string
	ShopifyAccessToken string
	ShopifyAPIVersion  string
	GeminiAPIKey       string
	GeminiModel        string
	HTTPPort           string
	LogLevel           string
	LogFormat          string
	ClassifierMode     string
	CatalogSearchMode  string
	ProductReplyMode   string
	ChatLogDB          string
}

// Load reads a .env file when present and builds the configuration from the
// environment. The returned config has been validated.
func Load() (*Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		ShopifyStore:       strings.TrimRight(getEnv("SHOPIFY_STORE", ""), "/"),
		ShopifyAccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2025-07"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
		ClassifierMode:     strings.ToLower(getEnv("CLASSIFIER_MODE", ClassifierGenerative)),
		CatalogSearchMode:  strings.ToLower(getEnv("CATALOG_SEARCH_MODE", SearchGraphQL)),
		ProductReplyMode:   strings.ToLower(getEnv("PRODUCT_REPLY_MODE", ProductReplyGenerate)),
		ChatLogDB:          getEnv("CHAT_LOG_DB", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or invalid setting in a single error.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"SHOPIFY_STORE", c.ShopifyStore},
		{"SHOPIFY_ACCESS_TOKEN", c.ShopifyAccessToken},
		{"GEMINI_API_KEY", c.GeminiAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s environment variable is required", r.key))
		}
	}

	if c.ShopifyStore != "" && !strings.HasPrefix(c.ShopifyStore, "http://") && !strings.HasPrefix(c.ShopifyStore, "https://") {
		errs = append(errs, fmt.Errorf("SHOPIFY_STORE must be an http(s) URL, got %q", c.ShopifyStore))
	}

	errs = append(errs,
		oneOf("CLASSIFIER_MODE", c.ClassifierMode, ClassifierGenerative, ClassifierRules),
		oneOf("CATALOG_SEARCH_MODE", c.CatalogSearchMode, SearchGraphQL, SearchSubstring),
		oneOf("PRODUCT_REPLY_MODE", c.ProductReplyMode, ProductReplyGenerate, ProductReplyTemplate),
		oneOf("LOG_FORMAT", c.LogFormat, "json", "console"),
	)

	return errors.Join(errs...)
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
