package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_STORE", "https://example.myshopify.com/")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("GEMINI_API_KEY", "gem-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.myshopify.com", cfg.ShopifyStore)
	assert.Equal(t, "2025-07", cfg.ShopifyAPIVersion)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, ClassifierGenerative, cfg.ClassifierMode)
	assert.Equal(t, SearchGraphQL, cfg.CatalogSearchMode)
	assert.Equal(t, ProductReplyGenerate, cfg.ProductReplyMode)
	assert.Empty(t, cfg.ChatLogDB)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SHOPIFY_API_VERSION", "2024-10")
	t.Setenv("CLASSIFIER_MODE", "RULES")
	t.Setenv("PRODUCT_REPLY_MODE", "template")
	t.Setenv("CATALOG_SEARCH_MODE", "substring")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2024-10", cfg.ShopifyAPIVersion)
	assert.Equal(t, ClassifierRules, cfg.ClassifierMode)
	assert.Equal(t, ProductReplyTemplate, cfg.ProductReplyMode)
	assert.Equal(t, SearchSubstring, cfg.CatalogSearchMode)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SHOPIFY_STORE", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPIFY_STORE")
	assert.Contains(t, err.Error(), "SHOPIFY_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidate_InvalidModes(t *testing.T) {
	cfg := &Config{
		ShopifyStore:       "https://example.myshopify.com",
		ShopifyAccessToken: "tok",
		GeminiAPIKey:       "key",
		ClassifierMode:     "psychic",
		CatalogSearchMode:  SearchGraphQL,
		ProductReplyMode:   ProductReplyGenerate,
		LogFormat:          "json",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSIFIER_MODE")
}

func TestValidate_StoreMustBeURL(t *testing.T) {
	cfg := &Config{
		ShopifyStore:       "example.myshopify.com",
		ShopifyAccessToken: "tok",
		GeminiAPIKey:       "key",
		ClassifierMode:     ClassifierRules,
		CatalogSearchMode:  SearchGraphQL,
		ProductReplyMode:   ProductReplyTemplate,
		LogFormat:          "console",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http(s) URL")
}
