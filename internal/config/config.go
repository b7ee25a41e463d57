package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	DBPath            string
	PortfolioDataPath string

	NotebookDir          string
	NotebookFetchTimeout time.Duration
	ViewerIdleTTL        time.Duration

	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	LLMBaseURL      string
	LLMModelName    string
	LLMAPIKey       string
	ChatMaxTokens   int
	ChatTemperature float64

	GitHubAPIURL   string
	GitHubRawURL   string
	GitHubToken    string
	GitHubUsername string

	// QdrantURL is empty when retrieval is disabled.
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	EmbeddingBaseURL   string
	EmbeddingModelName string
	RetrievalK         int
}

// RetrievalEnabled reports whether a vector store is configured.
func (c *Config) RetrievalEnabled() bool {
	return c.QdrantURL != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// A .env file in the current directory or up to five parents is loaded first;
// environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:           getEnv("API_PORT", "9000"),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", LogFormatText)),
		DBPath:            getEnv("DB_PATH", "./data/portfolio.db"),
		PortfolioDataPath: getEnv("PORTFOLIO_DATA_PATH", ""),
		NotebookDir:       getEnv("NOTEBOOK_DIR", "./public"),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName: getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:    getEnv("LLM_API_KEY", "dummy-key"),

		GitHubAPIURL:   getEnv("GITHUB_API_URL", "https://api.github.com"),
		GitHubRawURL:   getEnv("GITHUB_RAW_URL", "https://raw.githubusercontent.com"),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubUsername: getEnv("GITHUB_USERNAME", ""),

		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "portfolio"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, cfg.LogFormat)
	}

	if cfg.NotebookFetchTimeout, err = getDuration("NOTEBOOK_FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ViewerIdleTTL, err = getDuration("VIEWER_IDLE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ViewerIdleTTL <= 0 {
		return nil, fmt.Errorf("VIEWER_IDLE_TTL must be greater than 0")
	}

	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER is %q", ProviderGemini)
		}
	case ProviderOpenAI:
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.LLMProvider)
	}

	if cfg.ChatMaxTokens, err = getInt("CHAT_MAX_OUTPUT_TOKENS", 300); err != nil {
		return nil, err
	}
	if cfg.ChatMaxTokens <= 0 {
		return nil, fmt.Errorf("CHAT_MAX_OUTPUT_TOKENS must be greater than 0")
	}
	temperature := getEnv("CHAT_TEMPERATURE", "0.7")
	if cfg.ChatTemperature, err = strconv.ParseFloat(temperature, 64); err != nil {
		return nil, fmt.Errorf("CHAT_TEMPERATURE must be a valid number: %w", err)
	}
	if cfg.ChatTemperature < 0 || cfg.ChatTemperature > 2 {
		return nil, fmt.Errorf("CHAT_TEMPERATURE must be between 0 and 2")
	}

	if cfg.RetrievalK, err = getInt("RETRIEVAL_K", 4); err != nil {
		return nil, err
	}
	if cfg.RetrievalK < 1 || cfg.RetrievalK > 20 {
		return nil, fmt.Errorf("RETRIEVAL_K must be between 1 and 20")
	}

	// The vector size must match the output size of the embeddings model.
	// Changing it requires recreating the Qdrant collection.
	if cfg.RetrievalEnabled() {
		vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
		if vectorSizeStr == "" {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when QDRANT_URL is set")
		}
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i <= 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

func getInt(key string, defaultValue int) (int, error) {
	s := getEnv(key, "")
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := getEnv(key, "")
	if s == "" {
		return defaultValue, nil
	}
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
