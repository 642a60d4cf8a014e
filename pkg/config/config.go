package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// CORS
	CORSAllowedOrigins []string

	// Language-model service
	OpenAIAPIKey  string
	OpenAIModel   string
	ChatMaxTokens int

	// Recurring-payment detection heuristics. These are tunable rather than
	// hard-coded: the thresholds have no derivation beyond observed behavior.
	RecurringMinOccurrences      int
	RecurringMaxDistinctAmounts  int
	RecurringConfidenceThreshold float64

	// Rate limit applied to the LLM-backed endpoints, in limiter format
	// (e.g. "10-M" for 10 requests per minute per IP).
	AnalysisRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("CHAT_MAX_TOKENS", 500)
	viper.SetDefault("RECURRING_MIN_OCCURRENCES", 2)
	viper.SetDefault("RECURRING_MAX_DISTINCT_AMOUNTS", 2)
	viper.SetDefault("RECURRING_CONFIDENCE_THRESHOLD", 0.7)
	viper.SetDefault("ANALYSIS_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	cfg.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	cfg.OpenAIModel = viper.GetString("OPENAI_MODEL")

	cfg.ChatMaxTokens = viper.GetInt("CHAT_MAX_TOKENS")
	if cfg.ChatMaxTokens <= 0 {
		cfg.ChatMaxTokens = 500
	}

	cfg.RecurringMinOccurrences = viper.GetInt("RECURRING_MIN_OCCURRENCES")
	if cfg.RecurringMinOccurrences < 2 {
		log.Printf("Warning: RECURRING_MIN_OCCURRENCES below 2 makes every label a candidate. Defaulting to 2.\n")
		cfg.RecurringMinOccurrences = 2
	}

	cfg.RecurringMaxDistinctAmounts = viper.GetInt("RECURRING_MAX_DISTINCT_AMOUNTS")
	if cfg.RecurringMaxDistinctAmounts < 1 {
		cfg.RecurringMaxDistinctAmounts = 2
	}

	cfg.RecurringConfidenceThreshold = viper.GetFloat64("RECURRING_CONFIDENCE_THRESHOLD")
	if cfg.RecurringConfidenceThreshold <= 0 || cfg.RecurringConfidenceThreshold >= 1 {
		cfg.RecurringConfidenceThreshold = 0.7
	}

	cfg.AnalysisRateLimit = viper.GetString("ANALYSIS_RATE_LIMIT")

	return cfg, nil
}
