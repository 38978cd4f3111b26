package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Scorer providers accepted in SCORER_PROVIDER.
const (
	ScorerNone   = "none"
	ScorerGemini = "gemini"
	ScorerGroq   = "groq"
)

const (
	defaultPort          = "8080"
	defaultAllowedOrigin = "http://127.0.0.1:5500"
)

// Config holds the configuration for the application.
type Config struct {
	Port       string
	ListenAddr string

	NutritionDataPath string
	WorkoutDataPath   string

	AllowedOrigins []string

	// RandomSeed fixes the plan generator's random source when set.
	RandomSeed *uint64

	ScorerProvider string
	GeminiAPIKey   string
	GroqAPIKey     string

	// MetricsDBPath enables execution metrics when non-empty.
	MetricsDBPath string

	EnableTracing        bool
	CollectorServiceAddr string
	EnableProfiler       bool

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	nutritionPath := os.Getenv("NUTRITION_DATA_PATH")
	if nutritionPath == "" {
		return nil, fmt.Errorf("NUTRITION_DATA_PATH environment variable not set")
	}

	workoutPath := os.Getenv("WORKOUT_DATA_PATH")
	if workoutPath == "" {
		return nil, fmt.Errorf("WORKOUT_DATA_PATH environment variable not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{defaultAllowedOrigin}
	}

	var seed *uint64
	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RANDOM_SEED must be a non-negative integer, got %q", raw)
		}
		seed = &v
	}

	provider := strings.ToLower(os.Getenv("SCORER_PROVIDER"))
	if provider == "" {
		provider = ScorerNone
	}
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case ScorerNone:
	case ScorerGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ScorerGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown SCORER_PROVIDER %q", provider)
	}

	enableTracing := os.Getenv("ENABLE_TRACING") == "1"
	collectorAddr := os.Getenv("COLLECTOR_SERVICE_ADDR")
	if enableTracing && collectorAddr == "" {
		return nil, fmt.Errorf("COLLECTOR_SERVICE_ADDR environment variable not set")
	}

	// Telegram Config (Optional for the HTTP API, required for the Bot)
	allowedIDs, err := parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		Port:                   port,
		ListenAddr:             os.Getenv("LISTEN_ADDR"),
		NutritionDataPath:      nutritionPath,
		WorkoutDataPath:        workoutPath,
		AllowedOrigins:         origins,
		RandomSeed:             seed,
		ScorerProvider:         provider,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		MetricsDBPath:          os.Getenv("METRICS_DB_PATH"),
		EnableTracing:          enableTracing,
		CollectorServiceAddr:   collectorAddr,
		EnableProfiler:         os.Getenv("ENABLE_PROFILER") == "1",
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
