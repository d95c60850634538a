package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// File-backed stores
	DataDir          string
	QuestionBankFile string
	ResponsesFile    string
	ScoreLogFile     string

	// Session engine
	PenaltyRate            float64
	DefaultDurationSeconds int

	// Cache
	RedisURL string
	CacheTTL time.Duration

	// HTTP
	AllowedOrigins string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DataDir:          getEnv("DATA_DIR", "data"),
		QuestionBankFile: getEnv("QUESTION_BANK_FILE", "questions.xlsx"),
		ResponsesFile:    getEnv("RESPONSES_FILE", "responses.xlsx"),
		ScoreLogFile:     getEnv("SCORE_LOG_FILE", "scores.txt"),

		PenaltyRate:            getEnvFloat("PENALTY_RATE", 0.33),
		DefaultDurationSeconds: getEnvInt("DEFAULT_DURATION_SECONDS", 1800),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		Events: EventConfig{
			Enabled:      getEnv("EVENTS_ENABLED", "true") == "true",
			Publisher:    getEnv("EVENTS_PUBLISHER", "channel"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:        getEnv("SUBMISSION_TOPIC", "quiz.submissions"),
		},
	}, nil
}

// QuestionBankPath returns the question bank location under the data dir.
func (c *Config) QuestionBankPath() string {
	return filepath.Join(c.DataDir, c.QuestionBankFile)
}

// ResponsesPath returns the responses workbook location under the data dir.
func (c *Config) ResponsesPath() string {
	return filepath.Join(c.DataDir, c.ResponsesFile)
}

// ScoreLogPath returns the score log location under the data dir.
func (c *Config) ScoreLogPath() string {
	return filepath.Join(c.DataDir, c.ScoreLogFile)
}

// GetAllowedOrigins returns the configured CORS origins as a slice.
func (c *Config) GetAllowedOrigins() []string {
	return strings.Split(c.AllowedOrigins, ",")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
