package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Keys          APIKeys
	Ai            AIConfig
	Questionnaire QuestionnaireConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JWTSecret    string
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider        string // "ollama", "huggingface" or "gemini"
	LLMModel           string
	OllamaBaseURL      string
	HuggingFaceBaseURL string
	MaxAttempts        int
	AttemptTimeout     time.Duration
	InitialBackoff     time.Duration
	MaxBackoff         time.Duration
}

type QuestionnaireConfig struct {
	CompletionThreshold float64
	MaxDeferrals        int
	SessionStore        string // "memory" or "redis"
	SessionTTL          time.Duration
	MaxUploadBytes      int
	MaxDocumentChars    int
	ReportTopic         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),
			MaxAttempts:        getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			AttemptTimeout:     getEnvAsDuration("LLM_ATTEMPT_TIMEOUT", 30*time.Second),
			InitialBackoff:     getEnvAsDuration("LLM_INITIAL_BACKOFF", 500*time.Millisecond),
			MaxBackoff:         getEnvAsDuration("LLM_MAX_BACKOFF", 4*time.Second),
		},
		Questionnaire: QuestionnaireConfig{
			CompletionThreshold: getEnvAsFloat("QUESTIONNAIRE_COMPLETION_THRESHOLD", 0.95),
			MaxDeferrals:        getEnvAsInt("QUESTIONNAIRE_MAX_DEFERRALS", 3),
			SessionStore:        getEnv("SESSION_STORE", "memory"),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 0),
			MaxUploadBytes:      getEnvAsInt("QUESTIONNAIRE_MAX_UPLOAD_BYTES", 10*1024*1024),
			MaxDocumentChars:    getEnvAsInt("QUESTIONNAIRE_MAX_DOCUMENT_CHARS", 12000),
			ReportTopic:         getEnv("REPORT_SYNTHESIS_TOPIC", "DISCLOSURE_REPORT_REQUESTED"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s") or bare seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
