package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"querynotes-be/pkg/llm"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSupabase = "supabase"
	StoreDriverMemory   = "memory"

	EventBusLocal = "local"
	EventBusNats  = "nats"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	StoreDriver        string // "postgres", "supabase" or "memory"
	EventBus           string // "local" or "nats"
	NatsURL            string
	RedisURL           string // empty disables the note cache
	NoteCacheTTL       time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
}

type AuthConfig struct {
	JwtSecret string
}

// AIConfig holds the credentials of the two OpenAI-compatible providers.
// Either key may be empty, not both.
type AIConfig struct {
	SiliconFlowAPIKey  string
	SiliconFlowBaseURL string
	SiliconFlowModel   string

	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string

	// ResponseHeaderTimeout bounds how long a provider may take to start answering.
	ResponseHeaderTimeout time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			StoreDriver:        getEnv("STORE_DRIVER", StoreDriverPostgres),
			EventBus:           getEnv("EVENT_BUS", EventBusLocal),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			NoteCacheTTL:       getEnvAsDuration("NOTE_CACHE_TTL", 30*time.Second),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			SiliconFlowAPIKey:     getEnv("SILICONFLOW_API_KEY", ""),
			SiliconFlowBaseURL:    getEnv("SILICONFLOW_BASE_URL", "https://api.siliconflow.cn/v1"),
			SiliconFlowModel:      getEnv("SILICONFLOW_MODEL", "Pro/deepseek-ai/DeepSeek-V3"),
			DeepSeekAPIKey:        getEnv("DEEPSEEK_API_KEY", ""),
			DeepSeekBaseURL:       getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			DeepSeekModel:         getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			ResponseHeaderTimeout: getEnvAsDuration("AI_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "querynotes-backend"),
		},
	}
}

// Providers lists the provider candidates in preference order.
func (c AIConfig) Providers() []llm.Descriptor {
	return []llm.Descriptor{
		{
			Key:     "siliconflow",
			Name:    "SiliconFlow",
			BaseURL: c.SiliconFlowBaseURL,
			ModelID: c.SiliconFlowModel,
			APIKey:  c.SiliconFlowAPIKey,
		},
		{
			Key:     "deepseek",
			Name:    "DeepSeek Official",
			BaseURL: c.DeepSeekBaseURL,
			ModelID: c.DeepSeekModel,
			APIKey:  c.DeepSeekAPIKey,
		},
	}
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv treats a variable set to an empty string as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds := getEnvAsInt(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
