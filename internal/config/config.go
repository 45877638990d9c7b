package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Completion CompletionConfig
	Storage    StorageConfig
	Store      StoreConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QdrantConfig configures the candidate index. An empty URL disables it.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	EmbedModel string
}

type CompletionConfig struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Structured bool
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type StoreConfig struct {
	Backend string
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	provider := strings.ToLower(getEnv("COMPLETION_PROVIDER", ProviderOpenAI))

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cv_leaderboard"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_candidates"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			EmbedModel: getEnv("EMBED_MODEL", "text-embedding-004"),
		},
		Completion: CompletionConfig{
			Provider:   provider,
			APIKey:     completionAPIKey(provider),
			BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:      getEnv("COMPLETION_MODEL", defaultModel(provider)),
			Timeout:    getEnvAsDuration("COMPLETION_TIMEOUT", "60s"),
			Structured: getEnvAsBool("COMPLETION_STRUCTURED", true),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./public/uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported completion provider: %q", c.Completion.Provider)
	}

	if c.Completion.APIKey == "" {
		return fmt.Errorf("missing API key for completion provider %q", c.Completion.Provider)
	}

	switch c.Store.Backend {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Store.Backend)
	}

	if c.Qdrant.URL != "" && c.Gemini.APIKey == "" {
		return fmt.Errorf("candidate index needs GEMINI_API_KEY for embeddings")
	}

	return nil
}

// IndexEnabled reports whether the qdrant candidate index is configured.
func (c *Config) IndexEnabled() bool {
	return c.Qdrant.URL != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func completionAPIKey(provider string) string {
	if provider == ProviderGemini {
		return getEnv("GEMINI_API_KEY", "")
	}
	return getEnv("OPENAI_API_KEY", "")
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "gpt-4o"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
