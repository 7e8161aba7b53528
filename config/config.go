package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hostel-analytics/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=text json"`

	HTTPAddr    string `validate:"required"`
	CORSOrigins []string

	MaxConcurrency int `validate:"min=1"`
	MaxRetries     int `validate:"min=1"`

	PropertiesFile string
	Registry       models.PropertyRegistry `validate:"min=1,dive"`

	CSVOutputPath string

	PostgresExport   bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ChromeBin       string
	FetchTimeoutSec int `validate:"min=1"`

	AIProvider   string `validate:"omitempty,oneof=gemini openai"`
	GeminiAPIKey string `validate:"required_if=AIProvider gemini"`
	OpenAIAPIKey string `validate:"required_if=AIProvider openai"`
	AIModel      string
	AIMaxTokens  int `validate:"min=1"`
}

// Load reads the .env file, the property registry and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		PropertiesFile: getEnv("PROPERTIES_FILE", ""),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/weekly_series.csv"),

		PostgresExport:   getEnvBool("POSTGRES_EXPORT", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analytics123"),
		PostgresDB:       getEnv("POSTGRES_DB", "hostel_analytics"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 90),

		AIProvider:   strings.ToLower(getEnv("AI_PROVIDER", "")),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		AIModel:      getEnv("AI_MODEL", ""),
		AIMaxTokens:  getEnvInt("AI_MAX_TOKENS", 1000),
	}

	registry, err := LoadRegistry(cfg.PropertiesFile)
	if err != nil {
		return nil, err
	}
	cfg.Registry = registry

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

// LoadRegistry reads the ordered property list from a yaml/json/toml file:
//
//	properties:
//	  - name: Flamingo
//	    id: "6733"
//
// An empty path yields the built-in registry.
func LoadRegistry(path string) (models.PropertyRegistry, error) {
	if path == "" {
		return models.DefaultRegistry(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read registry %q: %w", path, err)
	}

	var registry models.PropertyRegistry
	if err := v.UnmarshalKey("properties", &registry); err != nil {
		return nil, fmt.Errorf("config: parse registry %q: %w", path, err)
	}
	if len(registry) == 0 {
		return nil, fmt.Errorf("config: registry %q lists no properties", path)
	}
	return registry, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
