// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like LLM_OPENAI_API_KEY.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.production.yaml.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "scriptforge")
	viper.SetDefault("app.version", "1.0.0")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 15000)

	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.database", "scriptforge")
	viper.SetDefault("database.postgres.user", "scriptforge")
	viper.SetDefault("database.postgres.max_connections", 20)
	viper.SetDefault("database.postgres.max_idle", 5)
	viper.SetDefault("database.postgres.sslmode", "disable")

	viper.SetDefault("database.redis.address", "localhost:6379")
	viper.SetDefault("database.redis.db", 0)

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.openai.model", "gpt-4o")
	viper.SetDefault("llm.groq.model", "llama-3.3-70b-versatile")
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", 90000)

	viper.SetDefault("search.enabled", false)
	viper.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	viper.SetDefault("search.timeout", 10000)

	viper.SetDefault("analytics.cache_ttl", 60)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// loadEnvFile loads .env from a few likely locations so that running from
// the repo root and from cmd/scriptforge both work.
func loadEnvFile() {
	candidates := []string{".env", "../.env", "../../.env"}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			_ = godotenv.Load(c)
			return
		}
	}
	if wd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(wd, ".env"))
	}
}
