// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	ReadTimeout int    `mapstructure:"read_timeout"` // milliseconds
}

// Addr returns the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig selects the provider and carries per-provider credentials.
// The provider is chosen once at service construction and injected into
// both agents; nothing re-reads this at call time.
type LLMConfig struct {
	Provider  string       `mapstructure:"provider"` // "openai" or "groq"
	OpenAI    OpenAIConfig `mapstructure:"openai"`
	Groq      GroqConfig   `mapstructure:"groq"`
	MaxTokens int          `mapstructure:"max_tokens"`
	Timeout   int          `mapstructure:"timeout"` // milliseconds, per provider call
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GroqConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SearchConfig drives the web-search research variant. When disabled the
// research agent relies purely on model knowledge.
type SearchConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type AnalyticsConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // seconds
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate checks that the selected provider has credentials.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("llm.openai.api_key is required when using the openai provider")
		}
	case "groq":
		if c.LLM.Groq.APIKey == "" {
			return fmt.Errorf("llm.groq.api_key is required when using the groq provider")
		}
	default:
		return fmt.Errorf("llm.provider must be 'openai' or 'groq', got %q", c.LLM.Provider)
	}

	if c.Search.Enabled && c.Search.APIKey == "" {
		return fmt.Errorf("search.api_key is required when search is enabled")
	}
	return nil
}
