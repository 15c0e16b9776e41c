package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultSourceTimeoutSeconds bounds each upstream data-source call.
	DefaultSourceTimeoutSeconds = 30

	// DefaultUserAgent identifies Chronos to upstream registries.
	DefaultUserAgent = "Chronos/0.1.0 Corporate Entity Research Tool"
)

// Config holds all configuration for chronos.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the portfolio registry's SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// GraphConfig holds the relationship graph's local persistence settings.
type GraphConfig struct {
	Path string `mapstructure:"path"`
}

// Neo4jConfig holds optional Neo4j graph persistence settings. The store
// is used only when URI is set.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// String returns a safe representation with the password masked.
func (c Neo4jConfig) String() string {
	masked := ""
	if c.Password != "" {
		masked = "***"
	}
	return fmt.Sprintf("Neo4jConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		c.URI, c.Username, masked, c.Database)
}

// SourcesConfig holds upstream data-source settings.
type SourcesConfig struct {
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	UserAgent       string `mapstructure:"user_agent"`
	CobaltBaseURL   string `mapstructure:"cobalt_base_url"`
	CobaltAPIKey    string `mapstructure:"cobalt_api_key"`
	EdgarBaseURL    string `mapstructure:"edgar_base_url"`
	EdgarAppName    string `mapstructure:"edgar_app_name"`
	EdgarContact    string `mapstructure:"edgar_contact"`
	DelawareFixture string `mapstructure:"delaware_fixture"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("database.path", filepath.Join(homeDir(), ".chronos", "chronos.db"))

	v.SetDefault("api.listen_addr", ":8000")
	v.SetDefault("api.auth_token", "")

	v.SetDefault("graph.path", filepath.Join(homeDir(), ".chronos", "graph.json"))

	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")

	v.SetDefault("sources.timeout_seconds", DefaultSourceTimeoutSeconds)
	v.SetDefault("sources.user_agent", DefaultUserAgent)
	v.SetDefault("sources.cobalt_base_url", "https://apigateway.cobaltintelligence.com/v1")
	v.SetDefault("sources.cobalt_api_key", "")
	v.SetDefault("sources.edgar_base_url", "https://efts.sec.gov/LATEST")
	v.SetDefault("sources.edgar_app_name", "ChronosBot/0.1")
	v.SetDefault("sources.edgar_contact", "")
	v.SetDefault("sources.delaware_fixture", "static-assets/demo_de.html")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".chronos"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("CHRONOS")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("database.path", "CHRONOS_DB_FILE")
	_ = v.BindEnv("api.listen_addr", "CHRONOS_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "CHRONOS_API_AUTH_TOKEN")
	_ = v.BindEnv("neo4j.uri", "CHRONOS_NEO4J_URI")
	_ = v.BindEnv("neo4j.password", "CHRONOS_NEO4J_PASSWORD")
	_ = v.BindEnv("sources.cobalt_api_key", "COBALT_API_KEY")
	_ = v.BindEnv("sources.edgar_contact", "SEC_UA_EMAIL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.ListenAddr == "" {
		return fmt.Errorf("api.listen_addr must not be empty")
	}
	if c.Sources.TimeoutSeconds <= 0 {
		return fmt.Errorf("sources.timeout_seconds must be greater than 0")
	}
	if c.Neo4j.URI != "" && c.Neo4j.Database == "" {
		return fmt.Errorf("neo4j.database must not be empty when neo4j.uri is set")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
