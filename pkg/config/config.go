package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for flickduel-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (passwords) must
// only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (optional catalog cache)
	Redis RedisConfig `yaml:"redis"`

	// Engine tuning knobs for the preference/recommendation core
	Engine EngineConfig `yaml:"engine"`

	// Catalog seeding
	Catalog CatalogConfig `yaml:"catalog"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"flickduel"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"flickduel_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds optional Redis configuration. An empty host disables the
// catalog cache entirely.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`

	// CatalogTTL bounds how stale a cached catalog listing may get.
	CatalogTTL time.Duration `yaml:"catalog_ttl" env:"REDIS_CATALOG_TTL" env-default:"60s"`
}

// EngineConfig holds the preference-engine tunables. Defaults mirror the
// production behavior; tests override individual fields.
type EngineConfig struct {
	// PersonalizationThreshold is the vote count at which pair selection
	// switches from cold-start to personalized sampling and the hybrid
	// scorer takes over from the win-count fallback.
	PersonalizationThreshold int `yaml:"personalization_threshold" env:"ENGINE_PERSONALIZATION_THRESHOLD" env-default:"10"`

	// PairMaxAttempts bounds the anti-repeat sampling loop.
	PairMaxAttempts int `yaml:"pair_max_attempts" env:"ENGINE_PAIR_MAX_ATTEMPTS" env-default:"50"`

	// RecommendationCount is the top-N size for explicit on-demand
	// generation; BackgroundRecommendationCount for background refreshes.
	RecommendationCount           int `yaml:"recommendation_count" env:"ENGINE_RECOMMENDATION_COUNT" env-default:"15"`
	BackgroundRecommendationCount int `yaml:"background_recommendation_count" env:"ENGINE_BACKGROUND_RECOMMENDATION_COUNT" env-default:"10"`

	// Refresh policy: a lightweight check fires at the lower bounds, a
	// strict check at the higher ones.
	RefreshMinInteractions       int           `yaml:"refresh_min_interactions" env:"ENGINE_REFRESH_MIN_INTERACTIONS" env-default:"5"`
	RefreshMinInteractionsStrict int           `yaml:"refresh_min_interactions_strict" env:"ENGINE_REFRESH_MIN_INTERACTIONS_STRICT" env-default:"10"`
	RefreshMaxAge                time.Duration `yaml:"refresh_max_age" env:"ENGINE_REFRESH_MAX_AGE" env-default:"72h"`
	RefreshMaxAgeStrict          time.Duration `yaml:"refresh_max_age_strict" env:"ENGINE_REFRESH_MAX_AGE_STRICT" env-default:"168h"`

	// RefreshConcurrency caps how many background refreshes run at once.
	RefreshConcurrency int `yaml:"refresh_concurrency" env:"ENGINE_REFRESH_CONCURRENCY" env-default:"4"`
}

// VoteMilestones are the vote counts that trigger a background
// recommendation refresh, beyond the initial threshold crossing.
func (c *EngineConfig) VoteMilestones() []int {
	return []int{10, 15, 20, 25, 30, 40, 50}
}

// CatalogConfig controls first-boot catalog seeding.
type CatalogConfig struct {
	// SeedPath points at a YAML file of seed titles loaded when the content
	// table is empty. Empty disables seeding.
	SeedPath string `yaml:"seed_path" env:"CATALOG_SEED_PATH" env-default:"seed.yaml"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.PersonalizationThreshold < 1 {
		return fmt.Errorf("personalization_threshold must be >= 1, got %d", c.Engine.PersonalizationThreshold)
	}
	if c.Engine.PairMaxAttempts < 1 {
		return fmt.Errorf("pair_max_attempts must be >= 1, got %d", c.Engine.PairMaxAttempts)
	}
	if c.Engine.RecommendationCount < 1 || c.Engine.BackgroundRecommendationCount < 1 {
		return fmt.Errorf("recommendation counts must be >= 1")
	}
	if c.Engine.RefreshConcurrency < 1 {
		return fmt.Errorf("refresh_concurrency must be >= 1, got %d", c.Engine.RefreshConcurrency)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
