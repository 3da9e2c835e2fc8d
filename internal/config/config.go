// Package config loads scanner configuration from a YAML file, environment
// variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "SCANNER"

// Config represents the complete scanner configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Strategies StrategiesConfig `mapstructure:"strategies" yaml:"strategies"`
	Providers  ProvidersConfig  `mapstructure:"providers" yaml:"providers"`
	Scan       ScanConfig       `mapstructure:"scan" yaml:"scan"`
	Universe   UniverseConfig   `mapstructure:"universe" yaml:"universe"`
	Events     EventsConfig     `mapstructure:"events" yaml:"events"`
	Schedules  []ScheduleConfig `mapstructure:"schedules" yaml:"schedules" validate:"dive"`
}

type ServerConfig struct {
	HTTPAddr           string   `mapstructure:"http_addr" yaml:"http_addr" validate:"required"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" yaml:"encoding" validate:"oneof=json console"`
}

// StoreConfig selects the document store backing strategy configs and results.
type StoreConfig struct {
	Backend       string `mapstructure:"backend" yaml:"backend" validate:"oneof=memory duckdb redis"`
	DuckDBPath    string `mapstructure:"duckdb_path" yaml:"duckdb_path" validate:"required_if=Backend duckdb"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db" validate:"gte=0"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
}

type StrategiesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type ProvidersConfig struct {
	Default         string        `mapstructure:"default" yaml:"default" validate:"required"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	FixturesDir     string        `mapstructure:"fixtures_dir" yaml:"fixtures_dir"`
	YFinanceBaseURL string        `mapstructure:"yfinance_base_url" yaml:"yfinance_base_url" validate:"required,url"`
	PolygonAPIKey   string        `mapstructure:"polygon_api_key" yaml:"polygon_api_key"`
}

type ScanConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency" validate:"min=1"`
}

// UniverseConfig selects where the list of scannable tickers comes from.
type UniverseConfig struct {
	Source string `mapstructure:"source" yaml:"source" validate:"oneof=file polygon"`
	File   string `mapstructure:"file" yaml:"file" validate:"required_if=Source file"`
	Limit  int    `mapstructure:"limit" yaml:"limit" validate:"min=1"`
}

// EventsConfig configures scan-completed notifications. No brokers disables publishing.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers" yaml:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic" yaml:"kafka_topic" validate:"required_with=KafkaBrokers"`
}

// ScheduleConfig is one recurring scan. Spec uses the six-field cron format
// with a leading seconds field.
type ScheduleConfig struct {
	Name       string             `mapstructure:"name" yaml:"name" validate:"required"`
	Spec       string             `mapstructure:"spec" yaml:"spec" validate:"required"`
	StrategyID string             `mapstructure:"strategy_id" yaml:"strategy_id" validate:"required"`
	Tickers    []string           `mapstructure:"tickers" yaml:"tickers"`
	Provider   string             `mapstructure:"provider" yaml:"provider"`
	Params     map[string]float64 `mapstructure:"params" yaml:"params"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml
//  2. ~/.options-scanner/config.yaml
//  3. /etc/options-scanner/config.yaml
//
// Environment variables override file values, e.g. SCANNER_STORE_BACKEND=redis.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".options-scanner"))
	v.AddConfigPath("/etc/options-scanner")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "error reading config file", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "error reading config file %s", path)
	}

	return decode(v)
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "error unmarshaling config", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.duckdb_path", "data/scanner.duckdb")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_password", "")

	v.SetDefault("strategies.dir", "config/strategies")

	v.SetDefault("providers.default", "yfinance")
	v.SetDefault("providers.fetch_timeout", 30*time.Second)
	v.SetDefault("providers.fixtures_dir", "testdata/chains")
	v.SetDefault("providers.yfinance_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("providers.polygon_api_key", "")

	v.SetDefault("scan.max_concurrency", 8)

	v.SetDefault("universe.source", "file")
	v.SetDefault("universe.file", "config/tickers.json")
	v.SetDefault("universe.limit", 500)

	v.SetDefault("events.kafka_brokers", []string{})
	v.SetDefault("events.kafka_topic", "options.scans")
}

// overrideFromEnv reads the conventional polygon variable when the prefixed one is unset.
func overrideFromEnv(cfg *Config) {
	if cfg.Providers.PolygonAPIKey != "" {
		return
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" {
		cfg.Providers.PolygonAPIKey = key
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return home
}

// String renders the configuration without secrets, for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("store=%s providers.default=%s universe=%s concurrency=%d schedules=%d kafka=%t",
		c.Store.Backend, c.Providers.Default, c.Universe.Source, c.Scan.MaxConcurrency,
		len(c.Schedules), len(c.Events.KafkaBrokers) > 0)
}
