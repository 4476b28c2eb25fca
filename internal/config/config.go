package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultMaxSize              = 256
	defaultTTLSeconds           = 600
	defaultSweepIntervalSeconds = 60
	defaultFallbackLanguage     = "en"
	defaultListenAddr           = ":8000"
)

var (
	defaultComponents = []string{"welcome", "navigation", "user_profile", "footer"}
	defaultLanguages  = []string{"en", "es", "fr", "de"}
)

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Limiter LimiterConfig `yaml:"limiter"`
	Catalog CatalogConfig `yaml:"catalog"`
	Server  ServerConfig  `yaml:"server"`
}

// CacheConfig holds the single canonical size and TTL of the component cache
type CacheConfig struct {
	MaxSize              int `yaml:"max_size" validate:"gt=0"`
	TTLSeconds           int `yaml:"ttl_seconds" validate:"gt=0"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" validate:"gte=0"`
}

// LimiterConfig sizes generation admission
type LimiterConfig struct {
	MaxConcurrentGenerations int `yaml:"max_concurrent_generations" validate:"gt=0"`
	AdmissionTimeoutMs       int `yaml:"admission_timeout_ms" validate:"gte=0"`
}

// CatalogConfig enumerates recognized component types and languages
type CatalogConfig struct {
	Components       []string `yaml:"components" validate:"required,min=1,unique,dive,required"`
	Languages        []string `yaml:"languages" validate:"required,min=1,unique,dive,required"`
	FallbackLanguage string   `yaml:"fallback_language" validate:"required"`
}

// ServerConfig holds listener settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
}

// TTL returns the cache TTL as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepInterval returns how often expired entries are purged
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// AdmissionTimeout returns the admission wait bound; zero means unbounded
func (c LimiterConfig) AdmissionTimeout() time.Duration {
	return time.Duration(c.AdmissionTimeoutMs) * time.Millisecond
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// Default returns a configuration built only from defaults
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, lang := range c.Catalog.Languages {
		if lang == c.Catalog.FallbackLanguage {
			return nil
		}
	}
	return errors.New("catalog.fallback_language must be one of catalog.languages")
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = defaultMaxSize
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultTTLSeconds
	}
	if c.Cache.SweepIntervalSeconds == 0 {
		c.Cache.SweepIntervalSeconds = defaultSweepIntervalSeconds
	}

	if c.Limiter.MaxConcurrentGenerations == 0 {
		c.Limiter.MaxConcurrentGenerations = runtime.NumCPU() * 4
	}

	if len(c.Catalog.Components) == 0 {
		c.Catalog.Components = append([]string(nil), defaultComponents...)
	}
	if len(c.Catalog.Languages) == 0 {
		c.Catalog.Languages = append([]string(nil), defaultLanguages...)
	}
	if c.Catalog.FallbackLanguage == "" {
		c.Catalog.FallbackLanguage = defaultFallbackLanguage
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = defaultListenAddr
	}
}
