package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"wtime/internal/domain/errors"
	"wtime/internal/domain/interfaces"
	"wtime/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Config is a struct that holds application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig is a struct that holds database configuration
type DatabaseConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"name"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxLifetime  time.Duration `yaml:"max_lifetime"`
}

// SamplerConfig is a struct that holds clock sampler configuration
type SamplerConfig struct {
	Host          string        `yaml:"host"`
	Interval      time.Duration `yaml:"interval"`
	StepThreshold time.Duration `yaml:"step_threshold"`
	Backoff       BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds the exponential backoff applied after failed reads
type BackoffConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxInterval time.Duration `yaml:"max_interval"`
	Multiplier  float64       `yaml:"multiplier"`
}

// HealthConfig is a struct that holds health check configuration
type HealthConfig struct {
	Port string `yaml:"port"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// NewConfigLoader returns a YAML loader when CONFIG_FILE is set and an
// environment-only loader otherwise
func NewConfigLoader(fs interfaces.FileSystem) ConfigLoader {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return NewYAMLConfigLoader(fs, path)
	}
	return NewEnvironmentConfigLoader()
}

// EnvironmentConfigLoader is an implementation that loads configuration from environment variables
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads configuration from environment variables
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := defaultConfig()
	applyEnvironment(config)

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// YAMLConfigLoader loads configuration from a YAML file, then applies
// environment variable overrides
type YAMLConfigLoader struct {
	fs   interfaces.FileSystem
	path string
}

// NewYAMLConfigLoader creates a new YAMLConfigLoader
func NewYAMLConfigLoader(fs interfaces.FileSystem, path string) ConfigLoader {
	return &YAMLConfigLoader{fs: fs, path: path}
}

// Load reads the file, applies environment overrides and validates the result
func (l *YAMLConfigLoader) Load() (*Config, error) {
	if !l.fs.Exists(l.path) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("config file %s not found", l.path))
	}

	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		return nil, errors.NewSystemError("failed to read config file", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.NewValidationError("failed to parse config file", err)
	}
	applyEnvironment(config)

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func defaultConfig() *Config {
	hostname, _ := os.Hostname()
	return &Config{
		Database: DatabaseConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         "3306",
			User:         "root",
			Database:     "wtime",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		Sampler: SamplerConfig{
			Host:          hostname,
			Interval:      10 * time.Second,
			StepThreshold: time.Second,
			Backoff: BackoffConfig{
				Enabled:     true,
				MaxInterval: 5 * time.Minute,
				Multiplier:  2.0,
			},
		},
		Health: HealthConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvironment overrides config fields with any environment variables that are set
func applyEnvironment(config *Config) {
	db := &config.Database
	db.Enabled = getEnvBoolOrDefault("DB_ENABLED", db.Enabled)
	db.Host = getEnvOrDefault("DB_HOST", db.Host)
	db.Port = getEnvOrDefault("DB_PORT", db.Port)
	db.User = getEnvOrDefault("DB_USER", db.User)
	db.Password = getEnvOrDefault("DB_PASSWORD", db.Password)
	db.Database = getEnvOrDefault("DB_NAME", db.Database)
	db.MaxOpenConns = getEnvIntOrDefault("DB_MAX_OPEN_CONNS", db.MaxOpenConns)
	db.MaxIdleConns = getEnvIntOrDefault("DB_MAX_IDLE_CONNS", db.MaxIdleConns)
	db.MaxLifetime = getEnvDurationOrDefault("DB_MAX_LIFETIME", db.MaxLifetime)

	s := &config.Sampler
	s.Host = getEnvOrDefault("NODE_NAME", s.Host)
	s.Interval = getEnvDurationOrDefault("SAMPLE_INTERVAL", s.Interval)
	s.StepThreshold = getEnvDurationOrDefault("STEP_THRESHOLD", s.StepThreshold)
	s.Backoff.Enabled = getEnvBoolOrDefault("BACKOFF_ENABLED", s.Backoff.Enabled)
	s.Backoff.MaxInterval = getEnvDurationOrDefault("BACKOFF_MAX_INTERVAL", s.Backoff.MaxInterval)
	s.Backoff.Multiplier = getEnvFloatOrDefault("BACKOFF_MULTIPLIER", s.Backoff.Multiplier)

	config.Health.Port = getEnvOrDefault("HEALTH_PORT", config.Health.Port)
	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnvOrDefault("LOG_FORMAT", config.Log.Format)
}

// validate validates the configuration
func validate(config *Config) error {
	// Database settings only matter when sample persistence is on
	if config.Database.Enabled {
		if config.Database.Host == "" {
			return errors.NewValidationError("database host not configured", nil)
		}
		if err := utils.ValidatePort(config.Database.Port); err != nil {
			return errors.NewValidationError("invalid database port", err)
		}
		if config.Database.User == "" {
			return errors.NewValidationError("database user not configured", nil)
		}
		if config.Database.Database == "" {
			return errors.NewValidationError("database name not configured", nil)
		}
	}

	if err := utils.ValidateHostname(config.Sampler.Host); err != nil {
		return errors.NewValidationError("invalid sampler host name", err)
	}
	if config.Sampler.Interval <= 0 {
		return errors.NewValidationError("invalid sample interval", nil)
	}
	if config.Sampler.StepThreshold < 0 {
		return errors.NewValidationError("invalid step threshold", nil)
	}
	if config.Sampler.Backoff.Enabled {
		if config.Sampler.Backoff.MaxInterval < config.Sampler.Interval {
			return errors.NewValidationError("backoff max interval shorter than sample interval", nil)
		}
		if config.Sampler.Backoff.Multiplier <= 1 {
			return errors.NewValidationError("backoff multiplier must be greater than 1", nil)
		}
	}

	if err := utils.ValidatePort(config.Health.Port); err != nil {
		return errors.NewValidationError("invalid health check port", err)
	}

	switch config.Log.Format {
	case "json", "text":
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported log format %q", config.Log.Format), nil)
	}

	return nil
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
