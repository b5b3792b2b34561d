package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const EnvConfigFile = "MINIHTTP_CONFIG"

var (
	ErrInvalidPort        = errors.New("config: invalid port")
	ErrInvalidBacklog     = errors.New("config: invalid backlog")
	ErrInvalidBufferSize  = errors.New("config: invalid read buffer size")
	ErrUnsupportedFormat  = errors.New("config: unsupported file format")
	ErrInvalidLogLevel    = errors.New("config: invalid log level")
	ErrMissingServiceName = errors.New("config: telemetry enabled without service name")
)

type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Assets    AssetsConfig    `yaml:"assets" toml:"assets"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

type ServerConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Host    string `yaml:"host" toml:"host"`
	Port    int    `yaml:"port" toml:"port"`
	Backlog int    `yaml:"backlog" toml:"backlog"`

	// ReadBufferSize caps the bytes read from a connection.
	ReadBufferSize int `yaml:"read_buffer_size" toml:"read_buffer_size"`
}

type AssetsConfig struct {
	// Root is the directory route content paths are resolved against.
	Root string `yaml:"root" toml:"root"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled"`
	ServiceName string `yaml:"service_name" toml:"service_name"`
	Endpoint    string `yaml:"endpoint" toml:"endpoint"`
	Insecure    bool   `yaml:"insecure" toml:"insecure"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:           "minihttp",
			Host:           "0.0.0.0",
			Port:           8080,
			Backlog:        10,
			ReadBufferSize: 3000,
		},
		Assets: AssetsConfig{
			Root: ".",
		},
		Log: LogConfig{
			Level: "debug",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "minihttp",
			Insecure:    true,
		},
	}
}

// Load builds the configuration from defaults, the optional file named by
// MINIHTTP_CONFIG and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile decodes a YAML or TOML file over cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("config: decoding %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnvOrDefault("MINIHTTP_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Server.Port = getEnvAsIntOrDefault("MINIHTTP_PORT", cfg.Server.Port)
	cfg.Server.Backlog = getEnvAsIntOrDefault("MINIHTTP_BACKLOG", cfg.Server.Backlog)
	cfg.Server.ReadBufferSize = getEnvAsIntOrDefault("MINIHTTP_READ_BUFFER", cfg.Server.ReadBufferSize)
	cfg.Assets.Root = getEnvOrDefault("MINIHTTP_ASSET_ROOT", cfg.Assets.Root)
	cfg.Log.Level = getEnvOrDefault("MINIHTTP_LOG_LEVEL", cfg.Log.Level)

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = endpoint
	}
	cfg.Telemetry.ServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Server.Backlog < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBacklog, c.Server.Backlog)
	}
	if c.Server.ReadBufferSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, c.Server.ReadBufferSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return ErrMissingServiceName
	}

	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return level, nil
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
