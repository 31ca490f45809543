package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/token"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Issuer    IssuerConfig    `yaml:"issuer"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// StdioPrincipal is the caller identity for every stdio request.
	StdioPrincipal string `yaml:"stdio_principal"`
}

type IssuerConfig struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Owner  string `yaml:"owner"`
	Policy string `yaml:"policy"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "attest.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Issuer: IssuerConfig{
			Name:   "Attendance Credential",
			Symbol: "ATTEST",
			Policy: string(token.Transferable),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}

	if path := os.Getenv("ATTEST_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("ATTEST_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ATTEST_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ATTEST_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("ATTEST_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ATTEST_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("ATTEST_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("ATTEST_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if v := os.Getenv("ATTEST_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ATTEST_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if p := os.Getenv("ATTEST_STDIO_PRINCIPAL"); p != "" {
		cfg.Auth.StdioPrincipal = p
	}
	if owner := os.Getenv("ATTEST_ISSUER_OWNER"); owner != "" {
		cfg.Issuer.Owner = owner
	}
	if policy := os.Getenv("ATTEST_ISSUER_POLICY"); policy != "" {
		cfg.Issuer.Policy = policy
	}
	if v := os.Getenv("ATTEST_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ATTEST_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		errs = append(errs, fmt.Errorf("invalid transport mode %q", c.Transport.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if _, err := access.ParsePrincipal(c.Issuer.Owner); err != nil {
		errs = append(errs, errors.New("issuer owner is required"))
	}
	if _, err := token.ParsePolicy(c.Issuer.Policy); err != nil {
		errs = append(errs, fmt.Errorf("invalid issuer policy %q", c.Issuer.Policy))
	}
	if c.Transport.Mode == "stdio" && strings.TrimSpace(c.Auth.StdioPrincipal) == "" {
		errs = append(errs, errors.New("stdio transport requires auth.stdio_principal"))
	}
	return errors.Join(errs...)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
