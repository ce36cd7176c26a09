// Package config loads nomadcloset settings from defaults, an optional YAML
// file, and NOMADCLOSET_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	envPrefix = "NOMADCLOSET"
)

// ServerConfig covers how the HTTP listener sees its clients. TrustedProxy
// should be set only behind a proxy that overwrites X-Forwarded-For.
type ServerConfig struct {
	TrustedProxy bool `mapstructure:"trusted_proxy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type ViewStateConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ToggleConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// S3Config holds S3-compatible storage settings for action-log archives.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether enough settings are present to build a client.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type Config struct {
	Port      string          `mapstructure:"port"`
	BaseURL   string          `mapstructure:"base_url"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	ViewState ViewStateConfig `mapstructure:"viewstate"`
	Toggle    ToggleConfig    `mapstructure:"toggle"`
	S3        S3Config        `mapstructure:"s3"`
}

// SetDefaults registers every known key so environment overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("base_url", "")
	v.SetDefault("server.trusted_proxy", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "nomadcloset.db")
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("viewstate.ttl", 24*time.Hour)
	v.SetDefault("toggle.timeout", 10*time.Second)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
}

// Load reads configuration into a Config. An empty path skips the config file.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db.driver %q (want %s or %s)", c.DB.Driver, DriverSQLite, DriverPostgres)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.ViewState.TTL <= 0 {
		return fmt.Errorf("viewstate.ttl must be positive")
	}
	if c.Toggle.Timeout <= 0 {
		return fmt.Errorf("toggle.timeout must be positive")
	}
	return nil
}
