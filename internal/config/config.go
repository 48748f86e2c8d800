package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	defaultPollInterval   = 10 * time.Second
	defaultBackendTimeout = 15 * time.Second
	defaultStoreDir       = "data"
	defaultHostname       = "gymdesk"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Store     StoreConfig     `yaml:"store"`
	Poll      PollConfig      `yaml:"poll"`
	Timezone  string          `yaml:"timezone"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BackendConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Token           string        `yaml:"token"`
	Timeout         time.Duration `yaml:"timeout"`
	RoutinesPath    string        `yaml:"routines_path"`
	ClassesPath     string        `yaml:"classes_path"`
	AssignmentsPath string        `yaml:"assignments_path"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Dir      string         `yaml:"dir"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location resolves the configured timezone. An empty timezone means the
// host's local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix GYMDESK_ and underscore-separated paths:
//
//	GYMDESK_SERVER_HOST, GYMDESK_SERVER_PORT,
//	GYMDESK_BACKEND_URL, GYMDESK_BACKEND_TOKEN, GYMDESK_BACKEND_TIMEOUT,
//	GYMDESK_STORE_DRIVER, GYMDESK_STORE_DIR,
//	GYMDESK_DB_HOST, GYMDESK_DB_PORT, GYMDESK_DB_NAME,
//	GYMDESK_DB_USER, GYMDESK_DB_PASSWORD, GYMDESK_DB_SSLMODE,
//	GYMDESK_POLL_INTERVAL, GYMDESK_TIMEZONE, GYMDESK_AUTH_API_KEY,
//	GYMDESK_TAILSCALE_ENABLED, GYMDESK_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMDESK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMDESK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMDESK_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("GYMDESK_BACKEND_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	if v := os.Getenv("GYMDESK_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("GYMDESK_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("GYMDESK_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("GYMDESK_DB_HOST"); v != "" {
		cfg.Store.Database.Host = v
	}
	if v := os.Getenv("GYMDESK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Store.Database.Port = port
		}
	}
	if v := os.Getenv("GYMDESK_DB_NAME"); v != "" {
		cfg.Store.Database.Name = v
	}
	if v := os.Getenv("GYMDESK_DB_USER"); v != "" {
		cfg.Store.Database.User = v
	}
	if v := os.Getenv("GYMDESK_DB_PASSWORD"); v != "" {
		cfg.Store.Database.Password = v
	}
	if v := os.Getenv("GYMDESK_DB_SSLMODE"); v != "" {
		cfg.Store.Database.SSLMode = v
	}
	if v := os.Getenv("GYMDESK_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Poll.Interval = d
		}
	}
	if v := os.Getenv("GYMDESK_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("GYMDESK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("GYMDESK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("GYMDESK_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = defaultBackendTimeout
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = defaultStoreDir
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = defaultPollInterval
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = defaultHostname
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		db := c.Store.Database
		if db.Host == "" {
			return fmt.Errorf("store.database.host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("store.database.port is required")
		}
		if db.Name == "" {
			return fmt.Errorf("store.database.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("store.database.user is required")
		}
	default:
		return fmt.Errorf("store.driver %q is not one of sqlite, postgres, memory", c.Store.Driver)
	}
	return nil
}
