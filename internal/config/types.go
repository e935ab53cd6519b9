package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Mappings MappingsConfig `yaml:"mappings" mapstructure:"mappings"`
	Audit    AuditConfig    `yaml:"audit" mapstructure:"audit"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Events   EventsConfig   `yaml:"events" mapstructure:"events"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	RateLimit    struct {
		Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
		RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
		Burst          int  `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// EngineConfig contains detection and sanitization engine configuration
type EngineConfig struct {
	CatalogPath     string  `yaml:"catalog_path" mapstructure:"catalog_path"`
	FuzzyThreshold  float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	ConfigsDir      string  `yaml:"configs_dir" mapstructure:"configs_dir"`
	UnparsableDates string  `yaml:"unparsable_dates" mapstructure:"unparsable_dates"` // passthrough or redact
}

// MappingsConfig contains value mapping persistence configuration
type MappingsConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // file or redis
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Redis   struct {
		URL       string `yaml:"url" mapstructure:"url"`
		KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
	} `yaml:"redis" mapstructure:"redis"`
}

// AuditConfig contains sanitization run audit trail configuration
type AuditConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// EventsConfig contains WebSocket event hub configuration
type EventsConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	BroadcastRuns   bool          `yaml:"broadcast_runs" mapstructure:"broadcast_runs"`
	BroadcastFields bool          `yaml:"broadcast_fields" mapstructure:"broadcast_fields"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Engine: EngineConfig{
			CatalogPath:     "configs/protected_fields.csv",
			FuzzyThreshold:  0.7,
			ConfigsDir:      "configs",
			UnparsableDates: "passthrough",
		},
		Mappings: MappingsConfig{
			Backend: "file",
			Dir:     "configs/mappings",
		},
		Audit: AuditConfig{
			Enabled:         false,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Events: EventsConfig{
			Enabled:         true,
			Path:            "/ws",
			MaxConnections:  100,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			BroadcastRuns:   true,
			BroadcastFields: true,
		},
	}

	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 120
	cfg.Server.RateLimit.Burst = 20

	cfg.Mappings.Redis.KeyPrefix = "phicleanse:mapping:"

	cfg.Logging.File.Path = "logs/phi-cleanse.log"
	cfg.Logging.File.MaxSize = 100 // MB
	cfg.Logging.File.MaxAge = 30   // days
	cfg.Logging.File.Compress = true

	return cfg
}
