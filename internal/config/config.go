// Package config loads application configuration via viper and owns the
// global zap logger lifecycle.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Addresses AddressesConfig `yaml:"addresses" mapstructure:"addresses"`
	Legend    LegendConfig    `yaml:"legend" mapstructure:"legend"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GeocodeConfig configures the address resolution collaborator.
type GeocodeConfig struct {
	GoogleAPIKey string             `yaml:"google_api_key" mapstructure:"google_api_key"`
	TimeoutSecs  int                `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit    float64            `yaml:"rate_limit" mapstructure:"rate_limit"`
	Cache        GeocodeCacheConfig `yaml:"cache" mapstructure:"cache"`
}

// GeocodeCacheConfig configures the optional Postgres geocode cache.
type GeocodeCacheConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLDays     int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// AddressesConfig configures the candidate address list.
type AddressesConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// LegendConfig configures the category legend served to the map UI.
type LegendConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SnapshotConfig configures optional SQLite persistence.
type SnapshotConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	Output string `yaml:"output" mapstructure:"output"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("geocode.timeout_secs", 25)
	v.SetDefault("geocode.rate_limit", 10)
	v.SetDefault("geocode.cache.enabled", false)
	v.SetDefault("geocode.cache.ttl_days", 30)
	v.SetDefault("addresses.path", "addresses.csv")
	v.SetDefault("export.output", "campus_analysis_results.csv")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required by the given run mode
// is present and sane.
func (c *Config) Validate(mode string) error {
	var missing []string

	check := func(ok bool, msg string) {
		if !ok {
			missing = append(missing, msg)
		}
	}

	check(c.Geocode.TimeoutSecs > 0, "geocode.timeout_secs must be > 0")
	check(c.Geocode.RateLimit > 0, "geocode.rate_limit must be > 0")
	if c.Geocode.Cache.Enabled {
		check(c.Geocode.Cache.DatabaseURL != "", "geocode.cache.database_url is required when the cache is enabled")
		check(c.Geocode.Cache.TTLDays >= 0, "geocode.cache.ttl_days must be >= 0")
	}

	switch mode {
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
	case "export":
		check(c.Snapshot.Path != "", "snapshot.path is required for export")
		check(c.Export.Output != "", "export.output is required")
	case "addresses":
		check(c.Addresses.Path != "", "addresses.path is required")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
