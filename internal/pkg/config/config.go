package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Tiles     TilesConfig     `mapstructure:"tiles"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Map       MapConfig       `mapstructure:"map"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
	MetricsPort  int    `mapstructure:"metrics_port"` // standalone /metrics for workers
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	Enabled   bool   `mapstructure:"enabled"`
}

// TilesConfig configures the tile proxy. Templates are keyed by option ID.
type TilesConfig struct {
	Templates       map[string]string `mapstructure:"templates"`
	UpstreamTimeout int               `mapstructure:"upstream_timeout"`
	UserAgent       string            `mapstructure:"user_agent"`
	BaseTTL         int               `mapstructure:"base_ttl"`
	DataTTL         int               `mapstructure:"data_ttl"`
	WarmMinZoom     int               `mapstructure:"warm_min_zoom"`
	WarmMaxZoom     int               `mapstructure:"warm_max_zoom"`
}

// Table converts the configured templates into an overlay table.
func (t TilesConfig) Table() (domain.OverlayTable, error) {
	table := make(domain.OverlayTable, len(t.Templates))
	for id, tpl := range t.Templates {
		option, err := domain.ParseMapOption(id)
		if err != nil {
			return nil, fmt.Errorf("tiles.templates: %w", err)
		}
		table[option] = tpl
	}
	return table, nil
}

type WeatherConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"`
	CacheTTL int    `mapstructure:"cache_ttl"`
}

type MapConfig struct {
	InitialLat         float64 `mapstructure:"initial_lat"`
	InitialLon         float64 `mapstructure:"initial_lon"`
	ScaleMeters        float64 `mapstructure:"scale_meters"`
	RegionRadiusMeters float64 `mapstructure:"region_radius_meters"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "solarmap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "solarmap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "tile-warm-queue")
	v.SetDefault("temporal.enabled", false)
	for option, tpl := range domain.DefaultOverlayTable() {
		v.SetDefault("tiles.templates."+string(option), tpl)
	}
	v.SetDefault("tiles.upstream_timeout", 10)
	v.SetDefault("tiles.user_agent", "solarmap-tile-proxy/1.0")
	v.SetDefault("tiles.base_ttl", 86400)
	v.SetDefault("tiles.data_ttl", 600)
	v.SetDefault("tiles.warm_min_zoom", 6)
	v.SetDefault("tiles.warm_max_zoom", 9)
	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.timeout", 10)
	v.SetDefault("weather.cache_ttl", 600)
	v.SetDefault("map.initial_lat", 49.8293460)
	v.SetDefault("map.initial_lon", 24.0222010)
	v.SetDefault("map.scale_meters", 100000)
	v.SetDefault("map.region_radius_meters", 1000)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SOLARMAP_DATABASE_HOST → database.host
	v.SetEnvPrefix("SOLARMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Temporal.Enabled && c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required when temporal is enabled")
	}
	if _, err := c.Tiles.Table(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Tiles.UpstreamTimeout <= 0 {
		errs = append(errs, "tiles.upstream_timeout must be positive")
	}
	if c.Tiles.WarmMinZoom < 0 || c.Tiles.WarmMaxZoom > domain.MaxZoom || c.Tiles.WarmMinZoom > c.Tiles.WarmMaxZoom {
		errs = append(errs, fmt.Sprintf("tiles.warm_min_zoom/warm_max_zoom must satisfy 0 <= min <= max <= %d", domain.MaxZoom))
	}
	if c.Weather.BaseURL == "" {
		errs = append(errs, "weather.base_url is required")
	}
	if err := (domain.GeoPoint{Lat: c.Map.InitialLat, Lon: c.Map.InitialLon}).Validate(); err != nil {
		errs = append(errs, "map.initial_lat/initial_lon: "+err.Error())
	}
	if c.Map.ScaleMeters <= 0 {
		errs = append(errs, "map.scale_meters must be positive")
	}
	if c.Map.RegionRadiusMeters <= 0 {
		errs = append(errs, "map.region_radius_meters must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
