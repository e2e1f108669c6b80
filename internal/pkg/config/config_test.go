package config

import (
	"strings"
	"testing"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("solarmap-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "solarmap-test" {
		t.Errorf("expected service name solarmap-test, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Map.InitialLat != 49.8293460 || cfg.Map.InitialLon != 24.0222010 {
		t.Errorf("unexpected initial point %f,%f", cfg.Map.InitialLat, cfg.Map.InitialLon)
	}
	if cfg.Tiles.BaseTTL != 86400 || cfg.Tiles.DataTTL != 600 {
		t.Errorf("unexpected tile TTLs %d/%d", cfg.Tiles.BaseTTL, cfg.Tiles.DataTTL)
	}

	table, err := cfg.Tiles.Table()
	if err != nil {
		t.Fatal(err)
	}
	for option, tpl := range domain.DefaultOverlayTable() {
		if got, _ := table.Template(option); got != tpl {
			t.Errorf("template for %s: got %q, want %q", option, got, tpl)
		}
	}
	if _, ok := table.Template(domain.OptionDefaultMap); ok {
		t.Error("default map should have no template")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SOLARMAP_SERVER_PORT", "9090")
	t.Setenv("SOLARMAP_WEATHER_API_KEY", "secret")
	t.Setenv("SOLARMAP_TEMPORAL_ENABLED", "true")
	t.Setenv("SOLARMAP_MAP_SCALE_METERS", "50000")

	cfg, err := Load("solarmap-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Weather.APIKey != "secret" {
		t.Errorf("expected api key from env, got %q", cfg.Weather.APIKey)
	}
	if !cfg.Temporal.Enabled {
		t.Error("expected temporal enabled")
	}
	if cfg.Map.ScaleMeters != 50000 {
		t.Errorf("expected scale 50000, got %f", cfg.Map.ScaleMeters)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SOLARMAP_SERVER_PORT", "70000")

	if _, err := Load("solarmap-test"); err == nil {
		t.Fatal("expected validation error")
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", DBName: "d"},
		NATS:     NATSConfig{URL: "nats://nats:4222"},
		Valkey:   ValkeyConfig{Addr: "valkey:6379"},
		Tiles:    TilesConfig{UpstreamTimeout: 10, WarmMinZoom: 6, WarmMaxZoom: 9},
		Weather:  WeatherConfig{BaseURL: "https://api.openweathermap.org"},
		Map:      MapConfig{InitialLat: 49.8, InitialLon: 24.0, ScaleMeters: 100000, RegionRadiusMeters: 1000},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"unknown template", func(c *Config) { c.Tiles.Templates = map[string]string{"satellite": "x"} }, "tiles.templates"},
		{"zoom order", func(c *Config) { c.Tiles.WarmMinZoom, c.Tiles.WarmMaxZoom = 10, 5 }, "warm_min_zoom"},
		{"initial point", func(c *Config) { c.Map.InitialLat = 100 }, "map.initial_lat"},
		{"temporal queue", func(c *Config) { c.Temporal.Enabled = true }, "temporal.task_queue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "maps", SSLMode: "disable"}
	if got, want := d.DSN(), "postgres://u:p@db:5432/maps?sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
