package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the board service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	DatabaseURL   string
	RedisURL      string
	AdminSecret   string
	GridRows      int
	GridCols      int
	VIPRows       int
	VIPPoints     int
	BasePoints    int
	BonusPoints   int
	StarThreshold int
	ClassLabels   []string
	TimezoneName  string
	Location      *time.Location
	BoardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsVIPRow reports whether a row falls inside the high-value band.
func (c Config) IsVIPRow(row int) bool {
	return row >= 1 && row <= c.VIPRows
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classboard API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("grid.rows", 9)
	v.SetDefault("grid.cols", 10)
	v.SetDefault("grid.vip_rows", 3)
	v.SetDefault("points.vip", 2)
	v.SetDefault("points.base", 1)
	v.SetDefault("points.bonus", 2)
	v.SetDefault("points.star_threshold", 4)
	v.SetDefault("timezone", "Asia/Shanghai")
	v.SetDefault("board.cache_ttl", "2s")

	ttlString := v.GetString("board.cache_ttl")
	if ttlString == "" {
		ttlString = "2s"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid board cache ttl: %w", err)
	}

	timezone := v.GetString("timezone")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		DatabaseURL:   v.GetString("database.url"),
		RedisURL:      v.GetString("redis.url"),
		AdminSecret:   v.GetString("admin.secret"),
		GridRows:      v.GetInt("grid.rows"),
		GridCols:      v.GetInt("grid.cols"),
		VIPRows:       v.GetInt("grid.vip_rows"),
		VIPPoints:     v.GetInt("points.vip"),
		BasePoints:    v.GetInt("points.base"),
		BonusPoints:   v.GetInt("points.bonus"),
		StarThreshold: v.GetInt("points.star_threshold"),
		ClassLabels:   splitLabels(v.GetString("class.labels")),
		TimezoneName:  timezone,
		Location:      location,
		BoardCacheTTL: ttl,
	}

	if cfg.AdminSecret == "" {
		return Config{}, fmt.Errorf("admin secret must be provided")
	}

	if cfg.GridRows <= 0 || cfg.GridCols <= 0 {
		return Config{}, fmt.Errorf("grid dimensions must be positive, got %dx%d", cfg.GridRows, cfg.GridCols)
	}

	if cfg.VIPRows < 0 || cfg.VIPRows > cfg.GridRows {
		return Config{}, fmt.Errorf("vip rows must fall within the grid, got %d of %d", cfg.VIPRows, cfg.GridRows)
	}

	if cfg.VIPPoints <= 0 {
		cfg.VIPPoints = 2
	}

	if cfg.BasePoints <= 0 {
		cfg.BasePoints = 1
	}

	if cfg.BonusPoints <= 0 {
		cfg.BonusPoints = 2
	}

	if cfg.StarThreshold <= 0 {
		cfg.StarThreshold = 4
	}

	return cfg, nil
}

func splitLabels(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
