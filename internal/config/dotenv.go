package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"pixel-gallery/internal/canvas"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string   `toml:"port" env:"PORT"`
	Env                      string   `toml:"env" env:"ENV"`
	DatabaseURL              string   `toml:"database_url" env:"DATABASE_URL"`
	MigrationsPath           string   `toml:"migrations_path" env:"MIGRATIONS_PATH"`
	AutoMigrate              bool     `toml:"auto_migrate" env:"AUTO_MIGRATE"`
	SessionSecret            string   `toml:"session_secret" env:"SESSION_SECRET"`
	SessionTTLSeconds        int      `toml:"session_ttl_seconds" env:"SESSION_TTL_SECONDS"`
	SweepIntervalSeconds     int      `toml:"sweep_interval_seconds" env:"SWEEP_INTERVAL_SECONDS"`
	TrustedProxies           []string `toml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
	RateLimitRPS             float64  `toml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst           int      `toml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	Palette                  []string `toml:"palette" env:"PALETTE" envSeparator:","`
	DBMaxOpenConns           int      `toml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int      `toml:"db_max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeSeconds int      `toml:"db_conn_max_lifetime_seconds" env:"DB_CONN_MAX_LIFETIME_SECONDS"`
	DBConnMaxIdleTimeSeconds int      `toml:"db_conn_max_idle_seconds" env:"DB_CONN_MAX_IDLE_SECONDS"`
}

func Default() Config {
	palette := make([]string, len(canvas.DefaultPalette))
	copy(palette, canvas.DefaultPalette)
	return Config{
		Port:                     "8080",
		Env:                      "development",
		MigrationsPath:           "db/migrations",
		AutoMigrate:              true,
		SessionTTLSeconds:        30 * 60,
		SweepIntervalSeconds:     60,
		RateLimitRPS:             20,
		RateLimitBurst:           40,
		Palette:                  palette,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

// Load layers an optional TOML file and then the environment over Default.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URI")
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SessionTTLSeconds <= 0 {
		return errors.New("SESSION_TTL_SECONDS must be positive")
	}
	if c.RateLimitBurst < 0 || c.RateLimitRPS < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	if _, err := canvas.ParsePalette(c.Palette); err != nil {
		return fmt.Errorf("PALETTE: %w", err)
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", proxy)
		}
	}
	return nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}
