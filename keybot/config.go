package keybot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/database"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML file at path, writing a default one when it does
// not exist, then applies .env and environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = writeConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		slog.Info("Default config written",
			slog.String("type", "sys"),
			slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("failed to open config: %w", err)
	default:
		if err = toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err = godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
	}
	if err = env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		EnvFile: ".env",
		Log: LogConfig{
			Level: slog.LevelInfo,
			Color: true,
		},
		DB: database.DBConfig{
			Driver: database.DriverSQLite,
			Path:   config.DefaultDatabaseFile,
			Host:   "localhost",
			Port:   5432,
		},
		Giveaway: GiveawayConfig{
			DurationSeconds: int(giveaway.DefaultGiveawayDuration / time.Second),
			AgeBound:        giveaway.DefaultAgeBound,
			KeysFile:        config.DefaultKeysFile,
			ImportInterval:  int(config.DefaultImportInterval / time.Second),
		},
	}
}

func writeConfig(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

type Config struct {
	EnvFile  string            `toml:"env_file"`
	Log      LogConfig         `toml:"log"`
	Bot      BotConfig         `toml:"bot"`
	DB       database.DBConfig `toml:"db" envPrefix:"DB_"`
	Giveaway GiveawayConfig    `toml:"giveaway"`
	Spaces   SpacesConfig      `toml:"spaces" envPrefix:"SPACES_"`
	API      APIConfig         `toml:"api" envPrefix:"API_"`
}

// Validate rejects settings the giveaway cannot run with.
func (c *Config) Validate() error {
	if c.Giveaway.DurationSeconds <= 0 {
		return fmt.Errorf("giveaway_duration must be positive, got %d", c.Giveaway.DurationSeconds)
	}
	if c.Giveaway.AgeBound < 0 {
		return fmt.Errorf("age_bound must not be negative, got %d", c.Giveaway.AgeBound)
	}
	if c.Giveaway.ImportInterval < 0 {
		return fmt.Errorf("import_interval must not be negative, got %d", c.Giveaway.ImportInterval)
	}
	if c.API.Enabled() && c.API.Token == "" {
		return fmt.Errorf("api token is required when the api address is set")
	}
	return nil
}

// Settings are the file/env giveaway values, used as defaults for the
// persisted config table.
func (c *Config) Settings() giveaway.Settings {
	return giveaway.Settings{
		GiveawayDuration: time.Duration(c.Giveaway.DurationSeconds) * time.Second,
		AgeBound:         c.Giveaway.AgeBound,
	}
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token" env:"TOKEN"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LOG_LEVEL"`
	AddSource bool       `toml:"add_source"`
	Color     bool       `toml:"color" env:"LOG_COLOR"`
}

type GiveawayConfig struct {
	DurationSeconds int    `toml:"giveaway_duration" env:"GIVEAWAY_DURATION"`
	AgeBound        int    `toml:"age_bound" env:"AGE_BOUND"`
	KeysFile        string `toml:"keys_file" env:"KEYS_FILE"`
	// ImportInterval is in seconds; 0 disables the periodic import.
	ImportInterval int `toml:"import_interval" env:"IMPORT_INTERVAL"`
}

func (g GiveawayConfig) ImportEvery() time.Duration {
	return time.Duration(g.ImportInterval) * time.Second
}

// SpacesConfig points the importer at a DigitalOcean Spaces object instead of
// the local keys file. Leave Bucket empty to use the file.
type SpacesConfig struct {
	Key     string `toml:"key" env:"KEY"`
	Secret  string `toml:"secret" env:"SECRET"`
	Region  string `toml:"region" env:"REGION"`
	Bucket  string `toml:"bucket" env:"BUCKET"`
	KeysKey string `toml:"keys_key" env:"KEYS_KEY"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Bucket != "" && s.KeysKey != ""
}

// APIConfig enables the read-only status API when Address is set.
type APIConfig struct {
	Address           string   `toml:"address" env:"ADDRESS"`
	Token             string   `toml:"token" env:"TOKEN"`
	RequestsPerMinute int      `toml:"requests_per_minute" env:"REQUESTS_PER_MINUTE"`
	TrustedProxies    []string `toml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
}

func (a APIConfig) Enabled() bool {
	return a.Address != ""
}
