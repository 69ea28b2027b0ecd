package questbot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/questbot/questbot/internal/gateways/database"
)

// LoadConfig reads the TOML file at path, loads .env if present, applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo, Format: "text"},
		DB:  database.DBConfig{Host: "localhost", Port: 5432, PoolSize: 10},
		Leveling: LevelingConfig{
			XPStep:    5,
			CacheSize: 1024,
		},
		Queue: QueueConfig{Workers: 4, ShardSize: 256, MaxAttempts: 5, JobTimeoutSeconds: 30},
		Web:   WebConfig{Addr: ":8080"},
	}
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	Bot      BotConfig         `toml:"bot"`
	DB       database.DBConfig `toml:"db"`
	Leveling LevelingConfig    `toml:"leveling"`
	Queue    QueueConfig       `toml:"queue"`
	Web      WebConfig         `toml:"web"`
	Spaces   SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token" validate:"required"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format" validate:"oneof=text json"`
	AddSource bool       `toml:"add_source"`
}

type LevelingConfig struct {
	// XPStep is the granularity admin XP edits must respect.
	XPStep    int `toml:"xp_step" validate:"min=1"`
	CacheSize int `toml:"cache_size" validate:"min=1"`
}

type QueueConfig struct {
	Workers           int `toml:"workers" validate:"min=1,max=64"`
	ShardSize         int `toml:"shard_size" validate:"min=1"`
	MaxAttempts       int `toml:"max_attempts" validate:"min=1"`
	JobTimeoutSeconds int `toml:"job_timeout_seconds" validate:"min=1"`
}

type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr" validate:"required_if=Enabled true"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret" validate:"required_with=Key"`
	Region string `toml:"region" validate:"required_with=Key"`
	Bucket string `toml:"bucket" validate:"required_with=Key"`
	Root   string `toml:"root"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Key != ""
}

// envOverrides lists the settings that may come from the environment.
// Empty values leave the file's value in place.
type envOverrides struct {
	Token      string `env:"DISCORD_BOT_TOKEN"`
	DBHost     string `env:"DB_HOST"`
	DBPort     int    `env:"DB_PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	WebAddr    string `env:"PORT"`
	SpacesKey  string `env:"SPACES_KEY"`
	SpacesSec  string `env:"SPACES_SECRET"`
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Bot.Token, o.Token)
	set(&c.DB.Host, o.DBHost)
	set(&c.DB.User, o.DBUser)
	set(&c.DB.Password, o.DBPassword)
	set(&c.DB.Database, o.DBName)
	set(&c.Spaces.Key, o.SpacesKey)
	set(&c.Spaces.Secret, o.SpacesSec)
	if o.DBPort != 0 {
		c.DB.Port = o.DBPort
	}
	if o.WebAddr != "" {
		c.Web.Addr = ":" + o.WebAddr
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
