package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownSource               = errors.New("unknown dataset source")
)

// Dataset sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"`        // current application environment (local, dev, production)
	TelegramAPIToken string     `mapstructure:"-"`          // Telegram API token loaded from environment
	Dataset          Dataset    `mapstructure:"dataset"`    // where questions come from
	DB               DB         `mapstructure:"database"`   // database configuration section
	Flashcards       Flashcards `mapstructure:"flashcards"` // flashcard deck sizes
	Practice         Practice   `mapstructure:"practice"`   // practice set settings
	Learn            Learn      `mapstructure:"learn"`      // learn mode settings
	Bot              Bot        `mapstructure:"bot"`        // telegram polling and throttling
	Log              Log        `mapstructure:"log"`        // log level and output
	Metrics          Metrics    `mapstructure:"metrics"`    // prometheus endpoint
}

// Dataset selects the question source.
type Dataset struct {
	Source string `mapstructure:"source"` // file or postgres
	Path   string `mapstructure:"path"`   // JSON or YAML file with questions
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Flashcards struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

type Practice struct {
	DefaultSize     int  `mapstructure:"default_size"`
	MaxSize         int  `mapstructure:"max_size"`
	Choices         int  `mapstructure:"choices"`
	ShowExplanation bool `mapstructure:"show_explanation"`
}

type Learn struct {
	PageSize int `mapstructure:"page_size"`
}

type Bot struct {
	Debug       bool    `mapstructure:"debug"`
	PollTimeout int     `mapstructure:"poll_timeout"` // long polling timeout in seconds
	RateLimit   float64 `mapstructure:"rate_limit"`   // events per second per chat
	RateBurst   int     `mapstructure:"rate_burst"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty disables file output
}

type Metrics struct {
	Addr string `mapstructure:"addr"` // empty disables the metrics server
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, real environment still applies.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")

	switch cfg.Dataset.Source {
	case SourceFile:
	case SourcePostgres:
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Dataset.Source)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("dataset.source", SourceFile)
	v.SetDefault("dataset.path", "assets/questions.json")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("flashcards.default_size", 25)
	v.SetDefault("flashcards.max_size", 100)
	v.SetDefault("practice.default_size", 10)
	v.SetDefault("practice.max_size", 150)
	v.SetDefault("practice.choices", 4)
	v.SetDefault("practice.show_explanation", true)
	v.SetDefault("learn.page_size", 5)
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.poll_timeout", 60)
	v.SetDefault("bot.rate_limit", 2)
	v.SetDefault("bot.rate_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.addr", ":9090")
}
