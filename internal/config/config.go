package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`       // current application environment (local, dev, production etc)
	LogLevel         string   `mapstructure:"log_level"` // optional zap level override (debug, info, warn, error)
	TelegramAPIToken string   `mapstructure:"-"`         // Telegram API token loaded from environment
	DB               DB       `mapstructure:"database"`  // database configuration section
	Quiz             Quiz     `mapstructure:"quiz"`      // game timing and table range
	Sessions         Sessions `mapstructure:"sessions"`  // in-memory game housekeeping
	Metrics          Metrics  `mapstructure:"metrics"`   // Prometheus endpoint
	Results          Results  `mapstructure:"results"`   // finished game history
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Quiz contains the game parameters.
type Quiz struct {
	Tables          []int         `mapstructure:"tables"`           // tables offered for selection
	QuestionSeconds int           `mapstructure:"question_seconds"` // countdown start value
	TickInterval    time.Duration `mapstructure:"tick_interval"`    // countdown granularity
	FeedbackDelay   time.Duration `mapstructure:"feedback_delay"`   // pause before the next question
}

// Sessions configures eviction of idle games.
type Sessions struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`       // idle time before a game is evicted
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron expression of the sweeper
}

// Metrics configures the Prometheus HTTP endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"` // listen address, empty disables the endpoint
}

// Results configures the results history.
type Results struct {
	HistoryLimit int `mapstructure:"history_limit"` // results shown by /stats
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, real environment variables still apply.
	_ = godotenv.Load()

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
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("metrics.addr", "METRICS_ADDR")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("quiz.tables", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	v.SetDefault("quiz.question_seconds", 10)
	v.SetDefault("quiz.tick_interval", "1s")
	v.SetDefault("quiz.feedback_delay", "1s")
	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("sessions.sweep_schedule", "*/5 * * * *")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("results.history_limit", 5)
}

func fromViper(v *viper.Viper) (*Config, error) {
	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := cfg.Quiz.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (q Quiz) validate() error {
	if len(q.Tables) == 0 {
		return errors.New("quiz.tables must not be empty")
	}
	for _, t := range q.Tables {
		if t <= 0 {
			return fmt.Errorf("quiz.tables: %d is not a positive number", t)
		}
	}
	if q.QuestionSeconds <= 0 {
		return errors.New("quiz.question_seconds must be positive")
	}
	if q.TickInterval <= 0 || q.FeedbackDelay < 0 {
		return errors.New("quiz.tick_interval must be positive and quiz.feedback_delay not negative")
	}
	return nil
}
