package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverYahoo    = "yahoo"
	DriverStatic   = "static"
)

// Notifier kinds.
const (
	NotifierSlack    = "slack"
	NotifierTelegram = "telegram"
	NotifierLog      = "log"
)

// retriesUnset marks max_retries as absent so an explicit 0 disables retries.
const retriesUnset = -1

// Config holds all application configuration.
type Config struct {
	Database struct {
		Driver   string `yaml:"driver"`
		URL      string `yaml:"url"`
		Table    string `yaml:"table"`
		MaxConns int    `yaml:"max_conns"`
		MinConns int    `yaml:"min_conns"`
	} `yaml:"database"`
	Symbols  []string `yaml:"symbols"`
	Notifier struct {
		Kind  string `yaml:"kind"`
		Slack struct {
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"slack"`
		Telegram struct {
			BotToken string `yaml:"bot_token"`
			ChatID   string `yaml:"chat_id"`
			Polling  bool   `yaml:"polling"`
		} `yaml:"telegram"`
		MaxRetries int `yaml:"max_retries"`
	} `yaml:"notifier"`
	Schedule struct {
		ScreenCron string `yaml:"screen_cron"`
	} `yaml:"schedule"`
	Recorder struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"recorder"`
	Screen struct {
		Workers int `yaml:"workers"`
	} `yaml:"screen"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file and .env, then applies environment overrides and defaults.
// Missing files are not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Notifier.MaxRetries = retriesUnset

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &c.Database.URL},
		{"DATABASE_DRIVER", &c.Database.Driver},
		{"NOTIFIER_KIND", &c.Notifier.Kind},
		{"SLACK_WEBHOOK_URL", &c.Notifier.Slack.WebhookURL},
		{"TELEGRAM_BOT_TOKEN", &c.Notifier.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Notifier.Telegram.ChatID},
		{"CRON_SCREEN", &c.Schedule.ScreenCron},
		{"SQLITE_PATH", &c.Recorder.SQLitePath},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
		{"HTTPS_PROXY", &c.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Screen.Workers = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Table == "" {
		c.Database.Table = "stock_prices"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 4
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 1
	}
	if c.Notifier.Kind == "" {
		c.Notifier.Kind = NotifierSlack
	}
	if c.Notifier.MaxRetries == retriesUnset {
		c.Notifier.MaxRetries = 3
	}
	if c.Schedule.ScreenCron == "" {
		c.Schedule.ScreenCron = "0 30 18 * * 1-5"
	}
	if c.Screen.Workers == 0 {
		c.Screen.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	case DriverYahoo:
		if len(c.Symbols) == 0 {
			return fmt.Errorf("symbols are required for driver %q", c.Database.Driver)
		}
	case DriverStatic:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	switch c.Notifier.Kind {
	case NotifierSlack:
		if c.Notifier.Slack.WebhookURL == "" {
			return fmt.Errorf("notifier.slack.webhook_url is required")
		}
	case NotifierTelegram:
		if c.Notifier.Telegram.BotToken == "" {
			return fmt.Errorf("notifier.telegram.bot_token is required")
		}
		if c.Notifier.Telegram.ChatID == "" {
			return fmt.Errorf("notifier.telegram.chat_id is required")
		}
	case NotifierLog:
	default:
		return fmt.Errorf("unknown notifier.kind %q", c.Notifier.Kind)
	}

	if c.Screen.Workers < 1 {
		return fmt.Errorf("screen.workers must be positive")
	}
	if c.Notifier.MaxRetries < 0 {
		return fmt.Errorf("notifier.max_retries must not be negative")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.ScreenCron); err != nil {
		return fmt.Errorf("schedule.screen_cron: %w", err)
	}
	return nil
}
