package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/tweetbot/pkg/content"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration, all sections are optional
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"description=HTTP server listen address overriding --port"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server read timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Schedule struct {
		Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=8h,description=Interval between posts"`
		Cron     string        `yaml:"cron" json:"cron" jsonschema:"description=Cron expression used instead of interval if set"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Posting schedule"`

	Publish struct {
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=Maximum time for a single post attempt including rate limit waits"`
	} `yaml:"publish" json:"publish" jsonschema:"description=Publishing configuration"`

	Twitter TwitterConfig `yaml:"twitter" json:"twitter" jsonschema:"description=X/Twitter API client configuration"`

	Content *content.Tables `yaml:"content" json:"content,omitempty" jsonschema:"description=Content tables replacing the built-in ones"`
}

// TwitterConfig holds API client settings, credentials are passed separately
type TwitterConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.twitter.com,description=API base URL"`
	PostsPerDay    int           `yaml:"posts_per_day" json:"posts_per_day" jsonschema:"default=17,minimum=1,description=Client-side posting quota per 24 hours"`
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=3,minimum=1,description=Attempts on rate limit responses"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" jsonschema:"default=30s,description=Single HTTP request timeout"`
}

// Load reads configuration from a YAML file, empty path means defaults only
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// set defaults for server
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for schedule and publishing
	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = 8 * time.Hour
	}
	if cfg.Publish.Timeout == 0 {
		cfg.Publish.Timeout = 2 * time.Minute
	}

	// set defaults for twitter client
	if cfg.Twitter.Endpoint == "" {
		cfg.Twitter.Endpoint = "https://api.twitter.com"
	}
	if cfg.Twitter.PostsPerDay == 0 {
		cfg.Twitter.PostsPerDay = 17
	}
	if cfg.Twitter.MaxAttempts == 0 {
		cfg.Twitter.MaxAttempts = 3
	}
	if cfg.Twitter.RequestTimeout == 0 {
		cfg.Twitter.RequestTimeout = 30 * time.Second
	}

	// use built-in content unless the file defines its own
	if cfg.Content == nil {
		tables, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("load default content: %w", err)
		}
		cfg.Content = tables
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron is invalid: %w", err)
		}
	}
	if cfg.Schedule.Interval < time.Minute {
		return fmt.Errorf("schedule.interval must be at least 1 minute")
	}

	if cfg.Publish.Timeout < time.Second {
		return fmt.Errorf("publish.timeout must be at least 1 second")
	}

	if cfg.Twitter.PostsPerDay < 1 {
		return fmt.Errorf("twitter.posts_per_day must be at least 1")
	}
	if cfg.Twitter.MaxAttempts < 1 {
		return fmt.Errorf("twitter.max_attempts must be at least 1")
	}

	if err := cfg.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}
