package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration, populated from the environment.
type Config struct {
	DatabaseFile string `env:"GATEHOUSE_DATABASE_FILE" envDefault:"gatehouse.db"`

	// RegisterCommand is the downstream account creation template. The
	// {username} and {password} placeholders are substituted per argument.
	RegisterCommand string `env:"GATEHOUSE_REGISTER_COMMAND"`

	// TestMode skips downstream account creation and only logs what would
	// have been created.
	TestMode bool `env:"GATEHOUSE_TEST_MODE" envDefault:"false"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
