package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the widget agent. Defaults match
// the demo values: 5 s retry ticks capped at 10 retries, 10 s dashboard
// polls, and 0.3/0.3 chaos probabilities with an 800 ms delay.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	DataDir    string `env:"DATA_DIR" envDefault:"./data"`

	// Platform and AppVersion identify this client on every report.
	Platform   string `env:"PLATFORM" envDefault:"web"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`

	RetryInterval     time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"10"`
	DashboardInterval time.Duration `env:"DASHBOARD_INTERVAL" envDefault:"10s"`

	ChaosEnabled            bool          `env:"CHAOS_ENABLED" envDefault:"false"`
	ChaosDelayProbability   float64       `env:"CHAOS_DELAY_PROBABILITY" envDefault:"0.3"`
	ChaosFailureProbability float64       `env:"CHAOS_FAILURE_PROBABILITY" envDefault:"0.3"`
	ChaosDelay              time.Duration `env:"CHAOS_DELAY" envDefault:"800ms"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
