// internal/workers/scholarship/match-scholarships/config.go
package matchscholarships

import (
	"time"

	"scholarship-engine/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// LoadConfig reads the worker's entry under workers.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := time.Duration(wcfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Config{Timeout: timeout}
}
