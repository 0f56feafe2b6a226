// internal/workers/essay/generate-essay/config.go
package generateessay

import (
	"time"

	"scholarship-engine/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// Generation alone may take the essay timeout once per attempt.
const defaultTimeout = 5 * time.Minute

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := time.Duration(wcfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Config{Timeout: timeout}
}
