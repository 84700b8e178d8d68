package llm

import "time"

// Config controls queue behavior
type Config struct {
	// Concurrency control
	MaxConcurrent int // Total concurrent LLM requests

	// Queue sizes
	CriticalQueueSize   int // Player requests (small, rarely queues)
	BackgroundQueueSize int // Background tasks (larger buffer)

	// Timeouts. A stalled model must never stall a game turn, so these
	// are much shorter than typical chat timeouts.
	CriticalTimeout   time.Duration
	BackgroundTimeout time.Duration
}

// TimeoutFor returns the queue default for a priority, applied to
// requests that do not carry their own timeout.
func (c *Config) TimeoutFor(p Priority) time.Duration {
	if p == PriorityCritical {
		return c.CriticalTimeout
	}
	return c.BackgroundTimeout
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrent:       2,
		CriticalQueueSize:   20,
		BackgroundQueueSize: 100,
		CriticalTimeout:     30 * time.Second,
		BackgroundTimeout:   120 * time.Second,
	}
}
