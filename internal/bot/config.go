package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Long-poll timeout in seconds
	UpdateTimeout int
	// Maximum number of updates handled at the same time
	Workers int
	// Time allowed for handling a single update
	HandleTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		Workers:       16,
		HandleTimeout: 10 * time.Second,
	}
}
