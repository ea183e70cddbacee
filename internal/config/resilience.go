package config

import (
	"time"

	"xtm_reward_cleaner/internal/retry"
)

// ResilienceConfig holds the retry settings for the two boundary operations a
// cleaning run performs: one bulk read and one bulk write.
type ResilienceConfig struct {
	SheetRead  retry.Config
	SheetWrite retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		Attempts:  4,
		BaseDelay: 2 * time.Second,
		MaxDelay:  30 * time.Second,
		Timeout:   15 * time.Second,
	},
	SheetWrite: retry.Config{
		Attempts:  4,
		BaseDelay: 2 * time.Second,
		MaxDelay:  30 * time.Second,
		Timeout:   30 * time.Second,
	},
}
