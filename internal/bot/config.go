package bot

import (
	"github.com/example/vocabot/internal/config"
	"github.com/example/vocabot/pkg/models"
)

const (
	// maxSessionWords bounds /study and /quiz arguments
	maxSessionWords = 20
	// reviewPageSize is the number of due words shown per /review
	reviewPageSize = 10
	// maxMessageLen keeps messages under the Telegram limit of 4096 characters
	maxMessageLen = 4000
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram user allowed to talk to the bot, 0 allows everyone
	OwnerID int64
	// Number of questions in a quiz
	QuizSize int
	// Level of the words used for quizzes
	QuizLevel models.Level
	// Verbose Telegram API logging
	Debug bool
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		QuizSize:  5,
		QuizLevel: models.LevelMedium,
	}
}

// ConfigFrom builds the bot configuration from the application config
func ConfigFrom(cfg *config.Config) *BotConfig {
	c := DefaultConfig()
	c.OwnerID = cfg.Telegram.OwnerID
	c.Debug = cfg.Telegram.Debug
	if cfg.Session.QuizSize > 0 {
		c.QuizSize = cfg.Session.QuizSize
	}
	c.QuizLevel = models.ParseLevel(cfg.Session.DefaultLevel)
	return c
}
