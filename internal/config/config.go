package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/vocabot/pkg/models"
)

// Storage kinds for the progress record
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid configuration")

// Config is the root application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Session    SessionConfig    `yaml:"session"`
	Log        LogConfig        `yaml:"log"`
}

// StorageConfig selects where the progress record lives
type StorageConfig struct {
	Kind         string `yaml:"kind"          env:"STORAGE"       env-default:"file"`
	ProgressPath string `yaml:"progress_path" env:"PROGRESS_PATH" env-default:"data/user_progress.json"`
	DSN          string `yaml:"dsn"           env:"DATABASE_DSN"  env-default:"data/vocabot.db"`
}

// DictionaryConfig holds the remote lookup and local word list settings
type DictionaryConfig struct {
	BaseURL      string        `yaml:"base_url"      env:"DICTIONARY_URL"      env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout      time.Duration `yaml:"timeout"       env:"DICTIONARY_TIMEOUT"  env-default:"5s"`
	WordlistPath string        `yaml:"wordlist_path" env:"WORDLIST_PATH"       env-default:"data/local_words.json"`
	SheetName    string        `yaml:"sheet_name"    env:"WORDLIST_SHEET"      env-default:"Sheet1"`
}

// TelegramConfig holds the bot settings. OwnerID 0 accepts every chat.
type TelegramConfig struct {
	Token   string `yaml:"token"    env:"TELEGRAM_BOT_TOKEN"`
	OwnerID int64  `yaml:"owner_id" env:"TELEGRAM_OWNER_ID" env-default:"0"`
	Debug   bool   `yaml:"debug"    env:"TELEGRAM_DEBUG"    env-default:"false"`
}

// ReminderConfig controls the due-word reminder job
type ReminderConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"ENABLE_SCHEDULER"        env-default:"true"`
	Every     time.Duration `yaml:"every"      env:"REMINDER_INTERVAL"       env-default:"1h"`
	StartHour int           `yaml:"start_hour" env:"NOTIFICATION_START_HOUR" env-default:"8"`
	EndHour   int           `yaml:"end_hour"   env:"NOTIFICATION_END_HOUR"   env-default:"22"`
}

// OpenAIConfig enables generated example sentences when APIKey is set
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	URL    string `yaml:"url"     env:"OPENAI_API_URL" env-default:"https://api.openai.com/v1/chat/completions"`
	Model  string `yaml:"model"   env:"OPENAI_MODEL"   env-default:"gpt-3.5-turbo"`
}

// SessionConfig holds defaults for study and quiz sessions
type SessionConfig struct {
	DefaultLevel string `yaml:"default_level" env:"DEFAULT_LEVEL" env-default:"medium"`
	QuizSize     int    `yaml:"quiz_size"     env:"QUIZ_SIZE"     env-default:"5"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Validate checks value ranges that env-default tags cannot express
func (c *Config) Validate() error {
	switch c.Storage.Kind {
	case StorageFile:
		if c.Storage.ProgressPath == "" {
			return fmt.Errorf("%w: PROGRESS_PATH is empty", ErrInvalid)
		}
	case StorageSQLite, StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is empty", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalid, c.Storage.Kind)
	}

	if c.Dictionary.Timeout <= 0 {
		return fmt.Errorf("%w: DICTIONARY_TIMEOUT must be positive", ErrInvalid)
	}

	level := strings.ToLower(strings.TrimSpace(c.Session.DefaultLevel))
	if models.ParseLevel(level) != models.Level(level) {
		return fmt.Errorf("%w: unknown level %q", ErrInvalid, c.Session.DefaultLevel)
	}
	if c.Session.QuizSize < 1 {
		return fmt.Errorf("%w: QUIZ_SIZE must be at least 1", ErrInvalid)
	}

	if c.Reminder.Enabled {
		if c.Reminder.StartHour < 0 || c.Reminder.StartHour > 23 ||
			c.Reminder.EndHour < 0 || c.Reminder.EndHour > 23 {
			return fmt.Errorf("%w: notification hours must be within 0-23", ErrInvalid)
		}
		if c.Reminder.Every <= 0 {
			return fmt.Errorf("%w: REMINDER_INTERVAL must be positive", ErrInvalid)
		}
	}

	return nil
}
