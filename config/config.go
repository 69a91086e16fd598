package config

import (
	"os"
	"time"
)

// Quiz timing constants
const (
	QuizTimeLimit        = 30 * time.Minute
	TimeWarningThreshold = 5 * time.Minute
	QuizTickInterval     = time.Second
)

// Cross-tab reconciliation constants
const (
	PollInterval      = 2 * time.Second
	FileWatchInterval = 500 * time.Millisecond
)

// Cache configuration constants
const (
	CacheExpiration      = 5 * time.Minute
	CacheCleanupInterval = 10 * time.Minute
)

// Pagination configuration constants
const (
	DefaultPage       = 1
	DefaultLimit      = 10
	MaxResultsPerPage = 100
)

// Storage collection keys
const (
	UsersKey              = "users"
	SessionsKey           = "activeSessions"
	AttemptsKey           = "quizAttempts"
	ForcedLogoutNoticeKey = "forcedLogoutNotice"
)

// Seed admin credentials
const (
	AdminEmail    = "admin@quiz.com"
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// Settings holds the environment-driven configuration for the demo binary.
type Settings struct {
	StorePath    string
	DBConnection string
	SeedDemoData bool
	LogLevel     string
}

// Load reads settings from the environment, applying defaults.
func Load() Settings {
	s := Settings{
		StorePath:    os.Getenv("STORE_PATH"),
		DBConnection: os.Getenv("DB_CONNECTION"),
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "true",
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}
	if s.StorePath == "" {
		s.StorePath = "quizdata.json"
	}
	return s
}
