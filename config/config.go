package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"heinzbottle/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken          string
	GuildID               string
	LeaderboardsChannelID string
	LogChannelID          string

	// Role configuration
	GuildMemberRoleID   string
	GuestRoleID         string
	HonoraryQuestRoleID string
	TreehardRoleID      string
	TreehardPlusRoleID  string
	ChallengerRoleID    string
	LeaderboarderRoleID string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Hypixel configuration
	HypixelAPIKey   string
	HypixelGuildID  string
	HypixelBaseURL  string
	RedisAddr       string        // Empty uses an in-process cache
	CacheTTL        time.Duration // How long API responses are reused
	RequestInterval time.Duration // Minimum spacing between API requests
	RequestTimeout  time.Duration

	// Leaderboard refresh configuration
	RefreshWorkers  int
	RefreshCooldown time.Duration

	// Status API serving /metrics; empty disables it
	MetricsAddr string

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the server URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.BuildDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		GuildID:               os.Getenv("GUILD_ID"),
		LeaderboardsChannelID: os.Getenv("LEADERBOARDS_CHANNEL_ID"),
		LogChannelID:          os.Getenv("LOG_CHANNEL_ID"),

		GuildMemberRoleID:   os.Getenv("GUILD_MEMBER_ROLE_ID"),
		GuestRoleID:         os.Getenv("GUEST_ROLE_ID"),
		HonoraryQuestRoleID: os.Getenv("HONORARY_QUEST_ROLE_ID"),
		TreehardRoleID:      os.Getenv("TREEHARD_ROLE_ID"),
		TreehardPlusRoleID:  os.Getenv("TREEHARD_PLUS_ROLE_ID"),
		ChallengerRoleID:    os.Getenv("CHALLENGER_ROLE_ID"),
		LeaderboarderRoleID: os.Getenv("LEADERBOARDER_ROLE_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HypixelAPIKey:  os.Getenv("HYPIXEL_API_KEY"),
		HypixelGuildID: os.Getenv("HYPIXEL_GUILD_ID"),
		HypixelBaseURL: getEnvWithDefault("HYPIXEL_BASE_URL", "https://api.hypixel.net"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	var err error
	if config.CacheTTL, err = getDurationWithDefault("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if config.RequestInterval, err = getDurationWithDefault("REQUEST_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if config.RequestTimeout, err = getDurationWithDefault("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.RefreshCooldown, err = getDurationWithDefault("REFRESH_COOLDOWN", 2*time.Hour); err != nil {
		return nil, err
	}
	if config.RefreshWorkers, err = getIntWithDefault("REFRESH_WORKERS", 1); err != nil {
		return nil, err
	}
	if config.RefreshWorkers < 1 {
		return nil, fmt.Errorf("REFRESH_WORKERS must be at least 1")
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.HypixelAPIKey == "" {
			return nil, fmt.Errorf("HYPIXEL_API_KEY is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:     "test",
		LogLevel:        "debug",
		HypixelBaseURL:  "http://localhost",
		CacheTTL:        time.Minute,
		RequestTimeout:  time.Second,
		RefreshWorkers:  1,
		RefreshCooldown: 2 * time.Hour,
	}
}
