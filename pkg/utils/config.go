package utils

import (
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds the bot's runtime settings as flat key/value pairs, usually read
// from the environment and an optional .env file
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with a copy of the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config from the process environment after
// loading the given .env files
func NewConfigFromEnv(files ...string) *Config {
	return NewConfig(LoadEnv(files...))
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetIntWithDefault retrieves a configuration value as an integer, falling back
// to the default if the key is missing or not a number
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDurationWithDefault retrieves a configuration value as a time.Duration.
// Both Go duration strings ("15s", "1m30s") and bare seconds ("15", "1.5") are accepted
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}

	return defaultValue
}

// GetLocation resolves a configuration value as a time zone name.
// An empty or unknown zone returns time.Local
func (c *Config) GetLocation(key string) *time.Location {
	name := strings.TrimSpace(c.Get(key))
	if name == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
