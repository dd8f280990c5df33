package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Empty(t, config.Get("anything"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"STATS_FILE": "stats.json",
		}
		config := NewConfig(values)

		assert.Equal(t, "stats.json", config.Get("STATS_FILE"))

		// Verify it's a copy, not a reference
		values["STATS_FILE"] = "modified"
		assert.Equal(t, "stats.json", config.Get("STATS_FILE"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("REFBOT_TEST_KEY=from_file\n"), 0644))
	defer os.Unsetenv("REFBOT_TEST_KEY")

	config := NewConfigFromEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))

	require.NotNil(t, config)
	assert.Equal(t, "from_file", config.Get("REFBOT_TEST_KEY"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
}

func TestConfigGetIntWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"valid_int":   "42",
		"invalid_int": "not_a_number",
		"empty":       "",
	})

	tests := []struct {
		key      string
		expected int
	}{
		{"valid_int", 42},
		{"invalid_int", 999},
		{"empty", 999},
		{"missing", 999},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetIntWithDefault(test.key, 999))
		})
	}
}

func TestConfigGetDurationWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"go_duration": "1m30s",
		"seconds":     "15",
		"fraction":    "1.5",
		"invalid":     "soon",
	})

	tests := []struct {
		key      string
		expected time.Duration
	}{
		{"go_duration", 90 * time.Second},
		{"seconds", 15 * time.Second},
		{"fraction", 1500 * time.Millisecond},
		{"invalid", 7 * time.Second},
		{"missing", 7 * time.Second},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetDurationWithDefault(test.key, 7*time.Second))
		})
	}
}

func TestConfigGetLocation(t *testing.T) {
	config := NewConfig(map[string]string{
		"utc":     "UTC",
		"unknown": "Mars/Olympus_Mons",
	})

	assert.Equal(t, time.UTC, config.GetLocation("utc"))
	assert.Equal(t, time.Local, config.GetLocation("unknown"))
	assert.Equal(t, time.Local, config.GetLocation("missing"))
}

func TestEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	assert.Equal(t, ".env", EnvFile())

	t.Setenv("ENV_FILE", "prod.env")
	assert.Equal(t, "prod.env", EnvFile())
}

func TestConfigThreadSafety(t *testing.T) {
	config := NewConfig(map[string]string{"MENU_DELAY": "1.5", "API_PORT": "8081"})

	var wg sync.WaitGroup
	wg.Add(50)

	for i := 0; i < 50; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				config.Get("API_PORT")
				config.GetDurationWithDefault("MENU_DELAY", 0)
				config.GetIntWithDefault("API_PORT", 0)
			}
		}()
	}

	wg.Wait()
	// Test passes if no data races occur
}
