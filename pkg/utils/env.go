package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files and returns the
// resulting process environment as a map. Values already set in the environment
// are not overridden by the files
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	// Load each file that exists
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			}
		}
	}

	// Read all environment variables into map
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if ok && key != "" {
			config[key] = value
		}
	}

	return config
}

// EnvFile returns the .env path to load, honouring the ENV_FILE override
func EnvFile() string {
	if file := os.Getenv("ENV_FILE"); file != "" {
		return file
	}
	return ".env"
}
