package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	// Data storage
	DataFile string `yaml:"data_file" json:"data_file"` // Path to the local storage database

	// Simulated backend knobs
	MockLatencyScale float64 `yaml:"mock_latency_scale" json:"mock_latency_scale"` // Multiplier on simulated delays; 0 disables them
	MockFailRate     float64 `yaml:"mock_fail_rate" json:"mock_fail_rate"`         // Toggle failure probability
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	// A .env next to the binary can override the environment, mainly
	// for development runs.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	logPath := ""
	dataPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".taskdeck", "logs", "taskdeck.log")
		dataPath = filepath.Join(home, ".taskdeck", "taskdeck.db")
	}

	return &Config{
		LogLevel:         getEnv("TASKDECK_LOG_LEVEL", "INFO"),
		LogFile:          getEnv("TASKDECK_LOG_FILE", logPath),
		LogConsole:       getEnv("TASKDECK_LOG_CONSOLE", "false") == "true",
		DataFile:         getEnv("TASKDECK_DATA_FILE", dataPath),
		MockLatencyScale: getEnvFloat("TASKDECK_MOCK_LATENCY_SCALE", 1.0),
		MockFailRate:     getEnvFloat("TASKDECK_MOCK_FAIL_RATE", 0.1),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", "config.yaml"), nil
}

// Load loads config from ~/.taskdeck/config.yaml, falling back to
// defaults when the file does not exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads config from the given path
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.taskdeck/config.yaml
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo saves config to the given path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
