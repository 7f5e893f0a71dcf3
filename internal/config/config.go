package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed by reference into every component; there is no
// package-level state.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	Uploads       UploadsConfig       `toml:"uploads"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Analysis      AnalysisConfig      `toml:"analysis"`
	Logging       LoggingConfig       `toml:"logging"`

	// OpenAIAPIKey is read from the OPENAI_API_KEY environment variable at
	// startup, never from the config file.
	OpenAIAPIKey string `toml:"-"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// StorageConfig represents SQLite storage configuration
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UploadsConfig represents audio upload handling configuration
type UploadsConfig struct {
	TempDir  string `toml:"temp_dir"`
	MaxBytes int64  `toml:"max_bytes"`
}

// TranscriptionConfig represents the speech-to-text collaborator configuration
type TranscriptionConfig struct {
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AnalysisConfig represents the LLM analysis collaborator configuration
type AnalysisConfig struct {
	Model            string  `toml:"model"`
	Temperature      float64 `toml:"temperature"`
	TimeoutSeconds   int     `toml:"timeout_seconds"`
	RetryMaxAttempts int     `toml:"retry_max_attempts"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a configuration with sensible defaults for every field.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			CORSAllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			DBPath: "call_analysis.db",
		},
		Uploads: UploadsConfig{
			TempDir:  os.TempDir(),
			MaxBytes: 64 << 20, // 64 MiB
		},
		Transcription: TranscriptionConfig{
			Model:          "whisper-1",
			Language:       "en",
			TimeoutSeconds: 120,
		},
		Analysis: AnalysisConfig{
			Model:            "gpt-4o-mini",
			Temperature:      0.2,
			TimeoutSeconds:   60,
			RetryMaxAttempts: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the TOML config at path on top of the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
