// Package config loads service configuration from a JSON file backend and
// environment variables.
package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Server     ServerConfig
	Ollama     OllamaConfig
	Storage    StorageConfig
	Log        LogConfig
	Extraction ExtractionConfig
}

type ServerConfig struct {
	Port int
	// APIToken guards the management routes when set; empty disables auth.
	APIToken string
}

type OllamaConfig struct {
	BaseURL string
	// Model answers educator tasks and chat.
	Model string
	// ExtractModel infers memory facts; usually the same local model.
	ExtractModel string
}

type StorageConfig struct {
	DataDir string
	// MemoryFile overrides the memory store location; empty means
	// user_memory.json inside DataDir.
	MemoryFile string
}

type LogConfig struct {
	Level string
}

type ExtractionConfig struct {
	// Timeout bounds one extraction round trip, as a duration string.
	Timeout string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		Ollama: OllamaConfig{
			BaseURL:      "http://localhost:11434",
			Model:        "mistral",
			ExtractModel: "mistral",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Extraction: ExtractionConfig{
			Timeout: "30s",
		},
	}
}

// MemoryFilePath resolves the memory store location from the config.
func (c Config) MemoryFilePath() string {
	if c.Storage.MemoryFile != "" {
		return c.Storage.MemoryFile
	}
	return filepath.Join(c.Storage.DataDir, "user_memory.json")
}

// UploadDir is where uploaded study material is stored.
func (c Config) UploadDir() string {
	return filepath.Join(c.Storage.DataDir, "uploads")
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "studymind")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "studymind-data"
	}
	return filepath.Join(home, ".local", "share", "studymind")
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/studymind/config.json, then applies STUDYMIND_*
// environment overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend(defaultConfigPath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "studymind", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "studymind-config.json"
	}
	return filepath.Join(home, ".config", "studymind", "config.json")
}
