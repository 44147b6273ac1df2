// Package config provides application-wide configuration. Precedence, lowest
// to highest: built-in defaults, an optional YAML file, environment
// variables. All fields have safe defaults so the binaries run locally
// without any setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the caretaker binaries.
type Config struct {
	// Model gateway
	Provider      string `yaml:"provider"`        // CARETAKER_PROVIDER — "llamacpp" | "ollama"
	LlamaBaseURL  string `yaml:"llama_base_url"`  // CARETAKER_LLAMA_BASE_URL
	LlamaModel    string `yaml:"llama_model"`     // CARETAKER_LLAMA_MODEL
	OllamaBaseURL string `yaml:"ollama_base_url"` // CARETAKER_OLLAMA_BASE_URL
	OllamaModel   string `yaml:"ollama_model"`    // CARETAKER_OLLAMA_MODEL

	// Pipeline
	Persona string `yaml:"persona"` // CARETAKER_PERSONA — "decision" | "explainer"

	// HTTP service
	HTTPHost string `yaml:"http_host"` // CARETAKER_HTTP_HOST
	HTTPPort int    `yaml:"http_port"` // CARETAKER_HTTP_PORT

	// Diagnostics (sqlite). Empty path disables recording.
	DiagDBPath string `yaml:"diag_db_path"` // CARETAKER_DIAG_DB_PATH
}

const (
	envKeyProvider      = "CARETAKER_PROVIDER"
	envKeyLlamaBaseURL  = "CARETAKER_LLAMA_BASE_URL"
	envKeyLlamaModel    = "CARETAKER_LLAMA_MODEL"
	envKeyOllamaBaseURL = "CARETAKER_OLLAMA_BASE_URL"
	envKeyOllamaModel   = "CARETAKER_OLLAMA_MODEL"
	envKeyPersona       = "CARETAKER_PERSONA"
	envKeyHTTPHost      = "CARETAKER_HTTP_HOST"
	envKeyHTTPPort      = "CARETAKER_HTTP_PORT"
	envKeyDiagDBPath    = "CARETAKER_DIAG_DB_PATH"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:      "llamacpp",
		LlamaBaseURL:  "http://localhost:8081",
		LlamaModel:    "local-mistral",
		OllamaBaseURL: "http://localhost:11434",
		OllamaModel:   "mistral:7b-instruct",
		Persona:       "explainer",
		HTTPHost:      "0.0.0.0",
		HTTPPort:      5000,
		DiagDBPath:    "",
	}
}

// Load builds the effective configuration. path names an optional YAML file;
// an empty path skips the file layer, a named-but-missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides cfg fields from environment variables.
func applyEnv(cfg *Config) {
	cfg.Provider = envOr(envKeyProvider, cfg.Provider)
	cfg.LlamaBaseURL = envOr(envKeyLlamaBaseURL, cfg.LlamaBaseURL)
	cfg.LlamaModel = envOr(envKeyLlamaModel, cfg.LlamaModel)
	cfg.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.OllamaBaseURL)
	cfg.OllamaModel = envOr(envKeyOllamaModel, cfg.OllamaModel)
	cfg.Persona = envOr(envKeyPersona, cfg.Persona)
	cfg.HTTPHost = envOr(envKeyHTTPHost, cfg.HTTPHost)
	cfg.DiagDBPath = envOr(envKeyDiagDBPath, cfg.DiagDBPath)
	if v := os.Getenv(envKeyHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.HTTPPort = port
		}
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
