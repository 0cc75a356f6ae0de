// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration. It is loaded once at startup and
// read-only afterwards; the pipeline receives the pieces it needs explicitly.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Upload     UploadConfig     `yaml:"upload"`
	Extraction ExtractionConfig `yaml:"extraction"`
	FileStore  FileStoreConfig  `yaml:"file_store"`
	Generation GenerationConfig `yaml:"generation"`
}

// ServerConfig contains HTTP server configuration. Timeout is the wall-clock
// budget per request; extraction itself has no internal timeout, so this is
// the only bound on OCR and large-PDF latency.
type ServerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode     string `yaml:"mode"`     // "none", "static" or "oidc"
	Token    string `yaml:"token"`    // shared token for "static"
	Issuer   string `yaml:"issuer"`   // identity provider URL for "oidc"
	Audience string `yaml:"audience"` // expected audience for "oidc", optional
}

// UploadConfig contains upload pre-validation limits.
type UploadConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// ExtractionConfig contains the pipeline limits.
type ExtractionConfig struct {
	MaxTextLength int    `yaml:"max_text_length"`
	MinWordCount  int    `yaml:"min_word_count"`
	MaxWordCount  int    `yaml:"max_word_count"`
	OCRLanguage   string `yaml:"ocr_language"`
}

// FileStoreConfig contains document storage backend configuration.
type FileStoreConfig struct {
	Type       string `yaml:"type"`     // "memory" (default), "filesystem", "s3" or "postgres"
	BaseDir    string `yaml:"base_dir"` // for "filesystem"
	DSN        string `yaml:"dsn"`      // for "postgres"
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Prefix   string `yaml:"s3_prefix"`
	S3Endpoint string `yaml:"s3_endpoint"`
}

// GenerationConfig contains the downstream question-generation backend.
// Generation is optional; an empty endpoint disables the feature.
type GenerationConfig struct {
	Endpoint                string        `yaml:"endpoint"`
	APIKey                  string        `yaml:"api_key"`
	Model                   string        `yaml:"model"`
	DefaultMCQCount         int           `yaml:"default_mcq_count"`
	DefaultShortAnswerCount int           `yaml:"default_short_answer_count"`
	MaxQuestionsPerRequest  int           `yaml:"max_questions_per_request"`
	Timeout                 time.Duration `yaml:"timeout"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyEnvOverrides lets environment variables override file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AUTH_MODE"); v != "" {
		cfg.Auth.Mode = v
	}
	if v := os.Getenv("AUTH_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
		if cfg.Auth.Mode == "" {
			cfg.Auth.Mode = "oidc"
		}
	}
	if v := os.Getenv("AUTH_AUDIENCE"); v != "" {
		cfg.Auth.Audience = v
	}

	if v := os.Getenv("MAX_TEXT_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Extraction.MaxTextLength = n
		}
	}
	if v := os.Getenv("OCR_LANGUAGE"); v != "" {
		cfg.Extraction.OCRLanguage = v
	}

	if v := os.Getenv("FILE_STORE_TYPE"); v != "" {
		cfg.FileStore.Type = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.FileStore.S3Bucket = v
		cfg.FileStore.Type = "s3"
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.FileStore.DSN = v
		cfg.FileStore.Type = "postgres"
	}

	if v := os.Getenv("OPENAI_API_ENDPOINT"); v != "" {
		cfg.Generation.Endpoint = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "none"
	}

	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		cfg.Upload.AllowedExtensions = []string{"pdf", "docx", "txt", "jpg", "jpeg", "png"}
	}

	if cfg.Extraction.MaxTextLength == 0 {
		cfg.Extraction.MaxTextLength = 50000
	}
	if cfg.Extraction.MinWordCount == 0 {
		cfg.Extraction.MinWordCount = 50
	}
	if cfg.Extraction.MaxWordCount == 0 {
		cfg.Extraction.MaxWordCount = 10000
	}
	if cfg.Extraction.OCRLanguage == "" {
		cfg.Extraction.OCRLanguage = "eng"
	}

	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "memory"
	}

	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gpt-4o-mini"
	}
	if cfg.Generation.DefaultMCQCount == 0 {
		cfg.Generation.DefaultMCQCount = 3
	}
	if cfg.Generation.DefaultShortAnswerCount == 0 {
		cfg.Generation.DefaultShortAnswerCount = 2
	}
	if cfg.Generation.MaxQuestionsPerRequest == 0 {
		cfg.Generation.MaxQuestionsPerRequest = 10
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = 25 * time.Second
	}
}
