package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gh-labeler/pkg/labels"
)

// EnvConfigPath overrides the location of the configuration file
const EnvConfigPath = "GH_LABELER_CONFIG"

// DefaultOperationTimeout bounds a single label operation when the config sets none
const DefaultOperationTimeout = 30 * time.Second

// Config represents the gh-labeler configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	AWS    AWSConfig    `yaml:"aws"`
	Sync   SyncConfig   `yaml:"sync"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	// TokenSecret names an AWS Secrets Manager secret holding the token
	TokenSecret string `yaml:"token_secret,omitempty"`
	Repository  string `yaml:"repository,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// AWSConfig selects the AWS credentials used for S3 sources and Secrets Manager
type AWSConfig struct {
	Region  string `yaml:"region,omitempty"`
	Profile string `yaml:"profile,omitempty"`
}

// SyncConfig holds defaults for sync runs
type SyncConfig struct {
	AllowAddedLabels bool          `yaml:"allow_added_labels"`
	OperationTimeout time.Duration `yaml:"operation_timeout,omitempty"`
	MaxRetries       *int          `yaml:"max_retries,omitempty"`
}

// Timeout returns the per-operation timeout, falling back to the default
func (s SyncConfig) Timeout() time.Duration {
	if s.OperationTimeout <= 0 {
		return DefaultOperationTimeout
	}
	return s.OperationTimeout
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path. The file may
// hold a token, so it is only readable by the owner.
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the configuration file path, honoring GH_LABELER_CONFIG
func GetConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".gh-labeler", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHub.Repository != "" {
		if _, err := labels.ParseRepository(c.GitHub.Repository); err != nil {
			return fmt.Errorf("github.repository: %w", err)
		}
	}

	if c.GitHub.BaseURL != "" {
		u, err := url.Parse(c.GitHub.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("github.base_url must be an absolute URL, got %q", c.GitHub.BaseURL)
		}
	}

	if c.Sync.OperationTimeout < 0 {
		return fmt.Errorf("sync.operation_timeout must not be negative")
	}

	if c.Sync.MaxRetries != nil && *c.Sync.MaxRetries < 0 {
		return fmt.Errorf("sync.max_retries must not be negative")
	}

	return nil
}
