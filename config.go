package facet

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails.
var ErrConfigValidation = errors.New("configuration validation failed")

// Config is the facet project configuration, read from facet.yaml.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Store   StoreConfig   `yaml:"store"`
	AI      AIConfig      `yaml:"ai"`
	Import  ImportConfig  `yaml:"import"`
}

// ProjectConfig names the project.
type ProjectConfig struct {
	Name string `yaml:"name"`
}

// StoreConfig locates the blob store.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file path; empty = in-memory
}

// AIConfig configures the analysis client.
type AIConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // env var holding the key, never the key itself
	Endpoint  string `yaml:"endpoint"`
}

// ImportConfig holds import defaults.
type ImportConfig struct {
	SampleSize int `yaml:"sample_size"` // rows inspected for type detection
}

// DefaultConfig returns the configuration used when no facet.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{Name: "untitled"},
		Store:   StoreConfig{Path: "facet.db"},
		AI: AIConfig{
			Model:     "gemini-2.5-flash-lite",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Import: ImportConfig{SampleSize: 1000},
	}
}

// LoadConfig reads a facet.yaml, expanding ${VAR} references from the
// environment (a .env file is loaded first when present). A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // best effort; absence is not an error

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("%w: project.name must not be empty", ErrConfigValidation)
	}
	if c.Import.SampleSize < 0 {
		return fmt.Errorf("%w: import.sample_size must not be negative", ErrConfigValidation)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
