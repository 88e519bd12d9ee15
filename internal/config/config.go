package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version  int    `toml:"version"`
	DataFile string `toml:"data_file"`
	Search   Search `toml:"search"`
	UI       UI     `toml:"ui"`
}

// Search configures the view controller
type Search struct {
	DebounceMs     int     `toml:"debounce_ms"`
	CaseSensitive  bool    `toml:"case_sensitive"`
	MinQueryLength int     `toml:"min_query_length"`
	PageSize       int     `toml:"page_size"`
	CacheEnabled   bool    `toml:"cache_enabled"`
	MaxCacheSize   int     `toml:"max_cache_size"`
	FuzzyEnabled   bool    `toml:"fuzzy_enabled"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
}

// UI represents UI-related configuration
type UI struct {
	ShowScores     bool `toml:"show_scores"`
	AutosaveOnExit bool `toml:"autosave_on_exit"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// service is the concrete implementation
type service struct {
	filePath string
}

// NewService creates a new config service rooted in the user config
// directory
func NewService() Service {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	dir := filepath.Join(configDir, "siftview")
	os.MkdirAll(dir, 0755)

	return &service{
		filePath: filepath.Join(dir, "siftview.toml"),
	}
}

// NewServiceAt creates a config service bound to an explicit file path
func NewServiceAt(path string) Service {
	return &service{filePath: path}
}

// Load loads the configuration from file
func (s *service) Load() (*Config, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return Default(), nil
	}
	return s.LoadFromPath(s.filePath)
}

// Save saves the configuration to file
func (s *service) Save(config *Config) error {
	return s.SaveToPath(config, s.filePath)
}

// LoadFromPath loads configuration from a specific path
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyFloors(&cfg)
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (s *service) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Version: 1,
		Search: Search{
			DebounceMs:     250,
			PageSize:       20,
			CacheEnabled:   true,
			MaxCacheSize:   10,
			FuzzyEnabled:   true,
			FuzzyThreshold: 0.3,
		},
		UI: UI{
			ShowScores:     false,
			AutosaveOnExit: true,
		},
	}
}

// applyFloors keeps hand-edited config files within sane bounds
func applyFloors(cfg *Config) {
	if cfg.Search.PageSize <= 0 {
		cfg.Search.PageSize = 20
	}
	if cfg.Search.MaxCacheSize < 0 {
		cfg.Search.MaxCacheSize = 0
	}
	if cfg.Search.FuzzyThreshold < 0 {
		cfg.Search.FuzzyThreshold = 0
	}
	if cfg.Search.FuzzyThreshold > 1 {
		cfg.Search.FuzzyThreshold = 1
	}
	if cfg.Search.MinQueryLength < 0 {
		cfg.Search.MinQueryLength = 0
	}
	if cfg.Search.DebounceMs < 0 {
		cfg.Search.DebounceMs = 0
	}
}
