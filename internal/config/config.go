package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const appName = "tui-listadapter"

// AdapterConfig configures the composite adapter
type AdapterConfig struct {
	StableIDs bool `toml:"stable_ids"`
	// Dispatch is "all" or "stop-on-consume"
	Dispatch string `toml:"dispatch"`
	IDOffset int64  `toml:"id_offset"`
}

// SelectionConfig configures the selection extension
type SelectionConfig struct {
	MultiSelect       bool `toml:"multi_select"`
	SelectOnLongClick bool `toml:"select_on_long_click"`
	AllowDeselection  bool `toml:"allow_deselection"`
}

// ExpansionConfig configures the expansion extension
type ExpansionConfig struct {
	SingleExpanded bool `toml:"single_expanded"`
	AutoExpand     bool `toml:"auto_expand"`
}

// DiffConfig configures list replacement
type DiffConfig struct {
	DetectMoves bool `toml:"detect_moves"`
}

// LogConfig configures the debug log
type LogConfig struct {
	File string `toml:"file"`
}

// Config holds application configuration
type Config struct {
	Theme     string            `toml:"theme"`
	Adapter   AdapterConfig     `toml:"adapter"`
	Selection SelectionConfig   `toml:"selection"`
	Expansion ExpansionConfig   `toml:"expansion"`
	Diff      DiffConfig        `toml:"diff"`
	Log       LogConfig         `toml:"log"`
	Settings  map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their default values
	config := defaultConfig()
	err = toml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults if not specified
	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}

	// Initialize persisted settings if not present
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}

	// Initialize session settings
	config.sessionSettings = make(map[string]string)

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme: "tokyo-night",
		Adapter: AdapterConfig{
			StableIDs: true,
			Dispatch:  "all",
		},
		Selection: SelectionConfig{
			AllowDeselection: true,
		},
		Expansion: ExpansionConfig{
			AutoExpand: true,
		},
		Diff: DiffConfig{
			DetectMoves: true,
		},
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", appName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	// Check session settings first (they override persisted settings)
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	// Fall back to persisted settings
	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetBool reads a setting as a boolean, returning def when it is unset or
// not a boolean
func (c *Config) GetBool(key string, def bool) bool {
	v, err := strconv.ParseBool(c.Get(key))
	if err != nil {
		return def
	}
	return v
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	// First, add all persisted settings
	for k, v := range c.Settings {
		result[k] = v
	}

	// Then override with session settings (they take precedence)
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the TOML file
// Note: This only persists the Settings map, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure the config directory exists
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	// Marshall the config to TOML
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
