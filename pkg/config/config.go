/*
Package config manages TOML config for prefixrank services.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/prefixrank/internal/utils"
	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Tree   TreeConfig   `toml:"tree"`
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
	Log    LogConfig    `toml:"log"`
}

// TreeConfig selects the prefix tree behind every engine.
type TreeConfig struct {
	Kind       string `toml:"kind"`
	WeightMode string `toml:"weight_mode"`
	MaxDepth   int    `toml:"max_depth"`
}

// EngineConfig holds tokenization and source options.
type EngineConfig struct {
	Kind          string  `toml:"kind"`
	Source        string  `toml:"source"`
	CacheSize     int     `toml:"cache_size"`
	DefaultWeight float64 `toml:"default_weight"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	MinPrefix    int `toml:"min_prefix"`
	MaxPrefix    int `toml:"max_prefix"`
	DefaultLimit int `toml:"default_limit"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	Color        bool `toml:"color"`
}

// LogConfig holds the log level and optional rotating log file.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Engine kinds.
const (
	EngineLetter   = "letter"
	EngineSentence = "sentence"
	EngineMelody   = "melody"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			Kind:       prefixtree.Compressed.String(),
			WeightMode: prefixtree.Sum.String(),
			MaxDepth:   prefixtree.DefaultMaxDepth,
		},
		Engine: EngineConfig{
			Kind:          EngineLetter,
			CacheSize:     1024,
			DefaultWeight: 1,
		},
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    0,
			MaxPrefix:    120,
			DefaultLimit: 20,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			Color:        true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate replaces unknown or out of range values with defaults, logging
// each replacement.
func (c *Config) Validate() {
	def := DefaultConfig()

	if _, err := prefixtree.ParseKind(c.Tree.Kind); err != nil {
		log.Warnf("Invalid tree kind %q, using %q", c.Tree.Kind, def.Tree.Kind)
		c.Tree.Kind = def.Tree.Kind
	}
	if _, err := prefixtree.ParseWeightMode(c.Tree.WeightMode); err != nil {
		log.Warnf("Invalid weight mode %q, using %q", c.Tree.WeightMode, def.Tree.WeightMode)
		c.Tree.WeightMode = def.Tree.WeightMode
	}
	if c.Tree.MaxDepth < 0 {
		c.Tree.MaxDepth = def.Tree.MaxDepth
	}

	c.Engine.Kind = strings.ToLower(strings.TrimSpace(c.Engine.Kind))
	switch c.Engine.Kind {
	case EngineLetter, EngineSentence, EngineMelody:
	default:
		log.Warnf("Invalid engine kind %q, using %q", c.Engine.Kind, def.Engine.Kind)
		c.Engine.Kind = def.Engine.Kind
	}
	if c.Engine.CacheSize < 0 {
		c.Engine.CacheSize = 0
	}
	if !(c.Engine.DefaultWeight > 0) {
		c.Engine.DefaultWeight = def.Engine.DefaultWeight
	}

	if c.Server.MaxLimit <= 0 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MinPrefix < 0 {
		c.Server.MinPrefix = 0
	}
	if c.Server.MaxPrefix < c.Server.MinPrefix {
		log.Warnf("max_prefix %d is below min_prefix %d, using %d", c.Server.MaxPrefix, c.Server.MinPrefix, def.Server.MaxPrefix)
		c.Server.MaxPrefix = max(def.Server.MaxPrefix, c.Server.MinPrefix)
	}
	if c.Server.DefaultLimit <= 0 || c.Server.DefaultLimit > c.Server.MaxLimit {
		c.Server.DefaultLimit = min(def.Server.DefaultLimit, c.Server.MaxLimit)
	}

	if c.CLI.DefaultLimit < 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		log.Warnf("Invalid log level %q, using %q", c.Log.Level, def.Log.Level)
		c.Log.Level = def.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = 0
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/prefixrank
// 2. os.UserConfigDir()/prefixrank
// 3. Current executable dir
func GetConfigDir() (string, error) {
	if homeDir, err := os.UserHomeDir(); err == nil {
		primaryPath := filepath.Join(homeDir, ".config", "prefixrank")
		if utils.WritableDir(primaryPath) {
			return primaryPath, nil
		}
	} else {
		log.Errorf("Failed to get home directory: %v", err)
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		fallback := filepath.Join(userDir, "prefixrank")
		if utils.WritableDir(fallback) {
			return fallback, nil
		}
	}
	execPath, err := os.Executable()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: ~/.config/prefixrank/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not decode as a whole
// is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse keeps every value that still has the right type.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "tree"); ok {
		extractTreeConfig(section, &config.Tree)
	}
	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	config.Validate()
	return config, nil
}

func extractTreeConfig(data map[string]any, tree *TreeConfig) {
	if val, ok := utils.ExtractString(data, "kind"); ok {
		tree.Kind = val
	}
	if val, ok := utils.ExtractString(data, "weight_mode"); ok {
		tree.WeightMode = val
	}
	if val, ok := utils.ExtractInt64(data, "max_depth"); ok {
		tree.MaxDepth = val
	}
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractString(data, "kind"); ok {
		engine.Kind = val
	}
	if val, ok := utils.ExtractString(data, "source"); ok {
		engine.Source = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
	if val, ok := utils.ExtractFloat(data, "default_weight"); ok {
		engine.DefaultWeight = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

func extractLogConfig(data map[string]any, l *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		l.Level = val
	}
	if val, ok := utils.ExtractString(data, "file"); ok {
		l.File = val
	}
	if val, ok := utils.ExtractInt64(data, "max_size_mb"); ok {
		l.MaxSizeMB = val
	}
	if val, ok := utils.ExtractInt64(data, "max_backups"); ok {
		l.MaxBackups = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server limits and saves to file when configPath is set.
func (c *Config) Update(configPath string, maxLimit, minPrefix, maxPrefix *int) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	c.Validate()
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
