package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brettbedarf/nstree/internal/util"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultLogLvl keeps the REPL free of log noise unless something goes wrong
	DefaultLogLvl = util.WarnLevel

	// DefaultVerbose is the initial state of the shell's verbose toggle
	DefaultVerbose = false

	// DefaultMaxNameLen is the maximum byte length of a canonical name component
	DefaultMaxNameLen = 64

	// DefaultMaxDepth bounds the ancestor stack used when decoding a saved tree
	DefaultMaxDepth = 1024

	// DefaultPromptOnExit asks whether to save before quitting
	DefaultPromptOnExit = true

	// DefaultColor enables styled output when attached to a terminal
	DefaultColor = true
)

// CLI log verbosity values. See [util.LevelFromVerbosity].
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Environment variable names read by [LoadEnvOverride].
const (
	EnvVerbose      = "NSTREE_VERBOSE"
	EnvLogLevel     = "NSTREE_LOG_LEVEL"
	EnvMaxNameLen   = "NSTREE_MAX_NAME_LEN"
	EnvMaxDepth     = "NSTREE_MAX_DEPTH"
	EnvPromptOnExit = "NSTREE_PROMPT_ON_EXIT"
	EnvColor        = "NSTREE_COLOR"
)

// Config contains runtime configuration values for the simulator.
type Config struct {
	LogLvl       util.LogLevel // Internal log level (Default warn)
	Verbose      bool          // Start the shell in verbose mode (Default false)
	MaxNameLen   int           // Maximum bytes in a canonical name (Default 64)
	MaxDepth     int           // Maximum nesting accepted when reloading (Default 1024)
	PromptOnExit bool          // Ask to save on quit/exit (Default true)
	Color        bool          // Style shell output when stdout is a terminal (Default true)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is the CLI verbosity between 1 (error) and 5 (trace)
	LogLvl       *int  `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Verbose      *bool `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	MaxNameLen   *int  `yaml:"max_name_len,omitempty" json:"max_name_len,omitempty"`
	MaxDepth     *int  `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	PromptOnExit *bool `yaml:"prompt_on_exit,omitempty" json:"prompt_on_exit,omitempty"`
	Color        *bool `yaml:"color,omitempty" json:"color,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:       DefaultLogLvl,
		Verbose:      DefaultVerbose,
		MaxNameLen:   DefaultMaxNameLen,
		MaxDepth:     DefaultMaxDepth,
		PromptOnExit: DefaultPromptOnExit,
		Color:        DefaultColor,
	}
}

// NewConfig creates a Config from defaults with override applied when non-nil
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// Non-positive limits are ignored so a bad file cannot disable validation.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.LevelFromVerbosity(*override.LogLvl)
	}
	if override.Verbose != nil {
		c.Verbose = *override.Verbose
	}
	if override.MaxNameLen != nil && *override.MaxNameLen > 0 {
		c.MaxNameLen = *override.MaxNameLen
	}
	if override.MaxDepth != nil && *override.MaxDepth > 0 {
		c.MaxDepth = *override.MaxDepth
	}
	if override.PromptOnExit != nil {
		c.PromptOnExit = *override.PromptOnExit
	}
	if override.Color != nil {
		c.Color = *override.Color
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}

// LoadEnvOverride reads NSTREE_* keys from a dotenv file into a ConfigOverride.
// Keys missing from the file are left nil; malformed values are an error.
func LoadEnvOverride(path string) (*ConfigOverride, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return overrideFromMap(env)
}

// overrideFromMap converts raw env values into an override
func overrideFromMap(env map[string]string) (*ConfigOverride, error) {
	var o ConfigOverride
	var err error

	if o.Verbose, err = parseEnv(env, EnvVerbose, strconv.ParseBool); err != nil {
		return nil, err
	}
	if o.LogLvl, err = parseEnv(env, EnvLogLevel, strconv.Atoi); err != nil {
		return nil, err
	}
	if o.MaxNameLen, err = parseEnv(env, EnvMaxNameLen, strconv.Atoi); err != nil {
		return nil, err
	}
	if o.MaxDepth, err = parseEnv(env, EnvMaxDepth, strconv.Atoi); err != nil {
		return nil, err
	}
	if o.PromptOnExit, err = parseEnv(env, EnvPromptOnExit, strconv.ParseBool); err != nil {
		return nil, err
	}
	if o.Color, err = parseEnv(env, EnvColor, strconv.ParseBool); err != nil {
		return nil, err
	}
	return &o, nil
}

func parseEnv[T any](env map[string]string, key string, parse func(string) (T, error)) (*T, error) {
	raw, ok := env[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return &v, nil
}
