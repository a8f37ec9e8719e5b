package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configurable blvhist settings.
type Config struct {
	ToolPath     string   `json:"tool_path"`     // blvflag binary path or name on PATH
	HistoryRoot  string   `json:"history_root"`  // snapshot tree root; empty = <home>/blvflag/tool/history
	Partitions   []string `json:"partitions"`    // partition subdirectories searched under the root
	ScriptSuffix string   `json:"script_suffix"` // stripped when deriving the snapshot base name
	DefaultMode  string   `json:"default_mode"`  // "side-by-side" | "text-based"
	TempDir      string   `json:"temp_dir"`      // where comparison artifacts are written
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		ToolPath:     "blvflag",
		Partitions:   []string{"err_history", "std_history"},
		ScriptSuffix: ".py",
		DefaultMode:  "side-by-side",
		TempDir:      os.TempDir(),
	}
}

// DefaultHistoryRoot returns the snapshot tree written by the blvflag runtime:
// <home>/blvflag/tool/history.
func DefaultHistoryRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "blvflag", "tool", "history"), nil
}

// LoadGlobal reads ~/.config/blvhist/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "blvhist", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .blvhistconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".blvhistconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.ToolPath != "" {
			result.ToolPath = c.ToolPath
		}
		if c.HistoryRoot != "" {
			result.HistoryRoot = c.HistoryRoot
		}
		if len(c.Partitions) > 0 {
			result.Partitions = c.Partitions
		}
		if c.ScriptSuffix != "" {
			result.ScriptSuffix = c.ScriptSuffix
		}
		if c.DefaultMode != "" {
			result.DefaultMode = c.DefaultMode
		}
		if c.TempDir != "" {
			result.TempDir = c.TempDir
		}
	}

	apply(global)
	apply(project)
	return result
}

// FromEnv overlays environment variables onto cfg. Values set in the
// environment (directly or via a .env file loaded beforehand) beat both
// config files.
func FromEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("BLVFLAG_BIN")); v != "" {
		cfg.ToolPath = v
	}
	if v := strings.TrimSpace(os.Getenv("BLVFLAG_HISTORY_ROOT")); v != "" {
		cfg.HistoryRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("BLVHIST_MODE")); v != "" {
		cfg.DefaultMode = v
	}
	if v := strings.TrimSpace(os.Getenv("BLVHIST_TEMP_DIR")); v != "" {
		cfg.TempDir = v
	}
	return cfg
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
