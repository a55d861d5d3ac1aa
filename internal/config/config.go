// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "termframe"
	// LocalConfigFileName is the per-project config file looked up in the
	// working directory.
	LocalConfigFileName = ".termframe.yml"
	// ConfigFileName is the file name inside the platform config directory.
	ConfigFileName = "config.yml"
)

// ConfigDir returns the termframe configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Missing config files are not an error; defaults
// apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetConfigType("yaml")

	defaults := DefaultConfig()
	v.SetDefault("terminal_width", defaults.TerminalWidth)
	v.SetDefault("terminal_theme", defaults.TerminalTheme)
	v.SetDefault("use_pty", defaults.UsePTY)
	v.SetDefault("min_pct_diff", defaults.MinPctDiff)
	v.SetDefault("skip_change_regex", defaults.SkipChangeRegex)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("parallel", defaults.Parallel)

	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		if fileExists(LocalConfigFileName) {
			resolvedPath = LocalConfigFileName
		} else {
			cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
			if err != nil {
				return nil, "", err
			}
			globalPath := filepath.Join(cfgDir, ConfigFileName)
			if fileExists(globalPath) {
				resolvedPath = globalPath
			}
		}
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %q: %w", resolvedPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeOptions()...); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", &InvalidConfigError{Path: resolvedPath, Errs: errs}
	}

	return &cfg, resolvedPath, nil
}

// decodeOptions configures unmarshalling: durations accept "30s" style
// strings, and scalar yaml values coerce weakly so "80" works for an int
// field.
func decodeOptions() []viper.DecoderConfigOption {
	return []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
		func(dc *mapstructure.DecoderConfig) {
			dc.WeaklyTypedInput = true
		},
	}
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}
