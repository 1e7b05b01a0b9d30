// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kusari-oss/cfnupd/internal/core/format"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Constants for default paths and values
const (
	DefaultConfigDir      = "cfnupd"
	DefaultConfigFileName = "config.yaml"
	DefaultEditor         = "nano"
	DefaultRegion         = "us-west-2"
	DefaultPollInterval   = 5 * time.Second

	// EnvPrefix prefixes every environment override, e.g. CFNUPD_EDITOR
	EnvPrefix = "CFNUPD"
	// HomeEnvVar replaces the user config directory, mostly for tests
	HomeEnvVar = "CFNUPD_HOME"
)

// Config holds the user configuration
type Config struct {
	Editor       string        `yaml:"editor" mapstructure:"editor"`
	Region       string        `yaml:"region,omitempty" mapstructure:"region"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty" mapstructure:"poll_interval"`
}

// NewDefaultConfig creates a default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Editor:       DefaultEditor,
		PollInterval: DefaultPollInterval,
	}
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("error expanding path %q: %w", path, err)
	}
	return expanded, nil
}

// ConfigFilePath returns the path of the user config file, honouring CFNUPD_HOME
func ConfigFilePath() (string, error) {
	root := os.Getenv(HomeEnvVar)
	if root != "" {
		expanded, err := ExpandPath(root)
		if err != nil {
			return "", err
		}
		root = expanded
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not determine user config directory: %w", err)
		}
		root = dir
	}

	return filepath.Join(root, DefaultConfigDir, DefaultConfigFileName), nil
}

// EnsureConfigFile writes a config file containing only the default editor if
// none exists yet. It reports whether a file was created.
func EnsureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("error checking config file '%s': %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("error creating config directory '%s': %w", filepath.Dir(path), err)
	}

	seed := struct {
		Editor string `yaml:"editor"`
	}{Editor: DefaultEditor}
	if err := format.WriteYAML(path, seed); err != nil {
		return false, fmt.Errorf("error writing config file '%s': %w", path, err)
	}

	return true, nil
}

// LoadConfig layers defaults, the config file at path (if it exists) and
// CFNUPD_* environment variables, in increasing priority. An empty path skips
// the file; a named file that is missing is an error.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config file '%s': %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}

	return cfg, nil
}

// ResolveEditor picks the editor command: explicit flag, then $EDITOR, then the
// config file, then nano
func ResolveEditor(flagValue string, cfg *Config) string {
	if s := strings.TrimSpace(flagValue); s != "" {
		return s
	}
	if s := strings.TrimSpace(os.Getenv("EDITOR")); s != "" {
		return s
	}
	if cfg != nil {
		if s := strings.TrimSpace(cfg.Editor); s != "" {
			return s
		}
	}
	return DefaultEditor
}

func newViper() *viper.Viper {
	defaults := NewDefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("editor", defaults.Editor)
	v.SetDefault("region", defaults.Region)
	v.SetDefault("poll_interval", defaults.PollInterval)
	return v
}
