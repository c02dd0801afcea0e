package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/keymirror/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	Workspace     WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Replay        ReplayConfig    `mapstructure:"replay" yaml:"replay"`
	Profiles      []ProfileConfig `mapstructure:"profiles" yaml:"profiles"`
	Logging       LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// WorkspaceConfig controls where the tab bar is persisted.
type WorkspaceConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Restore bool   `mapstructure:"restore" yaml:"restore"`
}

// ReplayConfig controls the replay command.
type ReplayConfig struct {
	DefaultSubTab string `mapstructure:"default_sub_tab" yaml:"default_sub_tab"`
	StopOnError   bool   `mapstructure:"stop_on_error" yaml:"stop_on_error"`
}

// ProfileConfig holds the display profile of one server. Profiles are a list
// because viper lowercases map keys and server names are case-sensitive.
type ProfileConfig struct {
	Server        string `mapstructure:"server" yaml:"server"`
	DefaultFilter string `mapstructure:"default_filter" yaml:"default_filter"`
	KeySeparator  string `mapstructure:"key_separator" yaml:"key_separator"`
	MarkColor     string `mapstructure:"mark_color" yaml:"mark_color"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Structured bool   `mapstructure:"structured" yaml:"structured"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".keymirror", "state"),
		Workspace: WorkspaceConfig{
			Name:    "default",
			Restore: false,
		},
		Replay: ReplayConfig{
			DefaultSubTab: schema.DefaultSubTab,
			StopOnError:   false,
		},
		Profiles: []ProfileConfig{},
		Logging: LoggingConfig{
			Level:      "info",
			Structured: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".keymirror", "config.yaml"), nil
}

// ProfileMap converts the configured profiles for the profile registry.
func (c Config) ProfileMap() map[schema.ServerName]schema.Profile {
	out := make(map[schema.ServerName]schema.Profile, len(c.Profiles))
	for _, p := range c.Profiles {
		out[schema.ServerName(p.Server)] = schema.Profile{
			DefaultFilter: p.DefaultFilter,
			KeySeparator:  p.KeySeparator,
			MarkColor:     p.MarkColor,
		}
	}
	return out
}

// RegistryConfig returns the tab registry settings.
func (c Config) RegistryConfig() schema.RegistryConfig {
	return schema.NormalizeRegistryConfig(schema.RegistryConfig{DefaultSubTab: c.Replay.DefaultSubTab})
}
