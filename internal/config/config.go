// Package config loads config.yaml from the configuration directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// FileName is the config file inside the configuration directory.
	FileName = "config.yaml"

	KeyTasksDir     = "tasks_dir"
	KeyDashboardDir = "dashboard_dir"
	KeyJournal      = "journal"
	KeyJournalPath  = "journal_path"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# taskboard configuration

# Task store root holding the column directories (overridable by --tasks-dir)
# tasks_dir: tasks

# Dashboard output directory (overridable by dashboard --output-dir)
# dashboard_dir: dashboard

# Record sync passes in a SQLite journal
journal: true

# Journal location (default: platform data directory)
# journal_path:
`

// Config is the resolved content of config.yaml. Empty directory fields mean
// "not set"; callers fall through to environment and defaults.
type Config struct {
	TasksDir     string `yaml:"tasks_dir,omitempty"`
	DashboardDir string `yaml:"dashboard_dir,omitempty"`
	Journal      bool   `yaml:"journal"`
	JournalPath  string `yaml:"journal_path,omitempty"`
}

// Load reads config.yaml from configDir using Viper. It creates the directory
// and a default config.yaml on first run. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyJournal, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		TasksDir:     v.GetString(KeyTasksDir),
		DashboardDir: v.GetString(KeyDashboardDir),
		Journal:      v.GetBool(KeyJournal),
		JournalPath:  v.GetString(KeyJournalPath),
	}, nil
}

// WriteIfMissing writes cfg to configDir/config.yaml unless the file exists.
// It reports whether a file was written.
func WriteIfMissing(configDir string, cfg Config) (bool, error) {
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, FileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
