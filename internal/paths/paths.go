// Package paths resolves the configuration, task-store, dashboard, and
// journal locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when nothing overrides them.
const (
	DefaultConfigDirName    = ".taskboard"
	DefaultTasksDirName     = "tasks"
	DefaultDashboardDirName = "dashboard"
	JournalFileName         = "journal.db"
	appName                 = "taskboard"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir    = "TASKBOARD_CONFIG_DIR"
	EnvTasksDir     = "TASKBOARD_TASKS_DIR"
	EnvDashboardDir = "TASKBOARD_DASHBOARD_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultDataDir returns the platform-specific directory for persistent
// state such as the sync journal.
//
// Linux:   $XDG_DATA_HOME/taskboard (fallback ~/.local/share/taskboard)
// macOS:   ~/Library/Application Support/taskboard
// Windows: %APPDATA%/taskboard
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// DefaultJournalPath returns DefaultDataDir()/journal.db.
func DefaultJournalPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, JournalFileName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TASKBOARD_CONFIG_DIR env > $(CWD)/.taskboard.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultConfigDirName)
}

// ResolveTasksDir returns the task-store root following the precedence
// chain: flag > config value > TASKBOARD_TASKS_DIR env > $(CWD)/tasks.
func ResolveTasksDir(flag, configValue string) (string, error) {
	return resolve(flag, configValue, EnvTasksDir, DefaultTasksDirName)
}

// ResolveDashboardDir returns the dashboard output directory following the
// precedence chain: flag > config value > TASKBOARD_DASHBOARD_DIR env >
// $(CWD)/dashboard.
func ResolveDashboardDir(flag, configValue string) (string, error) {
	return resolve(flag, configValue, EnvDashboardDir, DefaultDashboardDirName)
}

func resolve(flag, configValue, envName, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(envName); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(defaultName)
}

func cwdJoin(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
