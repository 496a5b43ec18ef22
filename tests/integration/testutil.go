// Package integration runs the built taskboard binary against temporary task
// stores.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// taskboardBin is the path to the built taskboard binary.
	taskboardBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv is an isolated config directory, task store, dashboard directory,
// and journal.
type TestEnv struct {
	t            *testing.T
	TempDir      string
	ConfigDir    string
	TasksDir     string
	DashboardDir string
	JournalPath  string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build taskboard: %v", buildErr)
	}
	if taskboardBin == "" {
		t.Fatal("taskboard binary not built")
	}

	tempDir := t.TempDir()
	env := &TestEnv{
		t:            t,
		TempDir:      tempDir,
		ConfigDir:    filepath.Join(tempDir, "config"),
		TasksDir:     filepath.Join(tempDir, "tasks"),
		DashboardDir: filepath.Join(tempDir, "dashboard"),
		JournalPath:  filepath.Join(tempDir, "data", "journal.db"),
	}

	if err := os.MkdirAll(env.ConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "tasks_dir: " + env.TasksDir + "\n" +
		"dashboard_dir: " + env.DashboardDir + "\n" +
		"journal: true\n" +
		"journal_path: " + env.JournalPath + "\n"
	if err := os.WriteFile(filepath.Join(env.ConfigDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// CmdResult holds the result of a taskboard command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the taskboard CLI with the given arguments.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(taskboardBin, allArgs...)
	cmd.Dir = e.TempDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run taskboard: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the taskboard CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("taskboard %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// WriteTask writes a task file into a column directory.
func (e *TestEnv) WriteTask(column, name, content string) {
	e.t.Helper()
	dir := filepath.Join(e.TasksDir, column)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write task %s: %v", name, err)
	}
}

// TaskPath returns the path of a task file.
func (e *TestEnv) TaskPath(column, name string) string {
	return filepath.Join(e.TasksDir, column, name)
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// SyncResult mirrors the JSON output of "taskboard --json sync".
type SyncResult struct {
	RunID       string   `json:"run_id"`
	DryRun      bool     `json:"dry_run"`
	Moved       int      `json:"moved"`
	Errors      int      `json:"errors"`
	Diagnostics []string `json:"diagnostics"`
	Moves       []struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
		From     string `json:"from"`
		To       string `json:"to"`
	} `json:"moves"`
}

// HistoryEntry mirrors one element of "taskboard --json history".
type HistoryEntry struct {
	RunID  string `json:"run_id"`
	DryRun bool   `json:"dry_run"`
	Moved  int    `json:"moved"`
	Errors int    `json:"errors"`
	Moves  []struct {
		Filename string `json:"filename"`
		To       string `json:"to"`
	} `json:"moves"`
}
