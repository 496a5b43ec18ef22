package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config dir, task store, and journal.
type testEnv struct {
	t         *testing.T
	configDir string
	tasksDir  string
	outDir    string
}

type cmdResult struct {
	stdout string
	stderr string
	code   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		tasksDir:  filepath.Join(dir, "tasks"),
		outDir:    filepath.Join(dir, "www"),
	}
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	cfg := "journal: true\njournal_path: " + filepath.Join(dir, "data", "journal.db") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte(cfg), 0o644))
	return env
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"--config-dir", e.configDir, "--tasks-dir", e.tasksDir}, args...)
	code := Run(context.Background(), all, &stdout, &stderr)
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.code, "taskboard %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res
}

func (e *testEnv) writeTask(column, name, content string) {
	e.t.Helper()
	dir := filepath.Join(e.tasksDir, column)
	require.NoError(e.t, os.MkdirAll(dir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.stdout, "taskboard v"+Version)
	assert.Contains(t, res.stdout, modulePath)
}

func TestInitCreatesColumns(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("init")
	assert.Contains(t, res.stdout, "Task board initialized")

	for _, col := range []string{"backlog", "todo", "in_progress", "stalled", "done"} {
		info, err := os.Stat(filepath.Join(env.tasksDir, col))
		require.NoError(t, err, col)
		assert.True(t, info.IsDir())
	}

	// Idempotent.
	env.mustRun("init")
}

func TestInitWritesTasksDirToNewConfig(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "fresh")
	tasksDir := filepath.Join(dir, "store")

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"--config-dir", configDir, "--tasks-dir", tasksDir, "init"}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tasks_dir: "+tasksDir)
}

func TestSyncMovesAndRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.writeTask("todo", "router.yaml", "title: Fix router\nstatus: done\n")
	env.writeTask("todo", "backup.yaml", "title: Backups\nstatus: todo\n")

	res := env.mustRun("sync")
	assert.Contains(t, res.stdout, "Moved: Fix router")
	assert.Contains(t, res.stdout, "Synced 1 task(s) to correct directories")

	_, err := os.Stat(filepath.Join(env.tasksDir, "done", "router.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.tasksDir, "todo", "router.yaml"))
	assert.True(t, os.IsNotExist(err))

	res = env.mustRun("sync")
	assert.Contains(t, res.stdout, "All tasks are already in correct directories")

	res = env.mustRun("--json", "history")
	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Moved, "newest run first")
	assert.Equal(t, 1, entries[1].Moved)
	require.Len(t, entries[1].Moves, 1)
	assert.Equal(t, "router.yaml", entries[1].Moves[0].Filename)
	assert.Equal(t, "done", entries[1].Moves[0].To)
}

func TestSyncInvalidStatusExitsOne(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.writeTask("todo", "odd.yaml", "title: Odd\nstatus: bogus\n")

	res := env.run("sync")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stdout, "Invalid status 'bogus' in odd.yaml, skipping")
	assert.Contains(t, res.stdout, "Encountered 1 error(s)")

	_, err := os.Stat(filepath.Join(env.tasksDir, "todo", "odd.yaml"))
	assert.NoError(t, err, "file stays in place")
}

func TestSyncDryRun(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.writeTask("backlog", "a.yaml", "title: A\nstatus: in_progress\n")

	res := env.mustRun("sync", "--dry-run")
	assert.Contains(t, res.stdout, "Would move: A")

	_, err := os.Stat(filepath.Join(env.tasksDir, "backlog", "a.yaml"))
	assert.NoError(t, err)
}

func TestDashboardWritesBothViews(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.writeTask("todo", "a.yaml", "title: Public thing\nstatus: todo\n")
	env.writeTask("todo", "b.yaml", "title: Secret thing\nstatus: todo\nprivate: true\n")

	res := env.mustRun("dashboard", "--output-dir", env.outDir)
	assert.Contains(t, res.stdout, "Dashboard generation complete!")

	private, err := os.ReadFile(filepath.Join(env.outDir, "index.html"))
	require.NoError(t, err)
	public, err := os.ReadFile(filepath.Join(env.outDir, "public.html"))
	require.NoError(t, err)

	assert.Contains(t, string(private), "Secret thing")
	assert.NotContains(t, string(public), "Secret thing")
	assert.Contains(t, string(public), "Public thing")
}

func TestDashboardReportsMissingColumns(t *testing.T) {
	env := newTestEnv(t)
	env.writeTask("todo", "a.yaml", "title: A\nstatus: todo\n")

	res := env.mustRun("dashboard", "--output-dir", env.outDir)
	assert.Contains(t, res.stdout, "Warning: Directory")
	assert.Contains(t, res.stdout, "does not exist")
}

func TestDashboardUnwritableOutputExitsTwo(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	res := env.run("dashboard", "--output-dir", filepath.Join(blocker, "out"))
	assert.Equal(t, exitSysError, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.writeTask("done", "a.yaml", "title: A\nstatus: done\npriority: high\ncategory: infra\n")
	env.writeTask("todo", "b.yaml", "title: B\nstatus: todo\nprivate: true\ncategory: secret\n")

	res := env.mustRun("--json", "stats")
	var all struct {
		Total          int            `json:"total"`
		Columns        map[string]int `json:"columns"`
		CompletionRate float64        `json:"completion_rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &all))
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, 1, all.Columns["done"])
	assert.Equal(t, 50.0, all.CompletionRate)

	res = env.mustRun("stats", "--public")
	assert.Contains(t, res.stdout, "Public tasks: 1")
	assert.Contains(t, res.stdout, "infra")
	assert.NotContains(t, res.stdout, "secret")
}

func TestHistoryJournalDisabled(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("journal: false\n"), 0o644))

	res := env.run("history")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "journal is disabled")
}

func TestHistoryEmpty(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("history")
	assert.Equal(t, "No sync runs recorded", strings.TrimSpace(res.stdout))
}

func TestUnknownCommandExitsOne(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("frobnicate")
	assert.Equal(t, exitUserError, res.code)
}
