package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the taskboard binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "taskboard-test-*")
	if err != nil {
		buildErr = err
		os.Exit(1)
	}
	taskboardBin = filepath.Join(tmpDir, "taskboard")

	cmd := exec.Command("go", "build", "-o", taskboardBin, "./cmd/taskboard")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// Test1_InitializeBoard verifies that init creates every column directory.
func Test1_InitializeBoard(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("init")
	if !strings.Contains(result.Stdout, "Task board initialized") {
		t.Errorf("unexpected init output: %q", result.Stdout)
	}

	for _, col := range []string{"backlog", "todo", "in_progress", "stalled", "done"} {
		if info, err := os.Stat(filepath.Join(env.TasksDir, col)); err != nil || !info.IsDir() {
			t.Errorf("column %s not created: %v", col, err)
		}
	}
}

// Test2_SyncLifecycle runs a dry run, a real sync, and a repeat sync, then
// checks the journal.
func Test2_SyncLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init")
	env.WriteTask("todo", "router.yaml", "title: Fix router\nstatus: done\npriority: high\n")
	env.WriteTask("backlog", "nas.yaml", "title: NAS upgrade\nstatus: in_progress\n")
	env.WriteTask("todo", "dns.yaml", "title: DNS\nstatus: todo\n")

	dry := ParseJSON[SyncResult](t, env.MustRun("--json", "sync", "--dry-run").Stdout)
	if !dry.DryRun || dry.Moved != 2 {
		t.Fatalf("dry run: got %+v", dry)
	}
	if _, err := os.Stat(env.TaskPath("todo", "router.yaml")); err != nil {
		t.Fatalf("dry run moved a file: %v", err)
	}

	res := ParseJSON[SyncResult](t, env.MustRun("--json", "sync").Stdout)
	if res.Moved != 2 || res.Errors != 0 {
		t.Fatalf("sync: got moved=%d errors=%d", res.Moved, res.Errors)
	}
	for _, p := range []string{env.TaskPath("done", "router.yaml"), env.TaskPath("in_progress", "nas.yaml"), env.TaskPath("todo", "dns.yaml")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	for _, p := range []string{env.TaskPath("todo", "router.yaml"), env.TaskPath("backlog", "nas.yaml")} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be gone", p)
		}
	}

	data, err := os.ReadFile(env.TaskPath("done", "router.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "updated: ") || !strings.Contains(string(data), " UTC") {
		t.Errorf("moved task has no updated stamp:\n%s", data)
	}

	again := ParseJSON[SyncResult](t, env.MustRun("--json", "sync").Stdout)
	if again.Moved != 0 {
		t.Errorf("second sync moved %d tasks", again.Moved)
	}

	history := ParseJSON[[]HistoryEntry](t, env.MustRun("--json", "history").Stdout)
	if len(history) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(history))
	}
	if !history[2].DryRun || history[1].Moved != 2 || len(history[1].Moves) != 2 {
		t.Errorf("unexpected history: %+v", history)
	}
}

// Test3_SyncReportsBadRecords verifies exit code 1 and that bad records stay
// where they are.
func Test3_SyncReportsBadRecords(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init")
	env.WriteTask("todo", "bogus.yaml", "title: Bogus\nstatus: someday\n")
	env.WriteTask("todo", "broken.yaml", "title: [unclosed\n")
	env.WriteTask("todo", "ok.yaml", "title: OK\nstatus: done\n")

	result := env.Run("--json", "sync")
	if result.ExitCode != 1 {
		t.Fatalf("expected exit 1, got %d\nstderr: %s", result.ExitCode, result.Stderr)
	}
	res := ParseJSON[SyncResult](t, result.Stdout)
	if res.Moved != 1 || res.Errors != 2 {
		t.Errorf("got moved=%d errors=%d", res.Moved, res.Errors)
	}
	for _, name := range []string{"bogus.yaml", "broken.yaml"} {
		if _, err := os.Stat(env.TaskPath("todo", name)); err != nil {
			t.Errorf("%s should stay in todo: %v", name, err)
		}
	}
}

// Test4_Dashboard verifies both pages and the privacy filter.
func Test4_Dashboard(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init")
	env.WriteTask("todo", "a.yaml", "title: Patch hosts\nstatus: todo\ntags: [ops]\n")
	env.WriteTask("in_progress", "b.yaml", "title: Diary\nstatus: in_progress\nprivate: true\n")
	env.WriteTask("done", "c.yaml", "title: <script>alert(1)</script>\nstatus: done\n")

	env.MustRun("dashboard")

	private, err := os.ReadFile(filepath.Join(env.DashboardDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	public, err := os.ReadFile(filepath.Join(env.DashboardDir, "public.html"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(private), "Diary") {
		t.Error("private dashboard is missing the private task")
	}
	if strings.Contains(string(public), "Diary") {
		t.Error("public dashboard leaks the private task")
	}
	if got := strings.Count(string(public), `class="task-card `); got != 2 {
		t.Errorf("public dashboard: expected 2 cards, got %d", got)
	}
	for name, page := range map[string][]byte{"private": private, "public": public} {
		if strings.Contains(string(page), "<script>alert(1)</script>") {
			t.Errorf("%s dashboard contains an unescaped script tag", name)
		}
	}
}

// Test5_Version prints the version banner.
func Test5_Version(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRun("version")
	if !strings.HasPrefix(result.Stdout, "taskboard v") {
		t.Errorf("unexpected version output: %q", result.Stdout)
	}
}
