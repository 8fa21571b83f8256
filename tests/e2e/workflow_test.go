package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath finds a prebuilt taskboard binary, from TASKBOARD_BIN_DIR or ../../bin.
func binaryPath(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("TASKBOARD_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join("..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	path := filepath.Join(binDir, "taskboard")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("taskboard binary not found at %s; build it first", path)
	}
	return path
}

// isolatedEnv points HOME and every TASKBOARD_* setting at tempDir.
func isolatedEnv(tempDir string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "TASKBOARD_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		"TASKBOARD_PASSWORD=correct-horse",
		"TASKBOARD_NOTIFY_TRANSPORT=log",
	)
}

type runner struct {
	t    *testing.T
	bin  string
	env  []string
	args []string
}

func (r runner) run(args ...string) (string, error) {
	cmd := exec.Command(r.bin, append(append([]string{}, r.args...), args...)...)
	cmd.Env = r.env
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (r runner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	if err != nil {
		r.t.Fatalf("taskboard %v failed: %v\nOutput: %s", args, err, out)
	}
	return out
}

func TestEndToEndWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	r := runner{
		t:    t,
		bin:  binaryPath(t),
		env:  isolatedEnv(tempDir),
		args: []string{"--config", filepath.Join(tempDir, "taskboard.db")},
	}

	t.Log("Initializing storage...")
	r.mustRun("init")

	t.Log("Registering...")
	r.mustRun("register", "e2e@example.com")
	r.mustRun("login", "e2e@example.com")
	defer r.run("logout")

	// Sessions persist through the OS keyring; without one each
	// invocation starts signed out.
	if out := r.mustRun("whoami"); !strings.Contains(out, "e2e@example.com") {
		if strings.Contains(out, "Not signed in") {
			t.Skip("no OS keyring available to persist the session")
		}
		t.Fatalf("whoami output = %q", out)
	}

	t.Log("Adding tasks...")
	r.mustRun("task", "add", "Write report", "--slot", "09:00-10:00", "--due", "2026-12-01")
	if out, err := r.run("task", "add", "Standup", "--slot", "09:00-10:00"); err == nil {
		t.Errorf("second task in an occupied slot should fail, got: %s", out)
	}

	if out := r.mustRun("slots"); !strings.Contains(out, "(Occupied)") {
		t.Errorf("slots output should mark the booked slot: %q", out)
	}
	if out := r.mustRun("task", "list", "--filter", "pending"); !strings.Contains(out, "Write report") {
		t.Errorf("task list output = %q", out)
	}

	t.Log("Delivering notifications...")
	if out := r.mustRun("notify", "run", "--once"); !strings.Contains(out, "1 sent") {
		t.Errorf("notify output = %q", out)
	}

	t.Log("Backing up...")
	r.mustRun("backup", "create")
	if out := r.mustRun("backup", "list"); !strings.Contains(out, "taskboard-") {
		t.Errorf("backup list output = %q", out)
	}
}
