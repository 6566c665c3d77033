package harness

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// RepoRoot returns the module root, located from this file's path.
func RepoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve repo root: runtime.Caller failed")
	}
	root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("verify repo root: %v", err)
	}
	return root
}

// BuildBinary compiles cmd/goalflow once per test run and returns the binary path.
func BuildBinary(t *testing.T) string {
	t.Helper()
	root := RepoRoot(t)

	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "goalflow-bin-")
		if err != nil {
			buildErr = fmt.Errorf("create temp dir: %w", err)
			return
		}
		out := filepath.Join(dir, "goalflow")

		cmd := exec.Command("go", "build", "-o", out, "./cmd/goalflow")
		cmd.Dir = root
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			buildErr = fmt.Errorf("go build failed: %w\nstderr:\n%s", err, stderr.String())
			return
		}
		binPath = out
	})

	if buildErr != nil {
		t.Fatalf("build goalflow binary: %v", buildErr)
	}
	return binPath
}

// InitWorkspace runs `goalflow init` in a fresh temp directory and returns its root.
func InitWorkspace(t *testing.T, bin string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "workspace")
	res := Run(t, bin, t.TempDir(), "--workspace", root, "init")
	if res.Code != 0 {
		t.Fatalf("goalflow init exit code %d\n%s", res.Code, res)
	}
	return root
}
