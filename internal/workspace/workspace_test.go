package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if ws.SettingsPath != filepath.Join(root, "goalflow.yml") {
		t.Fatalf("settings path = %s", ws.SettingsPath)
	}
	if ws.AuditDBPath != filepath.Join(root, "audit", "audit.sqlite") {
		t.Fatalf("audit db path = %s", ws.AuditDBPath)
	}

	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs error: %v", err)
	}
	for _, dir := range []string{ws.GoalsDir, ws.AuditDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestResolveRejectsFilesAndMissingRoots(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Resolve(file); err == nil {
		t.Fatalf("expected error for file root")
	}
	if _, err := Resolve(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing root")
	}
	if _, err := Resolve("  "); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	got, err := ws.ResolvePath("goals/q3.yml")
	if err != nil {
		t.Fatalf("ResolvePath error: %v", err)
	}
	if got != filepath.Join(root, "goals", "q3.yml") {
		t.Fatalf("relative path = %s", got)
	}

	abs := filepath.Join(root, "elsewhere", "..", "flow.yml")
	got, err = ws.ResolvePath(abs)
	if err != nil {
		t.Fatalf("ResolvePath error: %v", err)
	}
	if got != filepath.Join(root, "flow.yml") {
		t.Fatalf("absolute path = %s", got)
	}

	if _, err := ws.ResolvePath("~user/goal.yml"); err == nil {
		t.Fatalf("expected error for unsupported home expansion")
	}
}
