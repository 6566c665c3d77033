package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"goalflow/integration/harness"
)

func TestInitSmoke(t *testing.T) {
	bin := harness.BuildBinary(t)
	root := harness.InitWorkspace(t, bin)

	for _, path := range []string{
		filepath.Join(root, "goals"),
		filepath.Join(root, "audit"),
		filepath.Join(root, "goalflow.yml"),
		filepath.Join(root, "goals", "example.yml"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing init path %s: %v", path, err)
		}
	}

	auditPath := filepath.Join(root, "audit", "audit.sqlite")
	requireAuditEvents(t, auditPath, []string{
		"workspace_init_started",
		"workspace_init_finished",
	})

	// A second init keeps an edited settings file.
	settings := filepath.Join(root, "goalflow.yml")
	if err := os.WriteFile(settings, []byte("locale: en\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if res := harness.Run(t, bin, t.TempDir(), "--workspace", root, "init"); res.Code != 0 {
		t.Fatalf("second init exit code %d\n%s", res.Code, res)
	}
	data, err := os.ReadFile(settings)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if string(data) != "locale: en\n" {
		t.Fatalf("settings overwritten:\n%s", data)
	}
}
