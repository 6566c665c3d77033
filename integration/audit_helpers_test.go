package integration_test

import (
	"testing"

	"goalflow/internal/audit"
)

func auditTypeCounts(t *testing.T, dbPath string) map[string]int {
	t.Helper()
	events, err := audit.NewLogger(dbPath).Recent(1000)
	if err != nil {
		t.Fatalf("read audit events: %v", err)
	}
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Type]++
	}
	return counts
}

func requireAuditEvents(t *testing.T, dbPath string, want []string) {
	t.Helper()
	counts := auditTypeCounts(t, dbPath)
	for _, eventType := range want {
		if counts[eventType] == 0 {
			t.Fatalf("missing audit event %s in %s", eventType, dbPath)
		}
	}
}
