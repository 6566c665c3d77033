package harness

import (
	"bytes"
	"fmt"
	"os/exec"
	"testing"
)

// Result is the captured outcome of one CLI invocation.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

func (r Result) String() string {
	return fmt.Sprintf("stdout:\n%s\nstderr:\n%s", r.Stdout, r.Stderr)
}

// Run executes the CLI in workDir.
func Run(t *testing.T, bin, workDir string, args ...string) Result {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	if err := cmd.Run(); err != nil {
		ee, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("run %s: %v", bin, err)
		}
		res.Code = ee.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}
