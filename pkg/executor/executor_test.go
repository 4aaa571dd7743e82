package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	e := New()
	out, err := e.Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want hello", out)
	}
}

func TestExecuteFailureIncludesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := New().Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should carry stderr", err)
	}

	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %T should be a *CommandError", err)
	}
	if cerr.ExitCode != 3 || cerr.Name != "sh" || cerr.Stderr != "boom" {
		t.Errorf("CommandError = %+v", cerr)
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	_, err := New().Execute(context.Background(), "ingest-flow-no-such-binary")

	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %T should be a *CommandError", err)
	}
	if cerr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", cerr.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error %v should wrap exec.ErrNotFound", err)
	}
}

func TestTail(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}

	got := tail(b.String(), 3)
	if got != "line 28\nline 29\nline 30" {
		t.Errorf("tail() = %q", got)
	}
	if tail("  \n", 3) != "" {
		t.Error("tail() of blank output should be empty")
	}
}

func TestExecuteInDir(t *testing.T) {
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	out, err := New().ExecuteInDir(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("ExecuteInDir() = %q, want %q", out, dir)
	}
}
