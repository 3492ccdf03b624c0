package cmd

import (
	"context"
	"strings"
	"testing"
)

// Scenario: OutputContext runs a command that writes to stdout.
// Expected: Stdout is returned without error.
func TestOutputContext(t *testing.T) {
	t.Parallel()

	out, err := OutputContext(context.Background(), "", "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("OutputContext: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "hello" {
		t.Errorf("output = %q, want %q", got, "hello")
	}
}

// Scenario: A command fails after writing a diagnostic to stderr.
// Expected: The trimmed stderr text becomes the error message.
func TestRunContextStderrInError(t *testing.T) {
	t.Parallel()

	err := RunContext(context.Background(), "", "sh", "-c", "echo boom >&2; exit 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "boom" {
		t.Errorf("error = %q, want %q", err.Error(), "boom")
	}
}

// Scenario: A command fails without writing anything to stderr.
// Expected: The exec error itself is returned.
func TestRunContextSilentFailure(t *testing.T) {
	t.Parallel()

	err := RunContext(context.Background(), "", "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("error = %q, want exit status", err.Error())
	}
}

// Scenario: RunContext is given a working directory.
// Expected: The command runs inside that directory.
func TestRunContextDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := OutputContext(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("OutputContext: %v", err)
	}
	if got := strings.TrimSpace(string(out)); !strings.HasSuffix(got, dir[strings.LastIndex(dir, "/"):]) {
		t.Errorf("pwd = %q, want suffix of %q", got, dir)
	}
}
