package main

import (
	"strings"
	"testing"
)

// TestGetVersion tests the version fallbacks.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}
	if got := getCommit(); got == "" {
		t.Error("expected non-empty commit")
	}
	if got := getDate(); got == "" {
		t.Error("expected non-empty date")
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"urlcount version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}
