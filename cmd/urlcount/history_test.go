package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/nao1215/urlcount/internal/report"
)

// recordRuns counts list twice with different content under the label
// "prod" and returns the database directory.
func recordRuns(t *testing.T, contents ...string) string {
	t.Helper()

	dir := t.TempDir()
	dbDir := t.TempDir()
	list := writeFile(t, dir, "urls.txt", "")
	conf := writeFile(t, dir, "conf.yaml", "sources:\n  "+list+":\n    label: prod\n")

	for _, content := range contents {
		if err := os.WriteFile(list, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}
		if _, _, err := execute(t, "", "count", "--db-dir", dbDir, "-c", conf, list); err != nil {
			t.Fatalf("count failed: %v", err)
		}
	}
	return dbDir
}

// TestHistoryCmd tests listing recorded runs.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no database yet", func(t *testing.T) {
		t.Parallel()

		out, _, err := execute(t, "", "history", "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No runs recorded yet") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("lists sources and runs", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t, "https://a.com\n", "https://a.com\nhttps://b.com\n")

		out, _, err := execute(t, "", "history", "-L", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "  prod") {
			t.Errorf("expected source listing, got:\n%s", out)
		}

		out, _, err = execute(t, "", "history", "--db-dir", dbDir, "prod")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Runs of prod (2)") {
			t.Errorf("expected run table, got:\n%s", out)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t, "https://a.com\n")
		out, _, err := execute(t, "", "history", "--db-dir", dbDir, "nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No runs recorded for nope") {
			t.Errorf("unexpected output: %q", out)
		}
	})
}

// TestCompareCmd tests comparing recorded runs.
func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("compares the latest two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t,
			"https://a.com\nhttps://b.com\nhttps://b.com/x\n",
			"https://b.com\nhttps://c.com\n",
		)

		out, _, err := execute(t, "", "compare", "--db-dir", dbDir, "prod")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"[+] c.com (1)", "[-] a.com (1)", "[*] b.com 2 -> 1 (-1)"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
	})

	t.Run("compares with a given run as JSON", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t, "https://a.com\n", "https://a.com\nhttps://b.com\n", "https://a.com\nhttps://b.com\nhttps://c.com\n")

		out, _, err := execute(t, "", "compare", "-j", "-i", "1", "--db-dir", dbDir, "prod")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc report.JSONComparison
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if doc.Comparison.UniqueDelta != 2 || len(doc.Comparison.AddedHosts) != 2 {
			t.Errorf("unexpected comparison: %+v", doc.Comparison)
		}
	})

	t.Run("single run has nothing to compare", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t, "https://a.com\n")
		_, _, err := execute(t, "", "compare", "--db-dir", dbDir, "prod")
		if !errors.Is(err, errSingleRun) {
			t.Errorf("expected errSingleRun, got %v", err)
		}
	})

	t.Run("unknown run ID", func(t *testing.T) {
		t.Parallel()

		dbDir := recordRuns(t, "https://a.com\n")
		_, _, err := execute(t, "", "compare", "-i", "99", "--db-dir", dbDir, "prod")
		if !errors.Is(err, errRunNotFound) {
			t.Errorf("expected errRunNotFound, got %v", err)
		}
	})

	t.Run("no database", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "", "compare", "--db-dir", t.TempDir(), "prod")
		if !errors.Is(err, errNoRuns) {
			t.Errorf("expected errNoRuns, got %v", err)
		}
	})

	t.Run("requires a source", func(t *testing.T) {
		t.Parallel()

		if _, _, err := execute(t, "", "compare"); err == nil {
			t.Error("expected error without source")
		}
	})
}
