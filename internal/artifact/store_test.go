package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devbridge/devbridge/internal/core"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"a/b/c.txt", "a_b_c.txt"},
		{`a\b.txt`, "a_b.txt"},
		{"../../etc/passwd", "__etc_passwd"},
		{"my summary  file.md", "my_summary_file.md"},
		{"..", "_"},
		{"", "_"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameNeverEscapesDirectory(t *testing.T) {
	inputs := []string{
		"../../etc/passwd",
		"..\\..\\windows\\system32",
		"/absolute/path",
		"nested/../../up",
		".. .. ..",
	}
	base := t.TempDir()
	for _, in := range inputs {
		joined := filepath.Join(base, SanitizeFileName(in))
		if filepath.Dir(joined) != base {
			t.Errorf("sanitized %q resolves outside %s: %s", in, base, joined)
		}
	}
}

func TestSaveSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "summaries"), filepath.Join(dir, "bugreports"))

	content := "line one\nline two\x00binary tail"
	path, err := store.SaveSummary("session notes.md", content)
	if err != nil {
		t.Fatalf("save summary: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Fatalf("expected absolute path, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != content {
		t.Fatalf("round trip mismatch: %q != %q", data, content)
	}
}

func TestSaveSummaryTraversalStaysInside(t *testing.T) {
	dir := t.TempDir()
	summaries := filepath.Join(dir, "summaries")
	store := NewStore(summaries, filepath.Join(dir, "bugreports"))

	path, err := store.SaveSummary("../../etc/passwd", "x")
	if err != nil {
		t.Fatalf("save summary: %v", err)
	}
	absSummaries, _ := filepath.Abs(summaries)
	if filepath.Dir(path) != absSummaries {
		t.Fatalf("summary escaped its directory: %s", path)
	}
}

func TestSaveSummaryOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, dir)

	if _, err := store.SaveSummary("a.txt", "first"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	path, err := store.SaveSummary("a.txt", "second")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestSaveSummaryFilesystemFailureIsCoded(t *testing.T) {
	dir := t.TempDir()
	// A file where the summaries directory should be forces MkdirAll to fail.
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := NewStore(blocked, dir)

	_, err := store.SaveSummary("a.txt", "x")
	if err == nil {
		t.Fatal("expected failure")
	}
	if core.ErrorCode(err) != core.CodeFilesystemFailure {
		t.Fatalf("expected filesystem_failure, got %s", core.ErrorCode(err))
	}
}

func TestBugreportPathTimestampIsFilesystemSafe(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, filepath.Join(dir, "bugreports"))

	now := time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)
	path, err := store.BugreportPath("ABC123", now)
	if err != nil {
		t.Fatalf("bugreport path: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "bugreport-ABC123-") || !strings.HasSuffix(name, ".txt") {
		t.Fatalf("unexpected name: %s", name)
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, "bugreport-ABC123-"), ".txt")
	if strings.ContainsAny(stamp, ":.") {
		t.Fatalf("timestamp not sanitized: %s", stamp)
	}
	if _, err := os.Stat(filepath.Join(dir, "bugreports")); err != nil {
		t.Fatalf("bugreports dir should exist: %v", err)
	}
}
