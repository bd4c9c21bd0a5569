package adb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbridge/devbridge/internal/core"
)

func TestRunCapturesBothStreams(t *testing.T) {
	r := NewRunner("sh")
	report, err := r.Run(context.Background(), "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", report.ExitCode)
	}
	if strings.TrimSpace(report.Stdout) != "out" {
		t.Fatalf("unexpected stdout: %q", report.Stdout)
	}
	if strings.TrimSpace(report.Stderr) != "err" {
		t.Fatalf("unexpected stderr: %q", report.Stderr)
	}
}

func TestRunNonzeroExit(t *testing.T) {
	r := NewRunner("sh")
	report, err := r.Run(context.Background(), "-c", "echo broken 1>&2; exit 3")
	if err == nil {
		t.Fatal("expected failure")
	}
	if report.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", report.ExitCode)
	}
	if core.ErrorCode(err) != core.CodeSubprocessFailed {
		t.Fatalf("expected subprocess_failed, got %s", core.ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("error should carry stderr, got: %v", err)
	}
	if !strings.Contains(err.Error(), "code 3") {
		t.Fatalf("error should carry exit code, got: %v", err)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	r := NewRunner("definitely-not-a-real-binary-4af1")
	report, err := r.Run(context.Background(), "devices", "-l")
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	if core.ErrorCode(err) != core.CodeSpawnFailed {
		t.Fatalf("expected spawn_failed, got %s", core.ErrorCode(err))
	}
	if report.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", report.ExitCode)
	}
}

func TestRunToFileStreamsStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	r := NewRunner("sh")
	report, err := r.RunToFile(context.Background(), path, "-c", "printf hello; echo diag 1>&2")
	if err != nil {
		t.Fatalf("run to file: %v", err)
	}
	if strings.TrimSpace(report.Stderr) != "diag" {
		t.Fatalf("unexpected stderr: %q", report.Stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

func TestRunToFileRemovesPartialOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	r := NewRunner("sh")

	// Twice: cleanup must be idempotent, no stale files accumulate.
	for i := 0; i < 2; i++ {
		_, err := r.RunToFile(context.Background(), path, "-c", "printf partial; exit 1")
		if err == nil {
			t.Fatal("expected failure")
		}
		if core.ErrorCode(err) != core.CodeSubprocessFailed {
			t.Fatalf("expected subprocess_failed, got %s", core.ErrorCode(err))
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Fatalf("partial file should have been removed, stat err: %v", statErr)
		}
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			t.Fatalf("read dir: %v", readErr)
		}
		if len(entries) != 0 {
			t.Fatalf("stale files accumulated: %v", entries)
		}
	}
}

func TestRunToFileRemovesFileOnSpawnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	r := NewRunner("definitely-not-a-real-binary-4af1")
	_, err := r.RunToFile(context.Background(), path, "bugreport")
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	if core.ErrorCode(err) != core.CodeSpawnFailed {
		t.Fatalf("expected spawn_failed, got %s", core.ErrorCode(err))
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("file should have been removed, stat err: %v", statErr)
	}
}
