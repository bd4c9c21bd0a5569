// Package adb is the subprocess adapter for the Android Debug Bridge CLI.
//
// One child process per call, no pooling. Two variants share the same
// failure classification: Run buffers both output streams in memory;
// RunToFile streams stdout straight into a file for large payloads and
// removes the partial file before reporting any failure.
package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/devbridge/devbridge/internal/core"
	"github.com/devbridge/devbridge/internal/telemetry"
)

type Runner struct {
	exe string
}

func NewRunner(exe string) *Runner {
	if strings.TrimSpace(exe) == "" {
		exe = "adb"
	}
	return &Runner{exe: exe}
}

// Report captures the observable outcome of one child process.
type Report struct {
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Run executes the adb binary with args and buffers both streams.
// A nonzero exit yields subprocess_failed; a start failure yields
// spawn_failed. The report is populated in both cases.
func (r *Runner) Run(ctx context.Context, args ...string) (Report, error) {
	cmd := exec.CommandContext(ctx, r.exe, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	report := Report{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if runErr == nil {
		return report, nil
	}
	return report, r.classify(&report, runErr)
}

// RunToFile executes the adb binary with stdout streamed into a newly
// created file at path. Stderr is still buffered for diagnostics. On any
// failure the partial file is deleted before the error is returned.
func (r *Runner) RunToFile(ctx context.Context, path string, args ...string) (Report, error) {
	f, err := os.Create(path)
	if err != nil {
		telemetry.IncADBFailure(core.CodeFilesystemFailure)
		return Report{ExitCode: -1}, core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("create %s: %w", path, err))
	}

	cmd := exec.CommandContext(ctx, r.exe, args...)
	var stderr bytes.Buffer
	cmd.Stdout = f
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	closeErr := f.Close()
	report := Report{
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if runErr != nil {
		os.Remove(path)
		return report, r.classify(&report, runErr)
	}
	if closeErr != nil {
		os.Remove(path)
		telemetry.IncADBFailure(core.CodeFilesystemFailure)
		return report, core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("close %s: %w", path, closeErr))
	}
	return report, nil
}

func (r *Runner) classify(report *Report, runErr error) error {
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		report.ExitCode = exitErr.ExitCode()
		telemetry.IncADBFailure(core.CodeSubprocessFailed)
		return core.NewError(core.CodeSubprocessFailed, "%s exited with code %d: %s",
			r.exe, report.ExitCode, strings.TrimSpace(report.Stderr))
	}
	report.ExitCode = -1
	telemetry.IncADBFailure(core.CodeSpawnFailed)
	return core.WrapError(core.CodeSpawnFailed, fmt.Errorf("start %s: %w", r.exe, runErr))
}
