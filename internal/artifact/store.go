// Package artifact manages the two user-owned output directories: summaries
// and bugreports. Directories are created on first use, relative to the
// working directory unless configured absolute.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/devbridge/devbridge/internal/core"
	"github.com/devbridge/devbridge/internal/telemetry"
)

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	pathSepReplacer   = strings.NewReplacer("/", "_", "\\", "_")
	timestampReplacer = strings.NewReplacer(":", "-", ".", "-")
)

type Store struct {
	summariesDir  string
	bugreportsDir string
}

func NewStore(summariesDir, bugreportsDir string) *Store {
	return &Store{summariesDir: summariesDir, bugreportsDir: bugreportsDir}
}

// SanitizeFileName makes name safe to join under an output directory:
// path separators become underscores, parent-directory sequences are
// stripped, and whitespace runs collapse to single underscores.
func SanitizeFileName(name string) string {
	name = pathSepReplacer.Replace(name)
	name = strings.ReplaceAll(name, "..", "")
	name = whitespaceRe.ReplaceAllString(name, "_")
	if name == "" {
		name = "_"
	}
	return name
}

// SaveSummary writes content verbatim to <summaries-dir>/<sanitized name>,
// overwriting any existing file, and returns the absolute path. All
// failures are coded filesystem_failure; nothing is raised past the caller.
func (s *Store) SaveSummary(name, content string) (string, error) {
	if err := os.MkdirAll(s.summariesDir, 0o755); err != nil {
		telemetry.IncArtifactWriteFailure()
		return "", core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("summaries dir: %w", err))
	}

	path := filepath.Join(s.summariesDir, SanitizeFileName(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		telemetry.IncArtifactWriteFailure()
		return "", core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("write summary: %w", err))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("resolve summary path: %w", err))
	}
	return abs, nil
}

// BugreportPath ensures the bugreports directory exists and returns the
// absolute output path for a capture started at now. Colons and periods in
// the timestamp are replaced so the name is filesystem-safe everywhere.
func (s *Store) BugreportPath(serial string, now time.Time) (string, error) {
	if err := os.MkdirAll(s.bugreportsDir, 0o755); err != nil {
		telemetry.IncArtifactWriteFailure()
		return "", core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("bugreports dir: %w", err))
	}

	stamp := timestampReplacer.Replace(now.UTC().Format(time.RFC3339))
	name := fmt.Sprintf("bugreport-%s-%s.txt", SanitizeFileName(serial), stamp)
	abs, err := filepath.Abs(filepath.Join(s.bugreportsDir, name))
	if err != nil {
		return "", core.WrapError(core.CodeFilesystemFailure, fmt.Errorf("resolve bugreport path: %w", err))
	}
	return abs, nil
}
