package telemetry

import (
	"strings"
	"testing"
	"time"
)

func TestRenderPrometheusIncludesCounters(t *testing.T) {
	IncToolCall("github_pr_list", "ok")
	IncToolCall("github_pr_list", "error")
	ObserveToolDuration("github_pr_list", 42*time.Millisecond)
	IncGitHubAPIError("list pull requests", 404)
	IncADBFailure("subprocess_failed")
	IncArtifactWriteFailure()

	out := RenderPrometheus()
	for _, want := range []string{
		`devbridge_tool_calls_total{tool="github_pr_list",status="ok"}`,
		`devbridge_tool_calls_total{tool="github_pr_list",status="error"}`,
		`devbridge_tool_duration_seconds_bucket{tool="github_pr_list",le="0.1"}`,
		`devbridge_github_api_errors_total{operation="list pull requests",status_code="404"} 1`,
		`devbridge_adb_failures_total{code="subprocess_failed"}`,
		`devbridge_artifact_write_failures_total`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing metric line %q in output:\n%s", want, out)
		}
	}
}
