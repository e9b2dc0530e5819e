package headless

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/diagnostics"
)

func TestArtifactWriterWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	w := NewArtifactWriter(dir)
	assert.Equal(t, dir, w.OutputDir())

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	summary := &ExecutionSummary{
		URL:       "https://example.com",
		Status:    statusPartialSuccess,
		Error:     "1 of 2 step(s) failed",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Duration:  2 * time.Second,
		Steps: []StepResult{
			{Index: 1, Kind: StepAnnotate, Tool: "browser_annotate", Status: stepOK, Message: "Annotated 1 element(s)"},
			{Index: 2, Kind: StepAnnotate, Tool: "browser_annotate", Status: stepFailed, ErrorKind: "no_match", Message: "No element matched a|b"},
		},
		Screenshot: filepath.Join(dir, "page.png"),
		Diagnostics: &diagnostics.Summary{
			TotalAnnotations: 2,
			Suggestions:      []string{"Clear annotations before re-running"},
		},
		Metrics: ExecutionMetrics{StepsRun: 2, StepsFailed: 1, Annotations: 2},
	}
	require.NoError(t, w.WriteAll(summary))

	data, err := os.ReadFile(filepath.Join(dir, "execution.json"))
	require.NoError(t, err)
	var decoded ExecutionSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.Metrics, decoded.Metrics)
	assert.Equal(t, "no_match", decoded.Steps[1].ErrorKind)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	text := string(md)
	assert.Contains(t, text, "**Status:** partial_success")
	assert.Contains(t, text, "❌ **Error:** 1 of 2 step(s) failed")
	assert.Contains(t, text, `| 2 | annotate | failed | No element matched a\|b |`)
	assert.Contains(t, text, "- Clear annotations before re-running")
	assert.Contains(t, text, "![annotated page](page.png)")
}

func TestArtifactWriterSuccessWithoutExtras(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewArtifactWriter(dir).WriteAll(&ExecutionSummary{URL: "https://example.com", Status: statusSuccess}))

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "✅ **Success**")
	assert.NotContains(t, string(md), "## Steps")
	assert.NotContains(t, string(md), "## Diagnostics")
	assert.NotContains(t, string(md), "## Screenshot")
}
