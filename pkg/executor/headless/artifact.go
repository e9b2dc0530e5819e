package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/annotator/pkg/diagnostics"
)

// ArtifactWriter handles writing execution artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{outputDir: outputDir}
}

// OutputDir returns the directory artifacts are written to.
func (w *ArtifactWriter) OutputDir() string {
	return w.outputDir
}

// WriteAll writes execution.json and summary.md.
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := w.WriteExecutionJSON(summary); err != nil {
		return err
	}
	return w.WriteSummaryMarkdown(summary)
}

// WriteExecutionJSON writes the full execution summary as JSON
func (w *ArtifactWriter) WriteExecutionJSON(summary *ExecutionSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.outputDir, "execution.json"), data, 0600); err != nil {
		return fmt.Errorf("failed to write execution JSON: %w", err)
	}
	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	var md strings.Builder

	md.WriteString("# Annotation Run Summary\n\n")
	fmt.Fprintf(&md, "**URL:** %s\n\n", summary.URL)
	fmt.Fprintf(&md, "**Status:** %s\n\n", summary.Status)
	fmt.Fprintf(&md, "**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&md, "**Duration:** %s\n\n", summary.Duration)

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		fmt.Fprintf(&md, "❌ **Error:** %s\n\n", summary.Error)
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		md.WriteString("| # | Kind | Status | Message |\n")
		md.WriteString("|---|------|--------|---------|\n")
		for _, s := range summary.Steps {
			fmt.Fprintf(&md, "| %d | %s | %s | %s |\n", s.Index, s.Kind, s.Status, escapeCell(s.Message))
		}
		md.WriteString("\n")
	}

	if d := summary.Diagnostics; d != nil {
		md.WriteString("## Diagnostics\n\n")
		fmt.Fprintf(&md, "- **Annotations:** %d\n", d.TotalAnnotations)
		fmt.Fprintf(&md, "- **Duplicate IDs:** %v\n", d.HasDuplicates)
		fmt.Fprintf(&md, "- **Position issues:** %v\n", d.HasPositionIssues)
		for _, s := range d.Suggestions {
			fmt.Fprintf(&md, "- %s\n", s)
		}
		md.WriteString("\n")
	}

	if summary.Screenshot != "" {
		fmt.Fprintf(&md, "## Screenshot\n\n![annotated page](%s)\n", filepath.Base(summary.Screenshot))
	}

	if err := os.WriteFile(filepath.Join(w.outputDir, "summary.md"), []byte(md.String()), 0600); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// ExecutionSummary is the record of one plan run.
type ExecutionSummary struct {
	URL         string               `json:"url"`
	Status      string               `json:"status"`
	Error       string               `json:"error,omitempty"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Duration    time.Duration        `json:"duration"`
	Steps       []StepResult         `json:"steps"`
	Screenshot  string               `json:"screenshot,omitempty"`
	Diagnostics *diagnostics.Summary `json:"diagnostics,omitempty"`
	Metrics     ExecutionMetrics     `json:"metrics"`
}

// ExecutionMetrics counts step outcomes.
type ExecutionMetrics struct {
	StepsRun     int `json:"steps_run"`
	StepsFailed  int `json:"steps_failed"`
	StepsSkipped int `json:"steps_skipped"`
	Annotations  int `json:"annotations"`
}

// StepResult is the outcome of one plan step.
type StepResult struct {
	Index     int           `json:"index"`
	Kind      StepKind      `json:"kind"`
	Tool      string        `json:"tool"`
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Output    string        `json:"output,omitempty"`
	Duration  time.Duration `json:"duration"`
}
