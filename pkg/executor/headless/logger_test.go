package headless

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"quiet":   LogLevelQuiet,
		"normal":  LogLevelNormal,
		"verbose": LogLevelVerbose,
		"debug":   LogLevelDebug,
		"":        LogLevelNormal,
		"loud":    LogLevelNormal,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestLoggerLevelGating(t *testing.T) {
	tests := []struct {
		level       LogLevel
		wantStep    bool
		wantVerbose bool
		wantDebug   bool
	}{
		{LogLevelQuiet, false, false, false},
		{LogLevelNormal, true, false, false},
		{LogLevelVerbose, true, true, false},
		{LogLevelDebug, true, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(tt.level)
		l.SetOutput(&buf)

		l.Step("annotate the title")
		l.Verbosef("tool output")
		l.Debugf("internal detail")
		l.Warningf("always shown")

		out := buf.String()
		assert.Equal(t, tt.wantStep, bytes.Contains(buf.Bytes(), []byte("[1] annotate the title")), "level %d step", tt.level)
		assert.Equal(t, tt.wantVerbose, bytes.Contains(buf.Bytes(), []byte("tool output")), "level %d verbose", tt.level)
		assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("[DEBUG] internal detail")), "level %d debug", tt.level)
		assert.Contains(t, out, "Warning: always shown")
	}
}

func TestLoggerStepResult(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogLevelNormal)
	l.SetOutput(&buf)

	l.StepResult(StepResult{Status: stepOK, Message: "Annotated 2 element(s)", Output: "{}"})
	l.StepResult(StepResult{Status: stepSkipped, Message: "url does not match"})
	l.StepResult(StepResult{Status: stepFailed, Message: "No element matched #x"})

	out := buf.String()
	assert.Contains(t, out, "✓ Annotated 2 element(s)")
	assert.Contains(t, out, "skipped: url does not match")
	assert.Contains(t, out, "Warning: No element matched #x")
	assert.NotContains(t, out, "{}", "tool output is verbose only")
}

func TestLoggerSummary(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogLevelQuiet)
	l.SetOutput(&buf)

	l.Summary(&ExecutionSummary{
		URL:        "https://example.com",
		Status:     statusFailed,
		Error:      "all 1 step(s) failed",
		Screenshot: "/tmp/page.png",
		Metrics:    ExecutionMetrics{StepsRun: 1, StepsFailed: 1, Annotations: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Steps: 1 run, 1 failed, 0 skipped")
	assert.Contains(t, out, "Annotations on page: 3")
	assert.Contains(t, out, "Screenshot: /tmp/page.png")
	assert.Contains(t, out, "all 1 step(s) failed")
}
