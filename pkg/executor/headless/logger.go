package headless

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the logging verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows only errors, warnings and the final summary
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows step progress (default)
	LogLevelNormal
	// LogLevelVerbose adds tool output
	LogLevelVerbose
	// LogLevelDebug shows all internal details
	LogLevelDebug
)

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	skyBlue    = lipgloss.Color("#9ED9F5")
	amber      = lipgloss.Color("#F5C16C")
	errorRed   = lipgloss.Color("#F87171")
	mutedGray  = lipgloss.Color("#6B7280")

	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(skyBlue)
	infoStyle    = lipgloss.NewStyle().Foreground(salmonPink)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(mintGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(mutedGray)
)

// Logger prints the progress of a plan run to a terminal.
type Logger struct {
	level  LogLevel
	writer io.Writer

	startTime time.Time
	stepCount int
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		level:     level,
		writer:    os.Stdout,
		startTime: time.Now(),
	}
}

// SetOutput redirects the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.writer = w
}

func (l *Logger) println(style lipgloss.Style, s string) {
	fmt.Fprintln(l.writer, style.Render(s))
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	if l.level >= LogLevelNormal {
		rule := strings.Repeat("=", 70)
		fmt.Fprintln(l.writer)
		l.println(headerStyle, rule)
		l.println(headerStyle, "  "+message)
		l.println(headerStyle, rule)
	}
}

// Section prints a section divider
func (l *Logger) Section(title string) {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer)
		l.println(sectionStyle, "▶ "+title)
		l.println(dimStyle, strings.Repeat("─", 50))
	}
}

// Step prints a numbered step in the execution
func (l *Logger) Step(message string) {
	if l.level >= LogLevelNormal {
		l.stepCount++
		l.println(sectionStyle, fmt.Sprintf("[%d] %s", l.stepCount, message))
	}
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		l.println(successStyle, "✓ "+fmt.Sprintf(format, args...))
	}
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		l.println(infoStyle, fmt.Sprintf(format, args...))
	}
}

// Warningf prints a warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.println(warnStyle, "⚠ Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.println(errorStyle, "✗ Error: "+fmt.Sprintf(format, args...))
}

// Verbosef prints detailed information (only in verbose mode)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LogLevelVerbose {
		l.println(dimStyle, "→ "+fmt.Sprintf(format, args...))
	}
}

// Debugf prints debug information (only in debug mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.println(dimStyle, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// StepResult logs how a step ended.
func (l *Logger) StepResult(r StepResult) {
	switch r.Status {
	case stepOK:
		l.Successf("%s", r.Message)
	case stepSkipped:
		if l.level >= LogLevelNormal {
			l.println(dimStyle, "  skipped: "+r.Message)
		}
	default:
		l.Warningf("%s", r.Message)
	}
	if r.Output != "" {
		l.Verbosef("%s", r.Output)
	}
}

// Summary prints a final execution summary
func (l *Logger) Summary(summary *ExecutionSummary) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(l.writer)
	l.println(headerStyle, rule)
	l.println(headerStyle, "  EXECUTION SUMMARY")
	l.println(headerStyle, rule)

	fmt.Fprint(l.writer, "  Status: ")
	switch summary.Status {
	case statusSuccess:
		l.println(successStyle, "✓ SUCCESS")
	case statusPartialSuccess:
		l.println(warnStyle, "⚠ PARTIAL SUCCESS")
	case statusFailed:
		l.println(errorStyle, "✗ FAILED")
	default:
		fmt.Fprintln(l.writer, summary.Status)
	}

	fmt.Fprintf(l.writer, "  URL: %s\n", summary.URL)
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(l.writer, "  Steps: %d run, %d failed, %d skipped\n",
		summary.Metrics.StepsRun, summary.Metrics.StepsFailed, summary.Metrics.StepsSkipped)
	if summary.Metrics.Annotations > 0 {
		fmt.Fprintf(l.writer, "  Annotations on page: %d\n", summary.Metrics.Annotations)
	}
	if summary.Screenshot != "" {
		fmt.Fprintf(l.writer, "  Screenshot: %s\n", summary.Screenshot)
	}

	if l.level >= LogLevelVerbose && summary.Diagnostics != nil {
		for _, s := range summary.Diagnostics.Suggestions {
			l.println(dimStyle, "    • "+s)
		}
	}

	if summary.Error != "" {
		fmt.Fprintln(l.writer)
		l.println(errorStyle, "  Error Details:")
		l.println(errorStyle, "    "+summary.Error)
	}
	l.println(headerStyle, rule)
	fmt.Fprintln(l.writer)
}

// parseLogLevel converts a string log level to LogLevel type
func parseLogLevel(level string) LogLevel {
	switch level {
	case "quiet":
		return LogLevelQuiet
	case "normal":
		return LogLevelNormal
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}
