package headless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/logging"
	"github.com/entrhq/annotator/pkg/overlay"
	"github.com/entrhq/annotator/pkg/tools"
	"github.com/entrhq/annotator/pkg/tools/browser"
)

const (
	statusSuccess        = "success"
	statusFailed         = "failed"
	statusPartialSuccess = "partial_success"

	stepOK      = "ok"
	stepFailed  = "failed"
	stepSkipped = "skipped"
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("headless")
}

// Opener creates the session a plan runs in, showing the plan URL.
type Opener func(ctx context.Context, m *browser.SessionManager, cfg *Config) (*browser.Session, error)

// BrowserOpener launches a Playwright page and loads the plan URL.
func BrowserOpener(ctx context.Context, m *browser.SessionManager, cfg *Config) (*browser.Session, error) {
	opts := browser.DefaultSessionOptions()
	if cfg.Session.Headless != nil {
		opts.Headless = *cfg.Session.Headless
	}
	if cfg.Session.Width > 0 {
		opts.Viewport.Width = cfg.Session.Width
	}
	if cfg.Session.Height > 0 {
		opts.Viewport.Height = cfg.Session.Height
	}
	if err := browser.ValidateViewport(opts.Viewport); err != nil {
		return nil, err
	}

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	session, err := m.StartSession(cfg.Session.Name, opts)
	if err != nil {
		return nil, err
	}
	if err := session.Navigate(cfg.URL, browser.NavigateOptions{WaitUntil: cfg.Session.WaitUntil}); err != nil {
		_ = m.CloseSession(session.Name)
		return nil, err
	}
	return session, nil
}

// DocumentOpener runs the plan over an already rendered document.
func DocumentOpener(tree dom.Tree, renderer overlay.Renderer) Opener {
	return func(ctx context.Context, m *browser.SessionManager, cfg *Config) (*browser.Session, error) {
		session, err := m.OpenDocument(cfg.Session.Name, tree, renderer)
		if err != nil {
			return nil, err
		}
		session.SetURL(cfg.URL)
		return session, nil
	}
}

// Option configures an Executor.
type Option func(*Executor)

// WithOpener replaces BrowserOpener.
func WithOpener(o Opener) Option {
	return func(e *Executor) { e.opener = o }
}

// WithLogger replaces the console logger.
func WithLogger(l *Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// Executor runs an annotation plan through the browser tools.
type Executor struct {
	config         *Config
	manager        *browser.SessionManager
	registry       *browser.ToolRegistry
	opener         Opener
	logger         *Logger
	artifactWriter *ArtifactWriter

	summary *ExecutionSummary
}

// NewExecutor validates config and prepares a run over manager's sessions.
func NewExecutor(manager *browser.SessionManager, config *Config, opts ...Option) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Executor{
		config:         config,
		manager:        manager,
		registry:       browser.NewToolRegistry(manager),
		opener:         BrowserOpener,
		logger:         NewLogger(parseLogLevel(config.Logging.Verbosity)),
		artifactWriter: NewArtifactWriter(config.Artifacts.OutputDir),
		summary: &ExecutionSummary{
			URL:    config.URL,
			Status: "running",
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Summary returns the record of the run so far.
func (e *Executor) Summary() *ExecutionSummary {
	return e.summary
}

// Run opens the page, runs every step and writes the artifacts. It returns
// an error when the run failed as a whole.
func (e *Executor) Run(ctx context.Context) error {
	e.summary.StartTime = time.Now()

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.logger.Header("Annotating " + e.config.URL)
	debugLog.Infof("starting plan: %s (%d steps)", e.config.URL, len(e.config.Steps))

	session, err := e.opener(ctx, e.manager, e.config)
	if err != nil {
		return e.fail(fmt.Errorf("failed to open %s: %w", e.config.URL, err))
	}
	defer func() {
		if err := e.manager.CloseSession(session.Name); err != nil {
			debugLog.Warnf("closing plan session: %v", err)
		}
	}()
	e.logger.Successf("Opened %s", session.URL())

	e.logger.Section("Steps")
	for i, step := range e.config.Steps {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return e.fail(fmt.Errorf("execution timeout exceeded"))
			}
			return e.fail(fmt.Errorf("execution canceled: %w", err))
		}

		result := e.runStep(ctx, session, i+1, step)
		e.record(result)
		if result.Status == stepFailed && e.config.FailFast {
			return e.fail(fmt.Errorf("step %d (%s) failed: %s", result.Index, result.Kind, result.Message))
		}
	}

	if e.config.Screenshot.Enabled {
		e.takeScreenshot(session)
	}
	e.inspect(session)

	return e.finalize()
}

func (e *Executor) runStep(ctx context.Context, session *browser.Session, index int, step Step) (result StepResult) {
	started := time.Now()
	result = StepResult{Index: index, Kind: step.Kind, Tool: step.ToolName()}
	defer func() { result.Duration = time.Since(started) }()

	url := session.URL()
	matched, err := matchURL(step.URLPattern, url)
	if err != nil {
		result.Status = stepFailed
		result.Message = fmt.Sprintf("invalid url_pattern: %v", err)
		return result
	}
	if !matched {
		result.Status = stepSkipped
		result.Message = fmt.Sprintf("%s does not match %s", url, step.URLPattern)
		return result
	}

	tool, ok := e.registry.Lookup(result.Tool)
	if !ok {
		result.Status = stepFailed
		result.Message = fmt.Sprintf("tool %s is not registered", result.Tool)
		return result
	}

	args, err := stepArgs(step, session.Name)
	if err != nil {
		result.Status = stepFailed
		result.Message = err.Error()
		return result
	}

	e.logger.Step(describeStep(tool, step, args))
	output, meta, err := tool.Execute(ctx, args)
	if err != nil {
		result.Status = stepFailed
		result.Message = err.Error()
		return result
	}

	result.Status = stepOK
	result.Output = output
	result.Message = firstLine(output)
	if success, ok := meta["success"].(bool); ok {
		result.Message = responseMessage(output, result.Message)
		if !success {
			result.Status = stepFailed
			result.ErrorKind, _ = meta["error_kind"].(string)
		}
	}
	return result
}

func (e *Executor) record(r StepResult) {
	e.summary.Steps = append(e.summary.Steps, r)
	switch r.Status {
	case stepSkipped:
		e.summary.Metrics.StepsSkipped++
	case stepFailed:
		e.summary.Metrics.StepsRun++
		e.summary.Metrics.StepsFailed++
	default:
		e.summary.Metrics.StepsRun++
	}
	e.logger.StepResult(r)
	debugLog.Debugf("step %d %s: %s (%s)", r.Index, r.Kind, r.Status, r.Message)
}

func (e *Executor) takeScreenshot(session *browser.Session) {
	path := e.config.Screenshot.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.artifactWriter.OutputDir(), path)
	}
	if _, err := session.Screenshot(browser.ScreenshotOptions{Path: path, FullPage: e.config.Screenshot.FullPage}); err != nil {
		e.logger.Warningf("screenshot failed: %v", err)
		return
	}
	e.summary.Screenshot = path
	e.logger.Successf("Screenshot saved to %s", path)
}

func (e *Executor) inspect(session *browser.Session) {
	report, err := session.Inspect()
	if err != nil {
		e.logger.Warningf("could not inspect annotations: %v", err)
		return
	}
	summary := report.Summary()
	e.summary.Diagnostics = &summary
	e.summary.Metrics.Annotations = summary.TotalAnnotations
}

// finalize derives the run status from the step outcomes.
func (e *Executor) finalize() error {
	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)

	m := e.summary.Metrics
	switch {
	case m.StepsFailed == 0:
		e.summary.Status = statusSuccess
	case m.StepsFailed < m.StepsRun:
		e.summary.Status = statusPartialSuccess
		e.summary.Error = fmt.Sprintf("%d of %d step(s) failed", m.StepsFailed, m.StepsRun)
	default:
		e.summary.Status = statusFailed
		e.summary.Error = fmt.Sprintf("all %d step(s) failed", m.StepsRun)
	}
	if m.StepsRun == 0 {
		e.logger.Warningf("no step matched %s", e.config.URL)
	}

	e.writeArtifacts()
	e.logger.Summary(e.summary)
	debugLog.Infof("plan finished: %s in %s", e.summary.Status, e.summary.Duration)

	if e.summary.Status == statusFailed {
		return fmt.Errorf("execution failed: %s", e.summary.Error)
	}
	return nil
}

// fail marks the execution as failed and returns an error
func (e *Executor) fail(err error) error {
	e.summary.Status = statusFailed
	e.summary.Error = err.Error()
	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)

	e.logger.Errorf("%v", err)
	e.writeArtifacts()
	e.logger.Summary(e.summary)
	return err
}

func (e *Executor) writeArtifacts() {
	if !e.config.Artifacts.Enabled {
		return
	}
	if err := e.artifactWriter.WriteAll(e.summary); err != nil {
		e.logger.Warningf("failed to write artifacts: %v", err)
		return
	}
	e.logger.Verbosef("artifacts written to %s", e.artifactWriter.OutputDir())
}

// stepArgs encodes a step's arguments with the plan session added.
func stepArgs(step Step, session string) (json.RawMessage, error) {
	args := make(map[string]interface{}, len(step.Args)+1)
	for k, v := range step.Args {
		args[k] = v
	}
	args["session"] = session
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s step: %w", step.Kind, err)
	}
	return raw, nil
}

func describeStep(tool tools.Tool, step Step, args json.RawMessage) string {
	if p, ok := tool.(tools.Previewable); ok {
		if preview, err := p.GeneratePreview(args); err == nil {
			return preview
		}
	}
	return string(step.Kind)
}

// responseMessage extracts the message of an annotator response.
func responseMessage(output, fallback string) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(output), &resp); err != nil || resp.Message == "" {
		return fallback
	}
	return resp.Message
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
