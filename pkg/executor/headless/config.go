package headless

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config is an annotation plan: the page to open and the steps to run on it.
type Config struct {
	// URL is loaded when the session starts
	URL string `yaml:"url" json:"url"`

	Session    SessionConfig    `yaml:"session" json:"session"`
	Steps      []Step           `yaml:"steps" json:"steps"`
	Screenshot ScreenshotConfig `yaml:"screenshot" json:"screenshot"`

	// FailFast stops at the first failed step
	FailFast bool `yaml:"fail_fast" json:"fail_fast"`

	// Timeout bounds the whole run
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`
}

// SessionConfig configures the browser the plan runs in. Unset fields fall
// back to the browser settings.
type SessionConfig struct {
	Name      string `yaml:"name" json:"name"`
	Headless  *bool  `yaml:"headless" json:"headless,omitempty"`
	Width     int    `yaml:"width" json:"width,omitempty"`
	Height    int    `yaml:"height" json:"height,omitempty"`
	WaitUntil string `yaml:"wait_until" json:"wait_until,omitempty"`
}

// StepKind names the tool a step runs.
type StepKind string

const (
	StepAnnotate StepKind = "annotate"
	StepComment  StepKind = "comment"
	StepClear    StepKind = "clear"
	StepDebug    StepKind = "debug"
	StepNavigate StepKind = "navigate"
	StepWait     StepKind = "wait"
)

var stepTools = map[StepKind]string{
	StepAnnotate: "browser_annotate",
	StepComment:  "browser_comment",
	StepClear:    "browser_clear_annotations",
	StepDebug:    "browser_debug_annotations",
	StepNavigate: "browser_navigate",
	StepWait:     "browser_wait",
}

// Step is one tool call. Every key besides kind and url_pattern is passed
// to the tool as an argument.
type Step struct {
	Kind StepKind `yaml:"kind" json:"kind"`

	// URLPattern is a glob the current page URL must match for the step to
	// run. Empty matches every page.
	URLPattern string `yaml:"url_pattern,omitempty" json:"url_pattern,omitempty"`

	Args map[string]interface{} `yaml:",inline" json:"args,omitempty"`
}

// ToolName returns the tool the step runs.
func (s Step) ToolName() string {
	return stepTools[s.Kind]
}

// ScreenshotConfig captures the page after the last step.
type ScreenshotConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Path     string `yaml:"path" json:"path"`
	FullPage bool   `yaml:"full_page" json:"full_page"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// Validate checks the plan and fills in defaults.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.Session.Width < 0 || c.Session.Height < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}

	for i, step := range c.Steps {
		if step.ToolName() == "" {
			return fmt.Errorf("step %d: unknown kind %q", i+1, step.Kind)
		}
		if _, ok := step.Args["session"]; ok {
			return fmt.Errorf("step %d: session is set by the plan, not the step", i+1)
		}
		if step.URLPattern != "" {
			if _, err := glob.Compile(step.URLPattern); err != nil {
				return fmt.Errorf("step %d: invalid url_pattern %q: %w", i+1, step.URLPattern, err)
			}
		}
	}

	if c.Screenshot.Enabled && c.Screenshot.Path == "" {
		c.Screenshot.Path = "screenshot.png"
	}
	if c.Session.Name == "" {
		c.Session.Name = "plan"
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DefaultConfig returns a plan with defaults and no steps.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 2 * time.Minute,
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".annotator/artifacts",
		},
		Logging: LoggingConfig{Verbosity: "normal"},
	}
}

// LoadConfig reads a YAML plan over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML plan over the defaults. Unknown top-level keys
// are rejected.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	return config, nil
}

// matchURL reports whether url matches pattern. An empty pattern matches.
func matchURL(pattern, url string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}
	return g.Match(url), nil
}
