package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/annotator/pkg/annotator"
)

// Session is one browser page with its own annotation surface.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser, Context and Page are nil for sessions backed by a static document.
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
	CurrentURL string

	annotator *annotator.Annotator
	now       func() time.Time
	mu        sync.Mutex
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil is one of "load", "domcontentloaded" or "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// WaitOptions configures waiting for an element.
type WaitOptions struct {
	Selector string

	// State is one of "attached", "detached", "visible" or "hidden"
	State string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

var validElementStates = map[string]bool{
	"attached": true,
	"detached": true,
	"visible":  true,
	"hidden":   true,
}

// ScreenshotOptions configures page capture.
type ScreenshotOptions struct {
	// Path is where the PNG is written. Empty returns the bytes only.
	Path string

	// FullPage captures the whole scrollable document instead of the viewport.
	FullPage bool
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name        string    `json:"name"`
	CurrentURL  string    `json:"currentUrl"`
	Headless    bool      `json:"headless"`
	Annotations int       `json:"annotations"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
}

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultIdleTimeout    = 5 * time.Minute
	DefaultWaitUntil      = "load"
)

var validWaitStates = map[string]bool{
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
}
