package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/config"
	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/logging"
	"github.com/entrhq/annotator/pkg/overlay"
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("browser")
}

// SessionManager owns every open session. All sessions share one dedup
// guard so a repeated request is suppressed regardless of which session
// receives it.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	initialized bool

	guard       *dedup.Guard
	sessionOpts []annotator.Option
	now         func() time.Time
}

// NewSessionManager creates a new session manager with a default guard.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
		guard:       dedup.NewGuard(dedup.DefaultConfig(), nil),
		now:         time.Now,
	}
}

// Initialize installs and starts the Playwright driver. It must be called
// before StartSession; later calls are no-ops.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output would interleave with stdio transports.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	debugLog.Infof("playwright driver started")
	return nil
}

// StartSession launches a browser page under name.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkCapacity(name); err != nil {
		return nil, err
	}
	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	session := newSession(name, page, newPageTree(page), newPageRenderer(page), m.guard, m.sessionOpts, m.now)
	session.Browser = browser
	session.Context = bctx
	session.Headless = opts.Headless

	m.sessions[name] = session
	debugLog.Infof("started session %s (headless=%v, %dx%d)", name, opts.Headless, opts.Viewport.Width, opts.Viewport.Height)
	return session, nil
}

// OpenDocument registers a session over an already rendered document, such
// as a static HTML tree. It needs no browser.
func (m *SessionManager) OpenDocument(name string, tree dom.Tree, renderer overlay.Renderer) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkCapacity(name); err != nil {
		return nil, err
	}
	session := newSession(name, nil, tree, renderer, m.guard, m.sessionOpts, m.now)
	session.Headless = true
	m.sessions[name] = session
	return session, nil
}

// checkCapacity must be called with m.mu held.
func (m *SessionManager) checkCapacity(name string) error {
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	if _, exists := m.sessions[name]; exists {
		return fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	return nil
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	session, exists := m.sessions[name]
	delete(m.sessions, name)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("session %q not found", name)
	}
	for _, err := range session.close() {
		debugLog.Warnf("closing session %s: %v", name, err)
	}
	return nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// ListSessions returns the open sessions ordered by name.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, session.info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes every session.
func (m *SessionManager) CloseAll() error {
	return m.closeWhere(func(*Session) bool { return true })
}

// CleanupIdleSessions closes sessions unused for longer than the idle timeout.
func (m *SessionManager) CleanupIdleSessions() error {
	m.mu.RLock()
	timeout := m.idleTimeout
	m.mu.RUnlock()

	now := m.now()
	return m.closeWhere(func(s *Session) bool { return s.idleSince(now) > timeout })
}

func (m *SessionManager) closeWhere(match func(*Session) bool) error {
	m.mu.Lock()
	var closing []*Session
	for name, session := range m.sessions {
		if match(session) {
			closing = append(closing, session)
			delete(m.sessions, name)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, session := range closing {
		debugLog.Infof("closing session %s", session.Name)
		errs = append(errs, session.close()...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %w", errors.Join(errs...))
	}
	return nil
}

// RunIdleCleanup reaps idle sessions every interval until ctx is done.
func (m *SessionManager) RunIdleCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.CleanupIdleSessions(); err != nil {
				debugLog.Warnf("idle cleanup: %v", err)
			}
		}
	}
}

// Shutdown closes all sessions, stops the guard's timers and stops Playwright.
func (m *SessionManager) Shutdown() error {
	closeErr := m.CloseAll()
	m.Guard().Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		m.initialized = false
	}
	return closeErr
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}

// SetGuard replaces the shared dedup guard for sessions created afterwards.
func (m *SessionManager) SetGuard(g *dedup.Guard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guard.Close()
	m.guard = g
}

// Guard returns the shared dedup guard.
func (m *SessionManager) Guard() *dedup.Guard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.guard
}

// SetAnnotatorOptions sets the options applied to sessions created afterwards.
func (m *SessionManager) SetAnnotatorOptions(opts ...annotator.Option) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionOpts = opts
}

// Configure applies the browser and annotation settings. Nil sections keep
// the current values.
func (m *SessionManager) Configure(b *config.BrowserSection, a *config.AnnotatorSection) {
	if b != nil {
		max, idle := b.Limits()
		m.SetMaxSessions(max)
		m.SetIdleTimeout(idle)
	}
	if a != nil {
		m.SetGuard(dedup.NewGuard(a.GuardConfig(), nil))
		m.SetAnnotatorOptions(annotator.WithDefaults(a.RequestDefaults()))
	}
}
