package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/diagnostics"
	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/overlay"
)

// newSession binds an annotator to a document. page may be nil for
// sessions over a static tree.
func newSession(name string, page playwright.Page, tree dom.Tree, renderer overlay.Renderer, guard *dedup.Guard, opts []annotator.Option, now func() time.Time) *Session {
	created := now()
	s := &Session{
		Name:       name,
		Page:       page,
		CreatedAt:  created,
		LastUsedAt: created,
		now:        now,
		CurrentURL: "about:blank",
		annotator:  annotator.New(tree, overlay.NewSurface(renderer), guard, opts...),
	}
	return s
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.mu.Lock()
	s.LastUsedAt = s.now()
	s.mu.Unlock()
}

func (s *Session) info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		Name:        s.Name,
		CurrentURL:  s.CurrentURL,
		Headless:    s.Headless,
		Annotations: len(s.annotator.Surface().Annotations()),
		CreatedAt:   s.CreatedAt,
		LastUsedAt:  s.LastUsedAt,
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.LastUsedAt)
}

// Navigate loads url in the session's page. Annotations from the previous
// document go away with it.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	if s.Page == nil {
		return fmt.Errorf("session %q has no browser page", s.Name)
	}
	s.UpdateLastUsed()

	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.mu.Lock()
	s.CurrentURL = s.Page.URL()
	s.mu.Unlock()
	return nil
}

// Wait blocks until an element matching opts.Selector reaches opts.State.
func (s *Session) Wait(opts WaitOptions) error {
	if s.Page == nil {
		return fmt.Errorf("session %q has no browser page", s.Name)
	}
	s.UpdateLastUsed()

	waitOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		waitOpts.State = &state
	}
	if opts.Timeout > 0 {
		waitOpts.Timeout = &opts.Timeout
	}
	if _, err := s.Page.WaitForSelector(opts.Selector, waitOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Title returns the page title, or "" when unavailable.
func (s *Session) Title() string {
	if s.Page == nil {
		return ""
	}
	title, err := s.Page.Title()
	if err != nil {
		return ""
	}
	return title
}

// SetURL records the address of a static document. Browser sessions track
// their URL through Navigate.
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	s.CurrentURL = url
	s.mu.Unlock()
}

// URL returns the current page URL.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentURL
}

// Annotate highlights and labels elements on the page.
func (s *Session) Annotate(req annotator.AnnotateRequest) annotator.Response {
	s.UpdateLastUsed()
	return s.annotator.Annotate(req)
}

// Comment attaches a callout to elements on the page.
func (s *Session) Comment(req annotator.CommentRequest) annotator.Response {
	s.UpdateLastUsed()
	return s.annotator.Comment(req)
}

// ClearAnnotations removes every annotation from the page.
func (s *Session) ClearAnnotations() annotator.Response {
	s.UpdateLastUsed()
	return s.annotator.Clear()
}

// Inspect builds a diagnostics report for the page.
func (s *Session) Inspect() (*diagnostics.Report, error) {
	s.UpdateLastUsed()
	return s.annotator.Inspect()
}

// Screenshot captures the page as PNG.
func (s *Session) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	if s.Page == nil {
		return nil, fmt.Errorf("session %q has no browser page", s.Name)
	}
	s.UpdateLastUsed()

	shotOpts := playwright.PageScreenshotOptions{FullPage: playwright.Bool(opts.FullPage)}
	if opts.Path != "" {
		shotOpts.Path = playwright.String(opts.Path)
	}
	png, err := s.Page.Screenshot(shotOpts)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return png, nil
}

// close releases the playwright resources. Errors are collected, not fatal.
func (s *Session) close() []error {
	var errs []error
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
