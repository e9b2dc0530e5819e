// Package browser exposes the page annotator as tools over Playwright
// browser sessions.
//
// A SessionManager owns named sessions. Each session pairs a page with an
// annotator.Annotator whose dom.Tree and overlay.Renderer evaluate scripts
// in that page; every session shares the manager's dedup guard. Sessions
// over a static document (OpenDocument) run the same tools without a
// browser.
//
// # Session Lifecycle
//
//  1. Create: start_browser_session launches a page
//  2. Use: browser_navigate, browser_wait, then the annotation tools
//  3. Close: close_browser_session, or idle cleanup after the idle timeout
//
// # Tools
//
//   - browser_annotate: highlight elements and attach labels
//   - browser_comment: attach a callout and underline the element
//   - browser_clear_annotations: remove everything the annotator drew
//   - browser_debug_annotations: report on what is drawn
//   - browser_screenshot: capture the annotated page
//
// Annotation tools return the annotator's JSON response as their result,
// including unsuccessful ones. Tool errors are reserved for malformed
// arguments and unknown sessions.
//
// # Configuration
//
// The browser settings section supplies the master switch, the default
// headless mode and viewport, the session limit and the idle timeout.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	defer manager.Shutdown()
//
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	session, err := manager.StartSession("review", browser.SessionOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//	if err := session.Navigate("https://example.com", browser.NavigateOptions{}); err != nil {
//	    return err
//	}
//	resp := session.Annotate(annotator.AnnotateRequest{
//	    Locator: annotator.Locator{Selector: "h1"},
//	    Label:   "Title",
//	})
package browser
