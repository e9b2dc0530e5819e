// Package annotator runs annotation requests end to end: validate, admit
// through the dedup guard, resolve targets, place every visual and commit
// the batch to the overlay surface.
//
// Every public method returns a Response value. Failures, including panics
// from the document or renderer, become unsuccessful responses and leave the
// page unchanged.
package annotator

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/diagnostics"
	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/logging"
	"github.com/entrhq/annotator/pkg/overlay"
	"github.com/entrhq/annotator/pkg/placement"
	"github.com/entrhq/annotator/pkg/resolve"
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("annotator")
}

// Annotator annotates one document. Requests are serialized: each runs to
// completion before the next starts.
type Annotator struct {
	tree     dom.Tree
	resolver *resolve.Resolver
	surface  *overlay.Surface
	guard    *dedup.Guard
	engine   *placement.Engine
	defaults Defaults
	now      func() time.Time

	mu sync.Mutex
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithDefaults sets the values used for omitted request fields.
func WithDefaults(d Defaults) Option {
	return func(a *Annotator) { a.defaults = d }
}

// WithPlacement overrides the placement constants.
func WithPlacement(cfg placement.Config) Option {
	return func(a *Annotator) { a.engine = placement.New(cfg) }
}

// WithClock sets the time source for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Annotator) { a.now = now }
}

// New creates an annotator for tree drawing onto surface. The guard is
// usually shared process-wide; nil gives the annotator a private one.
func New(tree dom.Tree, surface *overlay.Surface, guard *dedup.Guard, opts ...Option) *Annotator {
	if guard == nil {
		guard = dedup.NewGuard(dedup.DefaultConfig(), nil)
	}
	a := &Annotator{
		tree:     tree,
		resolver: resolve.New(tree),
		surface:  surface,
		guard:    guard,
		engine:   placement.New(placement.DefaultConfig()),
		defaults: DefaultDefaults(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Surface returns the overlay surface.
func (a *Annotator) Surface() *overlay.Surface {
	return a.surface
}

// Annotate highlights the resolved targets and labels them when req.Label
// is set.
func (a *Annotator) Annotate(req AnnotateRequest) (resp Response) {
	req.Color = string(overlay.ParseColor(orDefault(req.Color, a.defaults.Color)))
	resp = Response{Selector: req.Selector, Text: req.Text, Label: req.Label, Color: req.Color}
	defer a.recoverFault(&resp)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := req.validate(); err != nil {
		return fail(resp, err)
	}
	req.Locator = req.Locator.withDefaults(a.defaults)

	key := dedup.AnnotateKey(req.Selector, req.Text, req.Label, req.Color)
	return a.run(resp, key, req.Locator, func(c resolve.Candidate, i, n int, occupied []placement.Region, viewport geometry.Rect) ([]overlay.Visual, []placement.Region, int, error) {
		color := overlay.Color(req.Color)
		visuals := []overlay.Visual{{
			Kind:   overlay.KindHighlight,
			Color:  color,
			Rect:   c.Rect,
			Target: c.Rect,
		}}
		if req.Label == "" {
			return visuals, occupied, 0, nil
		}

		label := overlay.Visual{Kind: overlay.KindLabel, Text: numbered(req.Label, i, n), Color: color, Target: c.Rect}
		size, err := a.surface.Measure(label)
		if err != nil {
			return nil, nil, 0, err
		}
		placed := a.engine.Place(placement.Request{
			Mode:     placement.ModeLabel,
			Size:     size,
			Target:   c.Rect,
			Viewport: viewport,
		}, occupied)
		label.Rect = placed.Rect(size)

		degraded := 0
		if placed.Degraded {
			degraded = 1
		}
		return append(visuals, label), append(occupied, placement.Occupied(label.Rect)), degraded, nil
	})
}

// Comment attaches a callout to each resolved target and underlines it.
func (a *Annotator) Comment(req CommentRequest) (resp Response) {
	req.Color = string(overlay.ParseColor(orDefault(req.Color, a.defaults.Color)))
	req.Style = string(overlay.ParseCommentStyle(orDefault(req.Style, a.defaults.Style)))
	side, err := geometry.ParseDirection(orDefault(req.Position, a.defaults.Position))
	if err != nil {
		side = geometry.DirectionRight
	}
	req.Position = string(side)

	resp = Response{
		Selector: req.Selector,
		Text:     req.Text,
		Comment:  req.Comment,
		Position: req.Position,
		Color:    req.Color,
		Style:    req.Style,
	}
	defer a.recoverFault(&resp)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := req.validate(); err != nil {
		return fail(resp, err)
	}
	if strings.TrimSpace(req.Comment) == "" {
		return fail(resp, invalidRequest("comment is required"))
	}
	req.Locator = req.Locator.withDefaults(a.defaults)

	key := dedup.CommentKey(req.Selector, req.Text, req.Comment, req.Position, req.Style)
	return a.run(resp, key, req.Locator, func(c resolve.Candidate, i, n int, occupied []placement.Region, viewport geometry.Rect) ([]overlay.Visual, []placement.Region, int, error) {
		comment := overlay.Visual{
			Kind:   overlay.KindComment,
			Text:   numbered(req.Comment, i, n),
			Color:  overlay.Color(req.Color),
			Style:  overlay.CommentStyle(req.Style),
			Target: c.Rect,
		}
		size, err := a.surface.Measure(comment)
		if err != nil {
			return nil, nil, 0, err
		}
		placed := a.engine.Place(placement.Request{
			Mode:     placement.ModeCallout,
			Size:     size,
			Target:   c.Rect,
			Anchor:   side,
			Viewport: viewport,
		}, occupied)
		comment.Rect = placed.Rect(size)
		comment.Arrow = placed.Arrow

		underline := overlay.Visual{
			Kind:   overlay.KindUnderline,
			Color:  comment.Color,
			Rect:   geometry.NewRect(c.Rect.Left, c.Rect.Bottom, c.Rect.Width(), overlay.UnderlineHeight),
			Target: c.Rect,
		}

		degraded := 0
		if placed.Degraded {
			degraded = 1
		}
		return []overlay.Visual{comment, underline}, append(occupied, placement.Occupied(comment.Rect)), degraded, nil
	})
}

// planFunc builds the visuals for candidate i of n and returns the occupied
// set grown by whatever it placed.
type planFunc func(c resolve.Candidate, i, n int, occupied []placement.Region, viewport geometry.Rect) ([]overlay.Visual, []placement.Region, int, error)

// run is the request pipeline shared by Annotate and Comment. Caller holds a.mu.
func (a *Annotator) run(resp Response, key string, loc Locator, plan planFunc) Response {
	resp.Selector = loc.Selector

	decision := a.guard.Admit(key)
	if decision.Duplicate {
		return fail(resp, &Error{Kind: KindDuplicate, LastExecuted: decision.LastExecuted})
	}

	res, err := a.resolver.Resolve(loc.Selector, loc.Text, resolve.Options{
		OnlyVisible: *loc.OnlyVisible,
		MaxMatches:  loc.MaxMatches,
	})
	if err != nil {
		return fail(resp, classifyResolveError(loc, err))
	}

	// Placement uses the geometry read during resolution. The scroll below is
	// only requested, so positions are relative to the pre-scroll view.
	viewport := res.Metrics.Viewport()
	if *loc.AutoScroll {
		res.Candidates[0].Node.RequestScroll()
		resp.AutoScrolled = true
	}

	if err := a.surface.Sync(); err != nil {
		return fail(resp, runtimeFault("failed to read existing annotations", err))
	}
	occupied := a.surface.Occupied()

	batchID := uuid.NewString()
	var batch []overlay.Visual
	n := len(res.Candidates)
	for i, c := range res.Candidates {
		visuals, grown, degraded, err := plan(c, i, n, occupied, viewport)
		if err != nil {
			return fail(resp, runtimeFault("failed to plan annotation", err))
		}
		occupied = grown
		resp.Degraded += degraded
		for _, v := range visuals {
			v.ID = overlay.NewID(v.Kind)
			v.Batch = batchID
			batch = append(batch, v)
			resp.IDs = append(resp.IDs, v.ID)
		}
	}

	if err := a.surface.Commit(batch); err != nil {
		resp.IDs = nil
		resp.Degraded = 0
		return fail(resp, runtimeFault("failed to render annotations", err))
	}

	resp.Success = true
	resp.Count = n
	resp.TotalMatches = res.TotalMatches
	resp.MatchedBy = string(res.MatchedBy)
	resp.Timestamp = unixMillis(a.now())
	resp.Message = successMessage(n, resp.AutoScrolled, res.Truncated(), loc.MaxMatches)

	debugLog.Infof("%s: placed %d visual(s) for %d target(s), %d degraded", key, len(batch), n, resp.Degraded)
	return resp
}

// Clear removes every annotation from the surface.
func (a *Annotator) Clear() (resp Response) {
	defer a.recoverFault(&resp)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.surface.Sync(); err != nil {
		return fail(resp, runtimeFault("failed to read existing annotations", err))
	}
	n, err := a.surface.Clear()
	if err != nil {
		return fail(resp, runtimeFault("failed to clear annotations", err))
	}

	resp.Success = true
	resp.RemovedCount = n
	resp.Count = n
	resp.Timestamp = unixMillis(a.now())
	if n > 0 {
		resp.Message = fmt.Sprintf("Cleared %d annotation(s)", n)
	} else {
		resp.Message = "No annotations to clear"
	}
	return resp
}

// Inspect builds a diagnostics report for the current page.
func (a *Annotator) Inspect() (*diagnostics.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	metrics, err := a.tree.Metrics()
	if err != nil {
		return nil, fmt.Errorf("failed to read document metrics: %w", err)
	}
	if err := a.surface.Sync(); err != nil {
		return nil, err
	}
	return diagnostics.Build(metrics, a.surface.Annotations(), a.guard.Snapshot()), nil
}

func (a *Annotator) recoverFault(resp *Response) {
	if r := recover(); r != nil {
		debugLog.Errorf("recovered panic: %v\n%s", r, debug.Stack())
		*resp = fail(*resp, runtimeFault("unexpected failure", fmt.Errorf("%v", r)))
	}
}

func classifyResolveError(loc Locator, err error) error {
	var noMatch *resolve.NoMatchError
	switch {
	case errors.As(err, &noMatch):
		target := loc.Selector
		if target == "" {
			target = fmt.Sprintf("text %q", loc.Text)
		}
		return &Error{
			Kind:        KindNoMatch,
			Message:     fmt.Sprintf("No element matched %s", target),
			Err:         err,
			Suggestions: noMatch.Suggestions,
		}
	case errors.Is(err, resolve.ErrNoLocator):
		return invalidRequest("selector or text is required")
	default:
		return runtimeFault("failed to resolve targets", err)
	}
}

func successMessage(n int, scrolled, truncated bool, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Annotated %d element(s)", n)
	if scrolled {
		b.WriteString(" (scrolled into view)")
	}
	if truncated {
		fmt.Fprintf(&b, " (limited to the first %d)", max)
	}
	return b.String()
}

// numbered appends " (i+1)" when a request annotates several targets.
func numbered(text string, i, n int) string {
	if n > 1 {
		return fmt.Sprintf("%s (%d)", text, i+1)
	}
	return text
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
