// Package resolve turns a locator (a CSS selector, free text, or both) into
// an ordered list of target candidates on a dom.Tree.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("resolve")
}

// MaxTextLength bounds the text of an element that can match a text search.
// Longer elements are containers whose match is incidental.
const MaxTextLength = 500

// TextTiers are the scopes searched for free text, most authoritative first.
// The first tier with at least one match is used and later tiers are skipped.
var TextTiers = []string{
	"main h1, main h2, main h3, main h4, main h5, main h6",
	"article h1, article h2, article h3, article h4, article h5, article h6",
	"main p, main li, main span, main div",
	"article p, article li, article span, article div",
	".content h1, .content h2, .content h3, .content h4, .content h5, .content h6",
	".content p, .content li, .content span, .content div",
	"h1, h2, h3, h4, h5, h6",
	"p, li, span, div, a, button, label, td, th",
}

// ErrNoLocator is returned when neither a selector nor text is supplied.
var ErrNoLocator = errors.New("selector or text is required")

// MatchedBy tells which half of the locator produced the candidates.
type MatchedBy string

const (
	MatchedBySelector MatchedBy = "selector"
	MatchedByText     MatchedBy = "text"
)

// Options controls filtering and the result cap.
type Options struct {
	// OnlyVisible drops invisible elements and elements inside navigation,
	// sidebar, header or footer regions. It applies to text matches only.
	OnlyVisible bool

	// MaxMatches caps the candidate list. Values below 1 mean 1.
	MaxMatches int
}

// Candidate is a resolved target. Rect is in document coordinates as read
// at resolution time.
type Candidate struct {
	Node      dom.Node
	Rect      geometry.Rect
	Text      string
	Landmarks dom.LandmarkSet
	Visible   bool
}

// Score is the landmark relevance of the candidate.
func (c Candidate) Score() int {
	return c.Landmarks.Score()
}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Candidates []Candidate
	// TotalMatches counts candidates before the cap was applied.
	TotalMatches int
	MatchedBy    MatchedBy
	// Tier is the index into TextTiers that matched, or -1 for selector matches.
	Tier    int
	Metrics dom.Metrics
}

// Truncated reports whether the cap dropped candidates.
func (r *Resolution) Truncated() bool {
	return r.TotalMatches > len(r.Candidates)
}

// NoMatchError reports a locator that produced no candidates, with
// best-effort hints for fixing it.
type NoMatchError struct {
	Selector    string
	Text        string
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	target := e.Selector
	if target == "" {
		target = fmt.Sprintf("text %q", e.Text)
	}
	return fmt.Sprintf("no element matched %s", target)
}

// Resolver resolves locators against one tree. It holds no state between
// calls; every Resolve re-queries the tree.
type Resolver struct {
	tree dom.Tree
}

// New creates a resolver for tree.
func New(tree dom.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Resolve returns the candidates for a locator.
//
// A selector match wins outright and keeps document order. When the selector
// is absent or matches nothing, text is searched tier by tier, filtered by
// visibility, ranked by landmark score and capped. With no candidates the
// error is a *NoMatchError carrying suggestions.
func (r *Resolver) Resolve(selector, text string, opts Options) (*Resolution, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" && text == "" {
		return nil, ErrNoLocator
	}
	if opts.MaxMatches < 1 {
		opts.MaxMatches = 1
	}

	metrics, err := r.tree.Metrics()
	if err != nil {
		return nil, fmt.Errorf("failed to read document metrics: %w", err)
	}

	res := &Resolution{Tier: -1, Metrics: metrics}

	if selector != "" {
		nodes, err := r.tree.Query(selector)
		if err != nil {
			return nil, fmt.Errorf("selector query failed: %w", err)
		}
		if len(nodes) > 0 {
			res.MatchedBy = MatchedBySelector
			res.TotalMatches = len(nodes)
			if len(nodes) > opts.MaxMatches {
				nodes = nodes[:opts.MaxMatches]
			}
			for _, n := range nodes {
				c, err := describe(n, metrics)
				if err != nil {
					return nil, err
				}
				res.Candidates = append(res.Candidates, c)
			}
			debugLog.Debugf("selector %q matched %d element(s)", selector, res.TotalMatches)
			return res, nil
		}
	}

	if text != "" {
		tier, matches, err := r.searchText(text, metrics)
		if err != nil {
			return nil, err
		}
		if opts.OnlyVisible {
			matches = filterVisible(matches)
		}
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score() > matches[j].Score()
		})
		if len(matches) > 0 {
			res.MatchedBy = MatchedByText
			res.Tier = tier
			res.TotalMatches = len(matches)
			if len(matches) > opts.MaxMatches {
				matches = matches[:opts.MaxMatches]
			}
			res.Candidates = matches
			debugLog.Debugf("text %q matched %d element(s) in tier %d", text, res.TotalMatches, tier)
			return res, nil
		}
	}

	return nil, &NoMatchError{
		Selector:    selector,
		Text:        text,
		Suggestions: Suggest(r.tree, selector, text),
	}
}

// searchText returns the first tier with a text match together with its
// matches in document order. A tier of -1 means nothing matched anywhere.
func (r *Resolver) searchText(text string, metrics dom.Metrics) (int, []Candidate, error) {
	for i, scope := range TextTiers {
		nodes, err := r.tree.Query(scope)
		if err != nil {
			return -1, nil, fmt.Errorf("text scope query failed: %w", err)
		}

		var matches []Candidate
		for _, n := range nodes {
			raw, err := n.Text()
			if err != nil {
				return -1, nil, fmt.Errorf("failed to read element text: %w", err)
			}
			normalized := dom.NormalizeText(raw)
			if !strings.Contains(normalized, text) || utf8.RuneCountInString(normalized) >= MaxTextLength {
				continue
			}
			c, err := describe(n, metrics)
			if err != nil {
				return -1, nil, err
			}
			c.Text = normalized
			matches = append(matches, c)
		}
		if len(matches) > 0 {
			return i, matches, nil
		}
	}
	return -1, nil, nil
}

func filterVisible(in []Candidate) []Candidate {
	out := in[:0:0]
	for _, c := range in {
		if c.Visible && !c.Landmarks.Excluded() {
			out = append(out, c)
		}
	}
	return out
}

func describe(n dom.Node, metrics dom.Metrics) (Candidate, error) {
	rect, err := n.BoundingRect()
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read element geometry: %w", err)
	}
	style, err := n.Style()
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read element style: %w", err)
	}
	landmarks, err := n.Landmarks()
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read element landmarks: %w", err)
	}
	text, err := n.Text()
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read element text: %w", err)
	}

	return Candidate{
		Node:      n,
		Rect:      metrics.ToDocument(rect),
		Text:      dom.NormalizeText(text),
		Landmarks: landmarks,
		Visible:   dom.IsVisible(rect, style),
	}, nil
}
