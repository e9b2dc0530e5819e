// Package htmltree implements dom.Tree over a parsed static HTML document.
//
// Layout is not computed. Each element declares its box in document
// coordinates with a data-box="left,top,width,height" attribute; elements
// without one have an empty box and therefore count as invisible. Inline
// style attributes supply display, visibility and opacity.
package htmltree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
)

// BoxAttribute carries an element's document box.
const BoxAttribute = "data-box"

// Options sets the view the tree reports through Metrics.
type Options struct {
	ViewportWidth  float64
	ViewportHeight float64
	ScrollX        float64
	ScrollY        float64

	// DocumentWidth and DocumentHeight default to the extent of all boxes
	// (and at least the viewport) when zero.
	DocumentWidth  float64
	DocumentHeight float64
}

// Tree is a static document.
type Tree struct {
	root    *html.Node
	opts    Options
	nodes   map[*html.Node]*Node
	mu      sync.Mutex
	scrolls []*Node
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts Options) (*Tree, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	t := &Tree{root: root, opts: opts, nodes: make(map[*html.Node]*Node)}
	if t.opts.ViewportWidth == 0 {
		t.opts.ViewportWidth = 1280
	}
	if t.opts.ViewportHeight == 0 {
		t.opts.ViewportHeight = 720
	}
	t.measureDocument()
	return t, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(doc string, opts Options) (*Tree, error) {
	return Parse(strings.NewReader(doc), opts)
}

// Query implements dom.Tree using cascadia selector groups.
func (t *Tree) Query(selector string) ([]dom.Node, error) {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var out []dom.Node
	walk(t.root, func(n *html.Node) {
		if n.Type == html.ElementNode && group.Match(n) {
			out = append(out, t.wrap(n))
		}
	})
	return out, nil
}

// Metrics implements dom.Tree.
func (t *Tree) Metrics() (dom.Metrics, error) {
	return dom.Metrics{
		ViewportWidth:  t.opts.ViewportWidth,
		ViewportHeight: t.opts.ViewportHeight,
		ScrollX:        t.opts.ScrollX,
		ScrollY:        t.opts.ScrollY,
		DocumentWidth:  t.opts.DocumentWidth,
		DocumentHeight: t.opts.DocumentHeight,
	}, nil
}

// Scrolled returns the nodes that asked to be scrolled into view, oldest first.
func (t *Tree) Scrolled() []*Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Node(nil), t.scrolls...)
}

func (t *Tree) wrap(n *html.Node) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.nodes[n]; ok {
		return w
	}
	w := &Node{tree: t, n: n}
	t.nodes[n] = w
	return w
}

func (t *Tree) measureDocument() {
	width, height := t.opts.ViewportWidth, t.opts.ViewportHeight
	walk(t.root, func(n *html.Node) {
		if box, ok := declaredBox(n); ok {
			if box.Right > width {
				width = box.Right
			}
			if box.Bottom > height {
				height = box.Bottom
			}
		}
	})
	if t.opts.DocumentWidth == 0 {
		t.opts.DocumentWidth = width
	}
	if t.opts.DocumentHeight == 0 {
		t.opts.DocumentHeight = height
	}
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func declaredBox(n *html.Node) (geometry.Rect, bool) {
	if n.Type != html.ElementNode {
		return geometry.Rect{}, false
	}
	raw, ok := attr(n, BoxAttribute)
	if !ok {
		return geometry.Rect{}, false
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, false
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, false
		}
		v[i] = f
	}
	return geometry.NewRect(v[0], v[1], v[2], v[3]), true
}
