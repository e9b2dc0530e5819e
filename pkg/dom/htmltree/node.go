package htmltree

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
)

// Node wraps an element of a static Tree.
type Node struct {
	tree *Tree
	n    *html.Node
}

// Tag returns the lower-case element name.
func (n *Node) Tag() string {
	return n.n.Data
}

// BoundingRect implements dom.Node.
func (n *Node) BoundingRect() (geometry.Rect, error) {
	box, ok := declaredBox(n.n)
	if !ok {
		return geometry.Rect{}, nil
	}
	return box.Translate(-n.tree.opts.ScrollX, -n.tree.opts.ScrollY), nil
}

// Text implements dom.Node with textContent semantics: every descendant text
// node, scripts included, concatenated in order.
func (n *Node) Text() (string, error) {
	var b strings.Builder
	walk(n.n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String(), nil
}

// Style implements dom.Node. display:none, the hidden attribute and
// visibility:hidden are inherited from ancestors; opacity is the element's own.
func (n *Node) Style() (dom.ComputedStyle, error) {
	style := dom.DefaultStyle()
	own := inlineStyle(n.n)
	if v, ok := own["display"]; ok {
		style.Display = v
	}
	if v, ok := own["opacity"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			style.Opacity = f
		}
	}

	inherited := false
	for p := n.n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		decls := inlineStyle(p)
		if _, hidden := attr(p, "hidden"); hidden || decls["display"] == "none" {
			style.Display = "none"
		}
		// the nearest visibility declaration wins
		if v, ok := decls["visibility"]; ok && !inherited {
			style.Visibility = v
			inherited = true
		}
	}
	return style, nil
}

// Landmarks implements dom.Node, matching closest() semantics: the element
// itself counts.
func (n *Node) Landmarks() (dom.LandmarkSet, error) {
	var set dom.LandmarkSet
	for p := n.n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		class, _ := attr(p, "class")
		set |= dom.ClassifyElement(p.Data, class)
	}
	return set, nil
}

// Attribute implements dom.Node.
func (n *Node) Attribute(name string) (string, bool, error) {
	v, ok := attr(n.n, name)
	return v, ok, nil
}

// RequestScroll implements dom.Node. Static trees never move; the request is
// recorded for inspection.
func (n *Node) RequestScroll() {
	n.tree.mu.Lock()
	defer n.tree.mu.Unlock()
	n.tree.scrolls = append(n.tree.scrolls, n)
}

func inlineStyle(n *html.Node) map[string]string {
	raw, ok := attr(n, "style")
	if !ok {
		return nil
	}
	decls := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		decls[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(value))
	}
	return decls
}
