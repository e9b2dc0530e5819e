package browser

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
)

// evaluator is the part of playwright.Page the renderer calls.
type evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// evaluateInto runs a script and decodes its JSON-compatible result into out.
func evaluateInto(e evaluator, script string, arg interface{}, out interface{}) error {
	var (
		raw interface{}
		err error
	)
	if arg == nil {
		raw, err = e.Evaluate(script)
	} else {
		raw, err = e.Evaluate(script, arg)
	}
	if err != nil {
		return err
	}
	return decodeResult(raw, out)
}

func decodeResult(raw interface{}, out interface{}) error {
	if out == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode script result: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unexpected script result: %w", err)
	}
	return nil
}

// pageQuerier is the part of playwright.Page the page tree calls.
type pageQuerier interface {
	evaluator
	EvalOnSelectorAll(selector string, expression string, arg ...interface{}) (interface{}, error)
}

// pageTree exposes a live page as a dom.Tree. A query reads every matching
// element in one in-page pass; nodes keep no element handles and address
// their element by selector and position.
type pageTree struct {
	page pageQuerier
}

func newPageTree(page pageQuerier) *pageTree {
	return &pageTree{page: page}
}

// Query implements dom.Tree.
func (t *pageTree) Query(selector string) ([]dom.Node, error) {
	raw, err := t.page.EvalOnSelectorAll(selector, snapshotAllScript)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	var snaps []elementSnapshot
	if err := decodeResult(raw, &snaps); err != nil {
		return nil, fmt.Errorf("failed to read elements for %q: %w", selector, err)
	}

	nodes := make([]dom.Node, len(snaps))
	for i, snap := range snaps {
		nodes[i] = &pageNode{page: t.page, selector: selector, index: i, snap: snap}
	}
	return nodes, nil
}

// Metrics implements dom.Tree.
func (t *pageTree) Metrics() (dom.Metrics, error) {
	var m dom.Metrics
	if err := evaluateInto(t.page, metricsScript, nil, &m); err != nil {
		return dom.Metrics{}, fmt.Errorf("failed to read page metrics: %w", err)
	}
	return m, nil
}

// elementSnapshot is one entry of snapshotAllScript's result.
type elementSnapshot struct {
	Left       float64            `json:"left"`
	Top        float64            `json:"top"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Text       string             `json:"text"`
	Display    string             `json:"display"`
	Visibility string             `json:"visibility"`
	Opacity    string             `json:"opacity"`
	Attributes map[string]*string `json:"attributes"`
	Chain      []struct {
		Tag   string `json:"tag"`
		Class string `json:"class"`
	} `json:"chain"`
}

// pageNode answers dom.Node queries from the snapshot taken by Query.
type pageNode struct {
	page     pageQuerier
	selector string
	index    int
	snap     elementSnapshot
}

func (n *pageNode) BoundingRect() (geometry.Rect, error) {
	return geometry.NewRect(n.snap.Left, n.snap.Top, n.snap.Width, n.snap.Height), nil
}

func (n *pageNode) Text() (string, error) {
	return n.snap.Text, nil
}

func (n *pageNode) Style() (dom.ComputedStyle, error) {
	return snapshotStyle(n.snap), nil
}

func (n *pageNode) Landmarks() (dom.LandmarkSet, error) {
	var set dom.LandmarkSet
	for _, el := range n.snap.Chain {
		set |= dom.ClassifyElement(el.Tag, el.Class)
	}
	return set, nil
}

// Attribute answers id and class from the snapshot and reads anything else
// from the page.
func (n *pageNode) Attribute(name string) (string, bool, error) {
	if v, ok := n.snap.Attributes[name]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	raw, err := n.page.EvalOnSelectorAll(n.selector, attributeScript, map[string]interface{}{"index": n.index, "name": name})
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %s: %w", name, err)
	}
	value, ok := raw.(string)
	return value, ok, nil
}

func (n *pageNode) RequestScroll() {
	if _, err := n.page.EvalOnSelectorAll(n.selector, scrollScript, n.index); err != nil {
		debugLog.Warnf("scroll request failed: %v", err)
	}
}

func snapshotStyle(s elementSnapshot) dom.ComputedStyle {
	style := dom.ComputedStyle{Display: s.Display, Visibility: s.Visibility, Opacity: 1}
	if v, err := strconv.ParseFloat(s.Opacity, 64); err == nil {
		style.Opacity = v
	}
	return style
}
