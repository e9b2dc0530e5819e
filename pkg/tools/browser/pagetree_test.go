package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/resolve"
)

type selectorCall struct {
	selector string
	script   string
	args     []interface{}
}

// fakePage answers metrics through Evaluate and element queries through
// EvalOnSelectorAll, keyed by selector. Unknown selectors match nothing.
type fakePage struct {
	fakeEvaluator
	elements  map[string][]interface{}
	selectErr error
	selects   []selectorCall
	attribute interface{}
}

func (f *fakePage) EvalOnSelectorAll(selector string, expression string, arg ...interface{}) (interface{}, error) {
	f.selects = append(f.selects, selectorCall{selector: selector, script: expression, args: arg})
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	switch expression {
	case snapshotAllScript:
		if els, ok := f.elements[selector]; ok {
			return els, nil
		}
		return []interface{}{}, nil
	case attributeScript:
		return f.attribute, nil
	default:
		return nil, nil
	}
}

// roundTrips counts every call that crossed into the page.
func (f *fakePage) roundTrips() int {
	return len(f.calls) + len(f.selects)
}

func element(text string, left, top float64, id interface{}, chain ...string) map[string]interface{} {
	links := make([]interface{}, 0, len(chain))
	for _, tag := range chain {
		links = append(links, map[string]interface{}{"tag": tag, "class": ""})
	}
	return map[string]interface{}{
		"left": left, "top": top, "width": 200.0, "height": 30.0,
		"text":    text,
		"display": "block", "visibility": "visible", "opacity": "1",
		"attributes": map[string]interface{}{"id": id, "class": nil},
		"chain":      links,
	}
}

func newFakePage() *fakePage {
	return &fakePage{
		fakeEvaluator: fakeEvaluator{result: map[string]interface{}{
			"viewportWidth": 1024.0, "viewportHeight": 768.0,
			"scrollX": 0.0, "scrollY": 100.0,
			"documentWidth": 1024.0, "documentHeight": 3000.0,
		}},
		elements: map[string][]interface{}{},
	}
}

func TestPageTreeQueryReadsAllElementsAtOnce(t *testing.T) {
	page := newFakePage()
	selector := "p, li, span, div, a, button, label, td, th"
	var els []interface{}
	for i := 0; i < 500; i++ {
		els = append(els, element("row", 10, float64(i*30), nil, "td", "tr", "table", "body", "html"))
	}
	els[42] = element("Contact us", 10, 1260, "contact", "p", "footer", "body", "html")
	page.elements[selector] = els

	nodes, err := newPageTree(page).Query(selector)
	require.NoError(t, err)
	require.Len(t, nodes, 500)
	assert.Equal(t, 1, page.roundTrips())

	n := nodes[42]
	text, err := n.Text()
	require.NoError(t, err)
	assert.Equal(t, "Contact us", text)
	rect, err := n.BoundingRect()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRect(10, 1260, 200, 30), rect)
	style, err := n.Style()
	require.NoError(t, err)
	assert.Equal(t, 1.0, style.Opacity)
	landmarks, err := n.Landmarks()
	require.NoError(t, err)
	assert.True(t, landmarks.Has(dom.LandmarkFooter))

	id, ok, err := n.Attribute("id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "contact", id)
	_, ok, err = nodes[0].Attribute("class")
	require.NoError(t, err)
	assert.False(t, ok, "absent attributes read as missing")

	assert.Equal(t, 1, page.roundTrips(), "snapshot answers text, geometry, style, landmarks, id and class")
}

func TestPageTreeResolveRoundTrips(t *testing.T) {
	page := newFakePage()
	page.elements[resolve.TextTiers[0]] = []interface{}{
		element("Contact sales", 100, 100, "sales", "h2", "main", "body", "html"),
		element("Pricing", 100, 200, nil, "h2", "main", "body", "html"),
	}

	res, err := resolve.New(newPageTree(page)).Resolve("", "Contact", resolve.Options{OnlyVisible: true, MaxMatches: 1})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 0, res.Tier)
	assert.Equal(t, geometry.NewRect(100, 200, 200, 30), res.Candidates[0].Rect, "viewport box shifted by scroll")
	assert.Equal(t, 2, page.roundTrips(), "one metrics read and one tier query")
}

func TestPageTreeSuggestionsRoundTrips(t *testing.T) {
	page := newFakePage()
	page.elements["[id]"] = []interface{}{
		element("", 0, 0, "submit-button", "button", "body", "html"),
		element("", 0, 40, "submit-link", "a", "body", "html"),
	}

	_, err := resolve.New(newPageTree(page)).Resolve("#submit", "", resolve.Options{MaxMatches: 1})
	var noMatch *resolve.NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Contains(t, noMatch.Suggestions, "Similar IDs: #submit-button, #submit-link")

	for _, call := range page.selects {
		assert.Equal(t, snapshotAllScript, call.script, "attribute values come from the snapshot")
	}
}

func TestPageNodeAddressesElementByPosition(t *testing.T) {
	page := newFakePage()
	page.elements["h2"] = []interface{}{
		element("A", 0, 0, nil, "h2"),
		element("B", 0, 40, nil, "h2"),
	}
	page.attribute = "hero"

	nodes, err := newPageTree(page).Query("h2")
	require.NoError(t, err)

	v, ok, err := nodes[1].Attribute("data-role")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hero", v)
	nodes[1].RequestScroll()

	require.Len(t, page.selects, 3)
	assert.Equal(t, selectorCall{
		selector: "h2",
		script:   attributeScript,
		args:     []interface{}{map[string]interface{}{"index": 1, "name": "data-role"}},
	}, page.selects[1])
	assert.Equal(t, selectorCall{selector: "h2", script: scrollScript, args: []interface{}{1}}, page.selects[2])
}

func TestPageTreeQueryErrors(t *testing.T) {
	page := newFakePage()
	page.selectErr = errors.New("unexpected token")
	_, err := newPageTree(page).Query("div[")
	assert.ErrorContains(t, err, `invalid selector "div["`)

	page.selectErr = nil
	page.elements["p"] = []interface{}{"not an element"}
	_, err = newPageTree(page).Query("p")
	assert.ErrorContains(t, err, "failed to read elements")
}
