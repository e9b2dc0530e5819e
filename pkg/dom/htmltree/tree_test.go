package htmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
)

const fixture = `<!DOCTYPE html>
<html><body>
<header class="header"><h1 id="brand" data-box="0,0,200,40">Brand</h1></header>
<main>
  <article>
    <h2 id="title" data-box="20,60,300,30">Release   notes</h2>
    <p class="lead intro" data-box="20,100,400,60" style="opacity: 0.5">First <b>bold</b> paragraph</p>
  </article>
  <div style="display:none"><p id="hidden-child" data-box="0,200,10,10">ghost</p></div>
  <div style="visibility:hidden"><span id="vis" data-box="0,220,10,10" style="visibility: visible">seen</span></div>
</main>
<div class="sidebar"><a id="side" data-box="900,0,100,20">Side link</a></div>
<footer><button id="submit" data-box="20,2000,80,30">Submit</button></footer>
</body></html>`

func parseFixture(t *testing.T, opts Options) *Tree {
	t.Helper()
	tree, err := ParseString(fixture, opts)
	require.NoError(t, err)
	return tree
}

func TestQueryDocumentOrder(t *testing.T) {
	tree := parseFixture(t, Options{})

	nodes, err := tree.Query("#submit, h1, h2")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	var ids []string
	for _, n := range nodes {
		id, ok, err := n.Attribute("id")
		require.NoError(t, err)
		require.True(t, ok)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"brand", "title", "submit"}, ids)

	again, err := tree.Query("h1")
	require.NoError(t, err)
	assert.Same(t, nodes[0], again[0], "nodes are stable across queries")
}

func TestQueryInvalidSelector(t *testing.T) {
	tree := parseFixture(t, Options{})
	_, err := tree.Query("div[")
	assert.Error(t, err)
}

func TestNodeGeometryAndText(t *testing.T) {
	tree := parseFixture(t, Options{ViewportWidth: 1000, ViewportHeight: 500, ScrollY: 50})

	nodes, err := tree.Query(".lead")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	p := nodes[0]

	rect, err := p.BoundingRect()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRect(20, 50, 400, 60), rect, "viewport relative after scroll")

	text, err := p.Text()
	require.NoError(t, err)
	assert.Equal(t, "First bold paragraph", dom.NormalizeText(text))

	style, err := p.Style()
	require.NoError(t, err)
	assert.Equal(t, 0.5, style.Opacity)

	landmarks, err := p.Landmarks()
	require.NoError(t, err)
	assert.True(t, landmarks.Has(dom.LandmarkMain))
	assert.True(t, landmarks.Has(dom.LandmarkArticle))
	assert.False(t, landmarks.Excluded())

	m, err := tree.Metrics()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, m.DocumentWidth)
	assert.Equal(t, 2030.0, m.DocumentHeight)
}

func TestNodeStyleInheritance(t *testing.T) {
	tree := parseFixture(t, Options{})

	hidden, err := tree.Query("#hidden-child")
	require.NoError(t, err)
	style, err := hidden[0].Style()
	require.NoError(t, err)
	assert.Equal(t, "none", style.Display)

	vis, err := tree.Query("#vis")
	require.NoError(t, err)
	style, err = vis[0].Style()
	require.NoError(t, err)
	assert.Equal(t, "visible", style.Visibility)
}

func TestLandmarksChrome(t *testing.T) {
	tree := parseFixture(t, Options{})

	tests := []struct {
		selector string
		want     dom.LandmarkSet
	}{
		{"#brand", dom.LandmarkHeader | dom.LandmarkChrome},
		{"#side", dom.LandmarkChrome},
		{"#submit", dom.LandmarkFooter},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			nodes, err := tree.Query(tt.selector)
			require.NoError(t, err)
			got, err := nodes[0].Landmarks()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Excluded())
		})
	}
}

func TestMissingBoxIsEmpty(t *testing.T) {
	tree := parseFixture(t, Options{})
	nodes, err := tree.Query("b")
	require.NoError(t, err)
	rect, err := nodes[0].BoundingRect()
	require.NoError(t, err)
	assert.True(t, rect.IsEmpty())
}

func TestRequestScrollRecorded(t *testing.T) {
	tree := parseFixture(t, Options{})
	nodes, err := tree.Query("h2")
	require.NoError(t, err)

	nodes[0].RequestScroll()
	scrolled := tree.Scrolled()
	require.Len(t, scrolled, 1)
	assert.Equal(t, "h2", scrolled[0].Tag())
}
