package browser

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/overlay"
)

type evalCall struct {
	script string
	args   []interface{}
}

// fakeEvaluator records scripts and answers with a canned result.
type fakeEvaluator struct {
	calls  []evalCall
	result interface{}
	err    error
}

func (f *fakeEvaluator) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	f.calls = append(f.calls, evalCall{script: expression, args: arg})
	return f.result, f.err
}

func TestPageRendererMeasure(t *testing.T) {
	page := &fakeEvaluator{result: map[string]interface{}{"width": 84.5, "height": 22.0}}
	r := newPageRenderer(page)

	size, err := r.Measure(overlay.Visual{Kind: overlay.KindLabel, Text: "Heading", Color: overlay.ColorBlue})
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{Width: 84.5, Height: 22}, size)

	require.Len(t, page.calls, 1)
	assert.Equal(t, measureScript, page.calls[0].script)
	payload := page.calls[0].args[0].(map[string]interface{})
	assert.Equal(t, "page-annotator-label", payload["className"])
	assert.NotContains(t, payload["css"], "left:", "unplaced visuals carry no position")
}

func TestPageRendererErrors(t *testing.T) {
	page := &fakeEvaluator{err: errors.New("target closed")}
	r := newPageRenderer(page)

	_, err := r.Measure(overlay.Visual{Kind: overlay.KindLabel, Text: "x"})
	assert.ErrorContains(t, err, "failed to measure label")

	err = r.Render(overlay.Visual{ID: "label-1", Kind: overlay.KindLabel})
	assert.ErrorContains(t, err, "failed to draw label-1")

	_, err = r.Clear()
	assert.ErrorContains(t, err, "failed to clear annotations")
}

func TestPageRendererRemove(t *testing.T) {
	page := &fakeEvaluator{}
	r := newPageRenderer(page)

	require.NoError(t, r.Remove(nil))
	assert.Empty(t, page.calls, "nothing to remove means no script")

	require.NoError(t, r.Remove([]string{"a", "b"}))
	require.Len(t, page.calls, 1)
	assert.Equal(t, removeScript, page.calls[0].script)
	assert.Equal(t, []interface{}{"a", "b"}, page.calls[0].args[0])
}

func TestPageRendererClear(t *testing.T) {
	page := &fakeEvaluator{result: 7.0}
	removed, err := newPageRenderer(page).Clear()
	require.NoError(t, err)
	assert.Equal(t, 7, removed)
	assert.Empty(t, page.calls[0].args)
}

func TestPageRendererExisting(t *testing.T) {
	page := &fakeEvaluator{result: []interface{}{
		map[string]interface{}{
			"id": "comment-1", "kind": "comment", "text": "Check this",
			"color": "red", "style": "sticky", "arrow": "left", "batch": "b1",
			"target": "10,20,110,60", "left": "130px", "top": "25.5px",
			"width": 120.0, "height": 40.0,
		},
		map[string]interface{}{
			"id": "legacy", "className": "page-annotator-highlight other",
			"left": "auto", "top": "3px", "width": 10.0, "height": 10.0,
		},
	}}

	visuals, err := newPageRenderer(page).Existing()
	require.NoError(t, err)
	require.Len(t, visuals, 2)

	c := visuals[0]
	assert.Equal(t, overlay.KindComment, c.Kind)
	assert.Equal(t, overlay.ColorRed, c.Color)
	assert.Equal(t, overlay.StyleSticky, c.Style)
	assert.Equal(t, geometry.DirectionLeft, c.Arrow)
	assert.Equal(t, geometry.NewRect(130, 25.5, 120, 40), c.Rect)
	assert.Equal(t, geometry.Rect{Left: 10, Top: 20, Right: 110, Bottom: 60}, c.Target)

	h := visuals[1]
	assert.Equal(t, overlay.KindHighlight, h.Kind, "kind falls back to the class name")
	assert.True(t, math.IsNaN(h.Rect.Left))
	assert.Equal(t, 3.0, h.Rect.Top)
}

func TestParsePixels(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12px", 12},
		{" 12.5px ", 12.5},
		{"-4", -4},
		{"0px", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePixels(tt.in))
		})
	}

	for _, bad := range []string{"", "auto", "12em", "px"} {
		assert.True(t, math.IsNaN(parsePixels(bad)), bad)
	}
}

func TestRectAttributeRoundTrip(t *testing.T) {
	r := geometry.Rect{Left: 1.5, Top: -2, Right: 300, Bottom: 40.25}
	got, ok := parseRect(formatRect(r))
	require.True(t, ok)
	assert.Equal(t, r, got)

	for _, bad := range []string{"", "1,2,3", "1,2,3,x"} {
		_, ok := parseRect(bad)
		assert.False(t, ok, bad)
	}
}

func TestKindFromClass(t *testing.T) {
	tests := map[string]overlay.Kind{
		"page-annotator-highlight":         overlay.KindHighlight,
		"x page-annotator-label":           overlay.KindLabel,
		"page-annotator-comment bubble":    overlay.KindComment,
		"page-annotator-comment-underline": overlay.KindUnderline,
		"something-else":                   "",
	}
	for class, want := range tests {
		assert.Equal(t, want, kindFromClass(class), class)
	}
}

func TestVisualCSS(t *testing.T) {
	highlight := visualCSS(overlay.Visual{
		ID: "highlight-1", Kind: overlay.KindHighlight, Color: overlay.ColorGreen,
		Rect: geometry.NewRect(10, 20, 100, 50),
	})
	assert.Contains(t, highlight, "left:10px;top:20px;width:100px;height:50px;")
	assert.Contains(t, highlight, "box-sizing:border-box;")

	label := visualCSS(overlay.Visual{
		ID: "label-1", Kind: overlay.KindLabel, Text: "Title",
		Rect: geometry.NewRect(5, 6, 40, 20),
	})
	assert.Contains(t, label, "left:5px;top:6px;")
	assert.NotContains(t, label, "width:")
	assert.Contains(t, label, "white-space:nowrap;")

	sticky := visualCSS(overlay.Visual{
		ID: "comment-1", Kind: overlay.KindComment, Style: overlay.StyleSticky,
		Rect: geometry.NewRect(0, 0, 100, 40),
	})
	assert.Contains(t, sticky, "font-family:")
}

func TestPayloadForComment(t *testing.T) {
	v := overlay.Visual{
		ID: "comment-1", Kind: overlay.KindComment, Text: "Note",
		Color: overlay.ColorBlue, Style: overlay.StyleBubble, Arrow: geometry.DirectionRight,
		Rect: geometry.NewRect(0, 0, 100, 40),
	}
	payload := payloadFor(v)

	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "comment-1", data["id"])
	assert.Equal(t, "right", data["arrow"])
	assert.Contains(t, payload["arrowCss"], "right:-16px;")
	assert.NotContains(t, payload, "icon", "bubbles have no icon")

	v.Style = overlay.StyleSticky
	assert.Equal(t, "📌 ", payloadFor(v)["icon"])

	v.Style = overlay.StyleInline
	assert.NotContains(t, payloadFor(v), "arrowCss", "inline comments have no arrow")

	underline := payloadFor(overlay.Visual{ID: "u", Kind: overlay.KindUnderline})
	assert.Equal(t, "page-annotator-comment-underline", underline["className"])
	assert.NotContains(t, underline, "arrowCss")
}

func TestArrowCSS(t *testing.T) {
	tests := []struct {
		edge geometry.Direction
		want string
	}{
		{geometry.DirectionLeft, "border-right-color:#f00;"},
		{geometry.DirectionRight, "border-left-color:#f00;"},
		{geometry.DirectionTop, "border-bottom-color:#f00;"},
		{geometry.DirectionBottom, "border-top-color:#f00;"},
	}
	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			assert.Contains(t, arrowCSS(tt.edge, "#f00"), tt.want)
		})
	}
}

func TestSnapshotStyle(t *testing.T) {
	s := snapshotStyle(elementSnapshot{Display: "block", Visibility: "visible", Opacity: "0.25"})
	assert.Equal(t, 0.25, s.Opacity)

	s = snapshotStyle(elementSnapshot{Display: "none"})
	assert.Equal(t, 1.0, s.Opacity, "missing opacity reads as opaque")
	assert.Equal(t, "none", s.Display)
}

func TestEvaluateInto(t *testing.T) {
	page := &fakeEvaluator{result: map[string]interface{}{"viewportWidth": 800.0}}
	var out struct {
		ViewportWidth float64 `json:"viewportWidth"`
	}
	require.NoError(t, evaluateInto(page, "() => 1", nil, &out))
	assert.Equal(t, 800.0, out.ViewportWidth)
	assert.Empty(t, page.calls[0].args)

	page.result = "not an object"
	assert.ErrorContains(t, evaluateInto(page, "() => 1", "arg", &out), "unexpected script result")
	assert.Equal(t, []interface{}{"arg"}, page.calls[1].args)
}
