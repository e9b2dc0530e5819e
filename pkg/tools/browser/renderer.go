package browser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/overlay"
)

const arrowSize = 8

// pageRenderer draws visuals into the page's annotation container.
type pageRenderer struct {
	page evaluator
}

func newPageRenderer(page evaluator) *pageRenderer {
	return &pageRenderer{page: page}
}

// Measure implements overlay.Renderer by laying the text out off-screen.
func (r *pageRenderer) Measure(v overlay.Visual) (geometry.Size, error) {
	payload := payloadFor(v)
	var size geometry.Size
	if err := evaluateInto(r.page, measureScript, payload, &size); err != nil {
		return geometry.Size{}, fmt.Errorf("failed to measure %s: %w", v.Kind, err)
	}
	return size, nil
}

// Render implements overlay.Renderer.
func (r *pageRenderer) Render(v overlay.Visual) error {
	if _, err := r.page.Evaluate(renderScript, payloadFor(v)); err != nil {
		return fmt.Errorf("failed to draw %s: %w", v.ID, err)
	}
	return nil
}

// Remove implements overlay.Renderer.
func (r *pageRenderer) Remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	list := make([]interface{}, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	if _, err := r.page.Evaluate(removeScript, list); err != nil {
		return fmt.Errorf("failed to remove annotations: %w", err)
	}
	return nil
}

// Clear implements overlay.Renderer.
func (r *pageRenderer) Clear() (int, error) {
	var removed int
	if err := evaluateInto(r.page, clearScript, nil, &removed); err != nil {
		return 0, fmt.Errorf("failed to clear annotations: %w", err)
	}
	return removed, nil
}

// existingEntry is one element reported by existingScript.
type existingEntry struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	ClassName string  `json:"className"`
	Text      string  `json:"text"`
	Color     string  `json:"color"`
	Style     string  `json:"style"`
	Arrow     string  `json:"arrow"`
	Batch     string  `json:"batch"`
	Target    string  `json:"target"`
	Left      string  `json:"left"`
	Top       string  `json:"top"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Existing implements overlay.Renderer.
func (r *pageRenderer) Existing() ([]overlay.Visual, error) {
	var entries []existingEntry
	if err := evaluateInto(r.page, existingScript, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	visuals := make([]overlay.Visual, 0, len(entries))
	for _, e := range entries {
		visuals = append(visuals, e.visual())
	}
	return visuals, nil
}

func (e existingEntry) visual() overlay.Visual {
	kind := overlay.Kind(e.Kind)
	if kind == "" {
		kind = kindFromClass(e.ClassName)
	}
	v := overlay.Visual{
		ID:    e.ID,
		Kind:  kind,
		Text:  e.Text,
		Color: overlay.Color(e.Color),
		Style: overlay.CommentStyle(e.Style),
		Arrow: geometry.Direction(e.Arrow),
		Batch: e.Batch,
		Rect:  geometry.NewRect(parsePixels(e.Left), parsePixels(e.Top), e.Width, e.Height),
	}
	if t, ok := parseRect(e.Target); ok {
		v.Target = t
	}
	return v
}

func kindFromClass(className string) overlay.Kind {
	for _, cls := range strings.Fields(className) {
		switch cls {
		case "page-annotator-highlight":
			return overlay.KindHighlight
		case "page-annotator-label":
			return overlay.KindLabel
		case "page-annotator-comment":
			return overlay.KindComment
		case "page-annotator-comment-underline":
			return overlay.KindUnderline
		}
	}
	return ""
}

// parsePixels reads a CSS length such as "12.5px". Anything else is NaN.
func parsePixels(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatRect(r geometry.Rect) string {
	return strings.Join([]string{px(r.Left), px(r.Top), px(r.Right), px(r.Bottom)}, ",")
}

func parseRect(s string) (geometry.Rect, bool) {
	parts := strings.Split(s, ",")
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
	return geometry.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, true
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// payloadFor builds the argument of measureScript and renderScript.
func payloadFor(v overlay.Visual) map[string]interface{} {
	data := map[string]interface{}{
		"id":     v.ID,
		"kind":   string(v.Kind),
		"color":  string(v.Color),
		"batch":  v.Batch,
		"target": formatRect(v.Target),
	}
	if v.Text != "" {
		data["text"] = v.Text
	}
	if v.Style != "" {
		data["style"] = string(v.Style)
	}
	if v.Arrow != "" {
		data["arrow"] = string(v.Arrow)
	}

	payload := map[string]interface{}{
		"className": "page-annotator-" + classSuffix(v.Kind),
		"css":       visualCSS(v),
		"text":      v.Text,
		"data":      data,
	}
	if v.Kind == overlay.KindComment {
		if icon := v.Metrics().Icon; icon != "" {
			payload["icon"] = icon
			payload["iconCss"] = "font-size:14px;margin-right:4px;"
		}
		if v.HasArrow() {
			payload["arrowCss"] = arrowCSS(v.Arrow, v.Palette().Border)
		}
	}
	return payload
}

func classSuffix(k overlay.Kind) string {
	if k == overlay.KindUnderline {
		return "comment-underline"
	}
	return string(k)
}

// visualCSS returns the inline style of a visual. Boxes are border-box so
// the drawn size equals the planned rectangle.
func visualCSS(v overlay.Visual) string {
	var b cssBuilder
	b.set("position", "absolute")
	b.set("box-sizing", "border-box")
	b.set("pointer-events", "none")
	if v.Kind == overlay.KindLabel || v.Kind == overlay.KindComment {
		// Unplaced visuals are being measured and have no position yet.
		if v.ID != "" {
			b.set("left", px(v.Rect.Left)+"px")
			b.set("top", px(v.Rect.Top)+"px")
		}
	} else {
		b.set("left", px(v.Rect.Left)+"px")
		b.set("top", px(v.Rect.Top)+"px")
		b.set("width", px(v.Rect.Width())+"px")
		b.set("height", px(v.Rect.Height())+"px")
	}

	pal := v.Palette()
	switch v.Kind {
	case overlay.KindHighlight:
		b.set("background", pal.Background)
		b.set("border", "2px solid "+pal.Border)
		b.set("border-radius", "4px")
		b.set("box-shadow", "0 0 10px "+pal.Border)
		b.set("animation", "annotator-pulse 2s ease-in-out")
	case overlay.KindLabel:
		textBox(&b, v.Metrics())
		b.set("background", pal.Border)
		b.set("color", pal.Text)
		b.set("border-radius", "4px")
		b.set("white-space", "nowrap")
		b.set("box-shadow", "0 2px 8px rgba(0,0,0,0.2)")
		b.set("z-index", "1")
	case overlay.KindComment:
		m := v.Metrics()
		textBox(&b, m)
		b.set("background", pal.Background)
		b.set("color", pal.Text)
		b.set("border", px(m.Border)+"px solid "+pal.Border)
		b.set("border-left", px(m.BorderLeft)+"px solid "+pal.Border)
		b.set("word-wrap", "break-word")
		b.set("z-index", "1")
		b.set("animation", "comment-fade-in 0.3s ease-out")
		switch overlay.ParseCommentStyle(string(v.Style)) {
		case overlay.StyleSticky:
			b.set("border-radius", "4px")
			b.set("box-shadow", "0 4px 12px rgba(0,0,0,0.2)")
			b.set("font-family", "'Segoe UI', Tahoma, Geneva, Verdana, sans-serif")
		case overlay.StyleInline:
			b.set("border-radius", "4px")
			b.set("box-shadow", "0 2px 6px rgba(0,0,0,0.1)")
		default:
			b.set("border-radius", "8px")
			b.set("box-shadow", "0 2px 8px rgba(0,0,0,0.15)")
		}
	case overlay.KindUnderline:
		b.set("background", pal.Border)
		b.set("z-index", "0")
		b.set("animation", "comment-fade-in 0.3s ease-out")
	}
	return b.String()
}

func textBox(b *cssBuilder, m overlay.BoxMetrics) {
	b.set("padding", px(m.PaddingY)+"px "+px(m.PaddingX)+"px")
	b.set("font-size", px(m.FontSize)+"px")
	b.set("line-height", px(m.LineHeight))
	if m.MaxWidth > 0 {
		b.set("max-width", px(m.MaxWidth)+"px")
	}
	if m.Bold {
		b.set("font-weight", "bold")
	}
}

// arrowCSS draws a triangle on the given edge of a comment, pointing out.
func arrowCSS(edge geometry.Direction, color string) string {
	var b cssBuilder
	b.set("position", "absolute")
	b.set("width", "0")
	b.set("height", "0")
	b.set("border", px(arrowSize)+"px solid transparent")
	offset := px(-2*arrowSize) + "px"
	switch edge {
	case geometry.DirectionLeft:
		b.set("left", offset)
		b.set("top", "50%")
		b.set("transform", "translateY(-50%)")
		b.set("border-right-color", color)
	case geometry.DirectionRight:
		b.set("right", offset)
		b.set("top", "50%")
		b.set("transform", "translateY(-50%)")
		b.set("border-left-color", color)
	case geometry.DirectionTop:
		b.set("top", offset)
		b.set("left", "50%")
		b.set("transform", "translateX(-50%)")
		b.set("border-bottom-color", color)
	case geometry.DirectionBottom:
		b.set("bottom", offset)
		b.set("left", "50%")
		b.set("transform", "translateX(-50%)")
		b.set("border-top-color", color)
	}
	return b.String()
}

type cssBuilder struct {
	strings.Builder
}

func (b *cssBuilder) set(property, value string) {
	b.WriteString(property)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte(';')
}
