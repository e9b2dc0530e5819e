package placement

import "github.com/entrhq/annotator/pkg/geometry"

// placeLabel puts the label above the target's top-left corner, then walks
// the offset list vertically (upward first), then horizontally. When every
// trial conflicts the label goes well above the target.
func (e *Engine) placeLabel(req Request, occupied []Region) Result {
	check := checker{
		target:       req.Target,
		targetMargin: e.cfg.LabelTargetMargin,
		margin:       e.cfg.LabelMargin,
		occupied:     occupied,
	}
	size := req.Size
	left := req.Target.Left
	top := req.Target.Top - size.Height - e.cfg.LabelGutter

	at := func(l, t float64) geometry.Rect {
		return geometry.NewRect(l, t, size.Width, size.Height)
	}

	result := Result{Left: left, Top: top, Side: geometry.DirectionTop}
	if !check.conflicts(at(left, top)) {
		return result
	}

	for _, off := range e.cfg.LabelOffsets {
		if !check.conflicts(at(left, top+off)) {
			result.Top = top + off
			result.Shifted = true
			return result
		}
	}
	for _, off := range e.cfg.LabelOffsets {
		if !check.conflicts(at(left+off, top)) {
			result.Left = left + off
			result.Shifted = true
			return result
		}
	}

	result.Top = req.Target.Top - size.Height - e.cfg.LabelFallbackGap
	result.Degraded = true
	return result
}
