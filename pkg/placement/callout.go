package placement

import "github.com/entrhq/annotator/pkg/geometry"

// compass is one collision search direction in units of (size + spacing).
type compass struct {
	dx, dy float64
}

// searchOrder is S, N, E, W, SE, SW, NE, NW.
var searchOrder = []compass{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// arrow returns the bubble edge that faces back toward the original spot:
// the mirror of the move, using the horizontal component for diagonals.
func (c compass) arrow() geometry.Direction {
	switch {
	case c.dx > 0:
		return geometry.DirectionLeft
	case c.dx < 0:
		return geometry.DirectionRight
	case c.dy > 0:
		return geometry.DirectionTop
	default:
		return geometry.DirectionBottom
	}
}

func (e *Engine) placeCallout(req Request, occupied []Region) Result {
	side := req.Anchor
	if side == "" {
		side = geometry.DirectionRight
	}

	left, top, side := e.natural(req, side)
	left, top = e.clampCrossAxis(req, req.Anchor, left, top)

	result := Result{Left: left, Top: top, Side: side, Arrow: side.Opposite()}

	check := checker{
		target:       req.Target,
		targetMargin: e.cfg.CalloutTargetMargin,
		margin:       e.cfg.CalloutMargin,
		occupied:     occupied,
	}
	w, h := req.Size.Width, req.Size.Height
	if !check.conflicts(geometry.NewRect(left, top, w, h)) {
		return result
	}

	stepX := w + e.cfg.CalloutSpacing
	stepY := h + e.cfg.CalloutSpacing
	for ring := 1; ring <= e.cfg.CalloutRings; ring++ {
		k := float64(ring)
		for _, dir := range searchOrder {
			l := left + dir.dx*stepX*k
			t := top + dir.dy*stepY*k
			if !check.conflicts(geometry.NewRect(l, t, w, h)) {
				result.Left, result.Top = l, t
				result.Arrow = dir.arrow()
				result.Shifted = true
				return result
			}
		}
	}

	result.Degraded = true
	return result
}

// natural returns the position on the requested side with viewport edge
// correction applied. A side flips only when the opposite side fits; a left
// callout that fits on neither side is pinned to the viewport's left inset.
func (e *Engine) natural(req Request, side geometry.Direction) (float64, float64, geometry.Direction) {
	t, vp := req.Target, req.Viewport
	w, h := req.Size.Width, req.Size.Height
	gap := e.cfg.CalloutGap

	centerTop := t.Top + t.Height()/2 - h/2
	centerLeft := t.Left + t.Width()/2 - w/2

	switch side {
	case geometry.DirectionLeft:
		left := t.Left - w - gap
		if left < vp.Left {
			alt := t.Right + gap
			if alt+w <= vp.Right {
				return alt, centerTop, geometry.DirectionRight
			}
			return vp.Left + e.cfg.ViewportInset, centerTop, geometry.DirectionLeft
		}
		return left, centerTop, geometry.DirectionLeft

	case geometry.DirectionTop:
		top := t.Top - h - gap
		if top < vp.Top {
			alt := t.Bottom + gap
			if alt+h <= vp.Bottom {
				return centerLeft, alt, geometry.DirectionBottom
			}
		}
		return centerLeft, top, geometry.DirectionTop

	case geometry.DirectionBottom:
		top := t.Bottom + gap
		if top+h > vp.Bottom {
			alt := t.Top - h - gap
			if alt >= vp.Top {
				return centerLeft, alt, geometry.DirectionTop
			}
		}
		return centerLeft, top, geometry.DirectionBottom

	default:
		left := t.Right + gap
		if left+w > vp.Right {
			alt := t.Left - w - gap
			if alt >= vp.Left {
				return alt, centerTop, geometry.DirectionLeft
			}
		}
		return left, centerTop, geometry.DirectionRight
	}
}

// clampCrossAxis keeps the centred axis inside the viewport inset, but only
// while the target itself is vertically on screen.
func (e *Engine) clampCrossAxis(req Request, requested geometry.Direction, left, top float64) (float64, float64) {
	vp := req.Viewport
	if !req.Target.IntersectsVertically(vp) {
		return left, top
	}
	inset := e.cfg.ViewportInset
	w, h := req.Size.Width, req.Size.Height

	if requested == geometry.DirectionTop || requested == geometry.DirectionBottom {
		switch {
		case left < vp.Left+inset:
			left = vp.Left + inset
		case left+w > vp.Right-inset:
			left = vp.Right - w - inset
		}
		return left, top
	}

	switch {
	case top < vp.Top+inset:
		top = vp.Top + inset
	case top+h > vp.Bottom-inset:
		top = vp.Bottom - h - inset
	}
	return left, top
}
