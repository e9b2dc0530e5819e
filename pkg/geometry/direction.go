package geometry

import (
	"fmt"
	"strings"
)

// Direction names a side of a rectangle.
type Direction string

const (
	DirectionTop    Direction = "top"
	DirectionRight  Direction = "right"
	DirectionBottom Direction = "bottom"
	DirectionLeft   Direction = "left"
)

// ParseDirection converts a user supplied side name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionTop, DirectionRight, DirectionBottom, DirectionLeft:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q (expected top, right, bottom or left)", s)
	}
}

// Opposite returns the mirrored side.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionTop:
		return DirectionBottom
	case DirectionBottom:
		return DirectionTop
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	default:
		return d
	}
}

// Horizontal reports whether d is left or right.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}
