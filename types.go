package annotator

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Default marker palette.
var (
	ColorRed   = Color{1, 0, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
	ColorWhite = Color{1, 1, 1, 1}
)

// NRGBA converts c to a straight-alpha 8-bit color usable with the image and
// ebiten packages.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clampByte(c.R),
		G: clampByte(c.G),
		B: clampByte(c.B),
		A: clampByte(c.A),
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. X and Y are the top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// FitMode selects how the drawing surface is sized relative to the image.
type FitMode uint8

const (
	// FitResponsive scales the surface to the container's width, preserving
	// the image aspect ratio.
	FitResponsive FitMode = iota
	// FitNative shows the image at its native pixel size.
	FitNative
)

// String returns the flag spelling of the mode.
func (m FitMode) String() string {
	switch m {
	case FitResponsive:
		return "responsive"
	case FitNative:
		return "native"
	}
	return "unknown"
}

// ParseFitMode converts "responsive" or "native" into a FitMode.
func ParseFitMode(s string) (FitMode, bool) {
	switch s {
	case "responsive", "":
		return FitResponsive, true
	case "native":
		return FitNative, true
	}
	return FitResponsive, false
}

// State is the lifecycle state of an Annotator.
type State uint8

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns a lower-case name for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Cursor is the pointer affordance requested by the annotator.
type Cursor uint8

const (
	// CursorDefault is shown over empty image areas.
	CursorDefault Cursor = iota
	// CursorPointer is shown while hovering a marker.
	CursorPointer
)
