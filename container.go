package annotator

// Container is the region of the screen an Annotator lays its surface out in.
// Bounds is read when the image finishes loading and again after every
// Resize call. Only the width influences the scale; X and Y position the
// surface's top-left corner on screen.
type Container interface {
	Bounds() Rect
}

// Frame is a mutable Container, typically updated from ebiten's Layout.
// Frame is not safe for concurrent use; update it from the game loop.
type Frame struct {
	bounds Rect
}

// NewFrame returns a Frame with the given initial bounds.
func NewFrame(bounds Rect) *Frame {
	return &Frame{bounds: bounds}
}

// Bounds implements Container.
func (f *Frame) Bounds() Rect {
	return f.bounds
}

// SetBounds replaces the frame's bounds. The annotator picks the change up
// after its Resize method is called.
func (f *Frame) SetBounds(r Rect) {
	f.bounds = r
}

// SetWidth changes only the frame's width.
func (f *Frame) SetWidth(w float64) {
	f.bounds.Width = w
}
