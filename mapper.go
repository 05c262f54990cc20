package annotator

// Mapper converts between device (screen) coordinates and image-native
// coordinates for one drawing surface.
//
// The surface's top-left corner sits at the container's origin. Its size is
// the native image size times Scale. Scale is 1 in FitNative mode and
// containerWidth/nativeWidth in FitResponsive mode; it is also 1 while the
// native size is unknown.
type Mapper struct {
	// Mode is the fit mode used by Layout.
	Mode FitMode
	// BaseRadius is the marker radius in device pixels at scale 1.
	BaseRadius float64

	nativeW, nativeH float64
	origin           Vec2
	scale            float64
}

// NewMapper creates a Mapper with scale 1 and no native size.
func NewMapper(mode FitMode, baseRadius float64) *Mapper {
	return &Mapper{Mode: mode, BaseRadius: baseRadius, scale: 1}
}

// SetNativeSize records the decoded image's dimensions.
func (m *Mapper) SetNativeSize(w, h int) {
	m.nativeW = float64(w)
	m.nativeH = float64(h)
}

// NativeSize returns the recorded image dimensions.
func (m *Mapper) NativeSize() (w, h float64) {
	return m.nativeW, m.nativeH
}

// Layout recomputes the origin and scale from the container bounds.
// A responsive layout against a zero-width container keeps scale 1.
func (m *Mapper) Layout(container Rect) {
	m.origin = Vec2{X: container.X, Y: container.Y}
	m.scale = 1
	if m.Mode == FitResponsive && m.nativeW > 0 && container.Width > 0 {
		m.scale = container.Width / m.nativeW
	}
}

// Scale returns the current device-pixels-per-image-pixel factor.
func (m *Mapper) Scale() float64 {
	return m.scale
}

// Origin returns the surface's top-left corner in device coordinates.
func (m *Mapper) Origin() Vec2 {
	return m.origin
}

// SurfaceSize returns the drawing surface size in device pixels.
func (m *Mapper) SurfaceSize() (w, h float64) {
	return m.nativeW * m.scale, m.nativeH * m.scale
}

// SurfaceBounds returns the surface rectangle in device coordinates.
func (m *Mapper) SurfaceBounds() Rect {
	w, h := m.SurfaceSize()
	return Rect{X: m.origin.X, Y: m.origin.Y, Width: w, Height: h}
}

// DeviceToImage converts a device position to image-native coordinates.
func (m *Mapper) DeviceToImage(dx, dy float64) (x, y float64) {
	return (dx - m.origin.X) / m.scale, (dy - m.origin.Y) / m.scale
}

// ImageToSurface converts image-native coordinates to surface pixels,
// relative to the surface's top-left corner.
func (m *Mapper) ImageToSurface(x, y float64) (sx, sy float64) {
	return x * m.scale, y * m.scale
}

// ImageToDevice converts image-native coordinates to absolute device pixels.
func (m *Mapper) ImageToDevice(x, y float64) (dx, dy float64) {
	sx, sy := m.ImageToSurface(x, y)
	return sx + m.origin.X, sy + m.origin.Y
}

// HitRadius returns the marker hit radius in image space. Every hit-test
// (click-to-add, click-to-select, hover) uses this value. The tap target
// stays a constant BaseRadius device pixels at any scale, while the drawn
// marker is MarkerRadius, so below scale 1 the target is larger than the
// circle and above scale 1 it is smaller.
func (m *Mapper) HitRadius() float64 {
	return m.BaseRadius / m.scale
}

// MarkerRadius returns the drawn marker radius in device pixels.
func (m *Mapper) MarkerRadius() float64 {
	return m.BaseRadius * m.scale
}
