package annotator

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// clickDeadZone is how far, in device pixels, the pointer may travel between
// press and release for the gesture to still count as a click.
const clickDeadZone = 4.0

// pointerState tracks the primary pointer between frames.
type pointerState struct {
	down           bool
	pressedOnImage bool
	startX, startY float64
	lastX, lastY   float64
}

// processInput feeds one pointer sample into the click/hover state machine.
// Injected events take priority over the real mouse.
func (a *Annotator) processInput() {
	if a.processInjectedInput() {
		return
	}
	a.processMousePointer()
}

// processMousePointer reads the left mouse button and cursor position.
func (a *Annotator) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	a.processPointer(float64(mx), float64(my), pressed)
}

// processPointer handles a pointer sample in device coordinates. A click is a
// press and release on the surface within clickDeadZone of each other.
func (a *Annotator) processPointer(dx, dy float64, pressed bool) {
	if a.state != StateReady {
		return
	}
	ps := &a.pointer
	onImage := a.mapper.SurfaceBounds().Contains(dx, dy)
	ix, iy := a.mapper.DeviceToImage(dx, dy)

	a.updateHover(ix, iy, onImage)

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.pressedOnImage = onImage
		ps.startX, ps.startY = dx, dy
	case !pressed && ps.down:
		ps.down = false
		moved := math.Hypot(dx-ps.startX, dy-ps.startY)
		if ps.pressedOnImage && onImage && moved <= clickDeadZone {
			a.handleClick(ix, iy)
		}
	}
	ps.lastX, ps.lastY = dx, dy
}

// updateHover picks the cursor for the pointer's image position.
func (a *Annotator) updateHover(ix, iy float64, onImage bool) {
	a.cursor = CursorDefault
	if !onImage {
		return
	}
	if _, ok := a.store.HitTest(ix, iy, a.mapper.HitRadius()); ok {
		a.cursor = CursorPointer
	}
}

// handleClick is the single click policy: a hit selects the first matching
// point, a miss adds a new one.
func (a *Annotator) handleClick(ix, iy float64) {
	if p, ok := a.store.HitTest(ix, iy, a.mapper.HitRadius()); ok {
		a.SelectPoint(p.ID)
		return
	}

	data := ""
	if a.cfg.Prompt != nil {
		var ok bool
		if data, ok = a.prompt(ix, iy); !ok {
			return
		}
	}
	if _, err := a.AddPoint(ix, iy, data); err != nil {
		a.report("add point failed", err)
	}
}

// prompt asks Config.Prompt for annotation text. A panic is reported and
// treated as a cancelled prompt.
func (a *Annotator) prompt(ix, iy float64) (data string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.report("hook failed", &HandlerError{Hook: "Prompt", Err: panicError(r)})
			data, ok = "", false
		}
	}()
	return a.cfg.Prompt(ix, iy)
}
