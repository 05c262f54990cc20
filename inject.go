package annotator

// syntheticPointerEvent is a queued pointer sample in device coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next Update.
func (a *Annotator) InjectPress(x, y float64) {
	a.injectQueue = append(a.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (a *Annotator) InjectRelease(x, y float64) {
	a.injectQueue = append(a.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectMove queues a hover sample with no button held.
func (a *Annotator) InjectMove(x, y float64) {
	a.InjectRelease(x, y)
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (a *Annotator) InjectClick(x, y float64) {
	a.InjectPress(x, y)
	a.InjectRelease(x, y)
}

// PendingInput reports how many injected events are still queued.
func (a *Annotator) PendingInput() int {
	return len(a.injectQueue)
}

// processInjectedInput pops one queued event and feeds it through
// processPointer. Returns true if an event was consumed, in which case real
// mouse input is skipped for the frame.
func (a *Annotator) processInjectedInput() bool {
	if len(a.injectQueue) == 0 {
		return false
	}
	evt := a.injectQueue[0]
	copy(a.injectQueue, a.injectQueue[1:])
	a.injectQueue = a.injectQueue[:len(a.injectQueue)-1]

	a.processPointer(evt.x, evt.y, evt.pressed)
	return true
}
