package annotator

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// loadResult is posted once by the background image load.
type loadResult struct {
	img image.Image
	err error
}

// Annotator is an interactive image annotation surface.
//
// All methods except Export, ExportReport and the ExportResult channels must
// be called from the goroutine that drives Update and Draw.
type Annotator struct {
	// OnPointAdded mirrors Config.OnPointAdded and may be replaced at any time.
	OnPointAdded func(p Point, all []Point) error
	// OnPointClicked is called when a click selects an existing point.
	OnPointClicked func(p Point)
	// OnPointDeleted is called after a deletion with the remaining points.
	OnPointDeleted func(all []Point)

	cfg       Config
	id        string
	log       *slog.Logger
	container Container

	state  State
	err    error
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	loadCh chan loadResult

	mapper  *Mapper
	store   *PointStore
	base    image.Image
	baseImg *ebiten.Image

	layoutDirty bool
	dirty       bool
	commands    []RenderCommand

	pointer     pointerState
	injectQueue []syntheticPointerEvent
	cursor      Cursor
	shownCursor Cursor

	pulses []*pulse

	testRunner *TestRunner
	debug      bool

	exports sync.WaitGroup
}

// New validates cfg, seeds the point store and starts loading the image in
// the background. A nil container returns ErrNoContainer; fetch failures are
// reported asynchronously and leave the annotator in StateFailed.
//
// The load is bound to ctx: cancelling it aborts an in-flight fetch.
func New(ctx context.Context, cfg Config) (*Annotator, error) {
	if cfg.Container == nil {
		return nil, ErrNoContainer
	}
	cfg = cfg.withDefaults()
	if cfg.Source == nil {
		return nil, ErrNoSource
	}

	id := uuid.NewString()
	logger := cfg.Logger
	if logger == nil {
		logger = Logger()
	}

	a := &Annotator{
		OnPointAdded: cfg.OnPointAdded,
		cfg:          cfg,
		id:           id,
		log:          logger.With("annotator", id),
		container:    cfg.Container,
		mapper:       NewMapper(cfg.FitMode, cfg.MarkerRadius),
		store:        NewPointStore(cfg.InitialPoints),
		loadCh:       make(chan loadResult, 1),
		state:        StateLoading,
		shownCursor:  CursorDefault,
	}
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.log.Debug("loading image", "url", cfg.URL, "fit", cfg.FitMode.String(), "points", a.store.Len())
	go a.load(a.ctx, cfg.Source)
	return a, nil
}

// load runs on its own goroutine and posts exactly one result.
func (a *Annotator) load(ctx context.Context, src ImageSource) {
	img, err := src.Fetch(ctx)
	a.loadCh <- loadResult{img: img, err: err}
}

// ID returns the annotator's instance id.
func (a *Annotator) ID() string { return a.id }

// State returns the lifecycle state.
func (a *Annotator) State() State { return a.state }

// Err returns the error that moved the annotator to StateFailed, if any.
func (a *Annotator) Err() error { return a.err }

// ScaleFactor returns the current device-pixels-per-image-pixel factor.
func (a *Annotator) ScaleFactor() float64 { return a.mapper.Scale() }

// Mapper exposes the coordinate mapper. Treat it as read-only.
func (a *Annotator) Mapper() *Mapper { return a.mapper }

// Cursor returns the pointer affordance for the last pointer position.
func (a *Annotator) Cursor() Cursor { return a.cursor }

// Points returns a snapshot of the points in creation order.
func (a *Annotator) Points() []Point { return a.store.Points() }

// Selected returns the selected point, if any.
func (a *Annotator) Selected() (Point, bool) { return a.store.Selected() }

// SetDebugMode enables redraw logging and the on-screen status line.
func (a *Annotator) SetDebugMode(enabled bool) { a.debug = enabled }

// Wait blocks until the image load finishes or ctx is done, then applies the
// result. It returns the load error, if any. Calling Wait after the load has
// been applied returns immediately.
func (a *Annotator) Wait(ctx context.Context) error {
	if a.closed {
		return ErrClosed
	}
	if a.state != StateLoading {
		return a.err
	}
	select {
	case res := <-a.loadCh:
		a.applyLoad(res)
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollLoad applies the load result if it has arrived.
func (a *Annotator) pollLoad() {
	if a.state != StateLoading {
		return
	}
	select {
	case res := <-a.loadCh:
		a.applyLoad(res)
	default:
	}
}

func (a *Annotator) applyLoad(res loadResult) {
	if a.closed {
		a.log.Warn("discarding image load after close")
		return
	}
	if res.err != nil {
		a.state = StateFailed
		a.err = res.err
		a.report("image load failed", res.err)
		return
	}
	b := res.img.Bounds()
	a.base = res.img
	a.mapper.SetNativeSize(b.Dx(), b.Dy())
	a.mapper.Layout(a.container.Bounds())
	a.layoutDirty = false
	a.dirty = true
	a.state = StateReady
	a.log.Info("image loaded",
		"width", b.Dx(), "height", b.Dy(),
		"scale", a.mapper.Scale(), "points", a.store.Len())
}

// Resize marks the layout stale. The next Update re-reads the container and
// recomputes the scale, so a burst of resizes costs one relayout.
func (a *Annotator) Resize() {
	a.layoutDirty = true
}

func (a *Annotator) applyLayout() {
	if !a.layoutDirty || a.state != StateReady {
		return
	}
	a.layoutDirty = false
	prev := a.mapper.Scale()
	a.mapper.Layout(a.container.Bounds())
	a.dirty = true
	if prev != a.mapper.Scale() {
		a.log.Debug("relayout", "scale", a.mapper.Scale())
	}
}

// Update advances the annotator by one tick: applies a finished load,
// pending resizes and pointer input, and animates marker pulses. Shaped to be
// called from ebiten.Game.Update.
func (a *Annotator) Update() error {
	if a.closed {
		return nil
	}
	tps := ebiten.TPS()
	if tps <= 0 { // SyncWithFPS
		tps = ebiten.DefaultTPS
	}
	a.step(1 / float64(tps))
	if a.cursor != a.shownCursor {
		a.shownCursor = a.cursor
		if a.cursor == CursorPointer {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
		} else {
			ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}
	return nil
}

// step is Update without the ebiten side effects.
func (a *Annotator) step(dt float64) {
	a.pollLoad()
	if a.state != StateReady {
		return
	}
	a.applyLayout()
	if a.testRunner != nil {
		a.testRunner.step(a)
	}
	a.processInput()
	a.updatePulses(dt)
}

// AddPoint appends a point at image coordinates (x, y), redraws and invokes
// OnPointAdded. Handler failures are reported, never returned, and the point
// is kept. Returns ErrNotReady unless the image has loaded.
func (a *Annotator) AddPoint(x, y float64, data string) (Point, error) {
	if a.state != StateReady || a.closed {
		return Point{}, ErrNotReady
	}
	p := a.store.Add(x, y, data)
	a.dirty = true
	a.startPulse(p.ID)
	a.log.Debug("point added", "id", p.ID, "x", x, "y", y)

	if fn := a.OnPointAdded; fn != nil {
		all := a.store.Points()
		a.callHook("OnPointAdded", func() error { return fn(p, all) })
	}
	return p, nil
}

// DeletePoint removes the point with the given id. Unknown ids are ignored.
// Deleting the selected point clears the selection.
func (a *Annotator) DeletePoint(id int) {
	if a.closed || !a.store.Delete(id) {
		return
	}
	a.dirty = true
	a.stopPulse(id)
	a.log.Debug("point deleted", "id", id)

	if fn := a.OnPointDeleted; fn != nil {
		all := a.store.Points()
		a.callHook("OnPointDeleted", func() error { fn(all); return nil })
	}
}

// DeleteSelected deletes the selected point, if any.
func (a *Annotator) DeleteSelected() {
	if id := a.store.SelectedID(); id != 0 {
		a.DeletePoint(id)
	}
}

// SelectPoint selects the point with the given id and invokes
// OnPointClicked. Unknown ids and calls before the image has loaded are
// ignored.
func (a *Annotator) SelectPoint(id int) {
	if a.state != StateReady || a.closed {
		return
	}
	p, ok := a.store.Select(id)
	if !ok {
		return
	}
	a.dirty = true
	if fn := a.OnPointClicked; fn != nil {
		a.callHook("OnPointClicked", func() error { fn(p); return nil })
	}
}

// Close cancels an in-flight load and running exports, waits for the exports
// to deliver their results and releases
// the GPU copy of the image. A result arriving after Close is discarded.
// The annotator reports StateFailed with ErrClosed afterwards unless it had
// already failed.
func (a *Annotator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.cancel()
	if a.state != StateFailed {
		a.state = StateFailed
		a.err = ErrClosed
	}
	a.exports.Wait()
	if a.baseImg != nil {
		a.baseImg.Deallocate()
		a.baseImg = nil
	}
	a.base = nil
	a.commands = a.commands[:0]
	a.pulses = nil
	a.log.Debug("closed")
	return nil
}

// callHook runs fn, converting a returned error or a panic into a reported
// HandlerError.
func (a *Annotator) callHook(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.report("hook failed", &HandlerError{Hook: name, Err: panicError(r)})
		}
	}()
	if err := fn(); err != nil {
		a.report("hook failed", &HandlerError{Hook: name, Err: err})
	}
}

// report logs err and forwards it to Config.OnError. A panicking OnError is
// logged and swallowed.
func (a *Annotator) report(msg string, err error) {
	a.log.Error(msg, "err", err)
	fn := a.cfg.OnError
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("OnError panicked", "err", panicError(r))
		}
	}()
	fn(err)
}
