package annotator

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pulseGrowth is how far the halo ring expands, as a multiple of the marker
// radius, by the end of the animation.
const pulseGrowth = 1.0

// pulse is the expanding halo drawn around a freshly added marker. It lives
// only on the interactive surface and is never part of an export.
type pulse struct {
	pointID  int
	tween    *gween.Tween
	progress float64
	done     bool
}

func newPulse(pointID int, seconds float64) *pulse {
	return &pulse{
		pointID: pointID,
		tween:   gween.New(0, 1, float32(seconds), ease.OutCubic),
	}
}

// update advances the tween by dt seconds.
func (p *pulse) update(dt float64) {
	if p.done {
		return
	}
	v, finished := p.tween.Update(float32(dt))
	p.progress = float64(v)
	p.done = finished
}

// startPulse begins a halo for the given point unless pulses are disabled.
func (a *Annotator) startPulse(pointID int) {
	if a.cfg.PulseDuration < 0 {
		return
	}
	a.stopPulse(pointID)
	a.pulses = append(a.pulses, newPulse(pointID, a.cfg.PulseDuration.Seconds()))
}

// stopPulse drops the halo of a deleted point.
func (a *Annotator) stopPulse(pointID int) {
	kept := a.pulses[:0]
	for _, p := range a.pulses {
		if p.pointID != pointID {
			kept = append(kept, p)
		}
	}
	a.pulses = kept
}

// updatePulses advances every halo and drops finished ones.
func (a *Annotator) updatePulses(dt float64) {
	kept := a.pulses[:0]
	for _, p := range a.pulses {
		p.update(dt)
		if !p.done {
			kept = append(kept, p)
		}
	}
	a.pulses = kept
}

// drawPulses strokes a fading ring around each pulsing marker.
func (a *Annotator) drawPulses(screen *ebiten.Image) {
	if len(a.pulses) == 0 {
		return
	}
	base := a.mapper.MarkerRadius()
	for _, p := range a.pulses {
		pt, ok := a.store.Get(p.pointID)
		if !ok {
			continue
		}
		dx, dy := a.mapper.ImageToDevice(pt.X, pt.Y)
		r := base * (1 + pulseGrowth*p.progress)
		clr := a.cfg.MarkerColor.WithAlpha(1 - p.progress)
		vector.StrokeCircle(screen, float32(dx), float32(dy), float32(r), 2, clr.NRGBA(), true)
	}
}
