package annotator

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugStats holds redraw metrics. Only populated in debug mode.
type debugStats struct {
	rebuildTime  time.Duration
	commandCount int
	scale        float64
	selected     int
}

// debugLog writes redraw stats to the logger at debug level.
func (a *Annotator) debugLog(stats debugStats) {
	if !a.debug {
		return
	}
	a.log.Debug("redraw",
		"rebuild", stats.rebuildTime,
		"commands", stats.commandCount,
		"scale", stats.scale,
		"selected", stats.selected)
}

// hudText is the status line drawn in debug mode.
func (a *Annotator) hudText() string {
	sel := "-"
	if id := a.store.SelectedID(); id != 0 {
		sel = fmt.Sprint(id)
	}
	return fmt.Sprintf("%s  scale: %.3f  points: %d  selected: %s  TPS: %.1f",
		a.state, a.mapper.Scale(), a.store.Len(), sel, ebiten.ActualTPS())
}

// drawHUD prints the status line at the surface's top-left corner.
func (a *Annotator) drawHUD(screen *ebiten.Image) {
	o := a.mapper.Origin()
	ebitenutil.DebugPrintAt(screen, a.hudText(), int(o.X)+4, int(o.Y)+4)
}
