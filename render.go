package annotator

import (
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	etext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandImage  CommandType = iota // base image scaled to the surface
	CommandMarker                    // filled circle plus id label
)

// RenderCommand is a single draw instruction of a full redraw. Positions are
// surface pixels relative to the surface's top-left corner.
type RenderCommand struct {
	Type CommandType
	X, Y float64
	// Width and Height are the surface size for CommandImage.
	Width, Height float64
	// Radius is the marker radius in surface pixels.
	Radius float64
	Color  Color
	// PointID and Label identify the marker. LabelSize is scaled.
	PointID    int
	Label      string
	LabelSize  float64
	LabelColor Color
}

// Commands returns the command list of the last full redraw, rebuilding it
// first if state changed. Empty until the image has loaded.
func (a *Annotator) Commands() []RenderCommand {
	a.rebuild()
	out := make([]RenderCommand, len(a.commands))
	copy(out, a.commands)
	return out
}

// rebuild regenerates the command list when points, selection or scale
// changed. The list is a pure function of that state, so rebuilding twice
// yields identical commands.
func (a *Annotator) rebuild() {
	if a.state != StateReady {
		a.commands = a.commands[:0]
		return
	}
	if !a.dirty {
		return
	}
	a.dirty = false

	var start time.Time
	if a.debug {
		start = time.Now()
	}

	scale := a.mapper.Scale()
	w, h := a.mapper.SurfaceSize()
	cmds := a.commands[:0]
	cmds = append(cmds, RenderCommand{Type: CommandImage, Width: w, Height: h})

	selected := a.store.SelectedID()
	for _, p := range a.store.points {
		x, y := a.mapper.ImageToSurface(p.X, p.Y)
		clr := a.cfg.MarkerColor
		if p.ID == selected {
			clr = a.cfg.SelectedColor
		}
		cmds = append(cmds, RenderCommand{
			Type:       CommandMarker,
			X:          x,
			Y:          y,
			Radius:     a.mapper.MarkerRadius(),
			Color:      clr,
			PointID:    p.ID,
			Label:      strconv.Itoa(p.ID),
			LabelSize:  a.cfg.LabelSize * scale,
			LabelColor: a.cfg.LabelColor,
		})
	}
	a.commands = cmds

	if a.debug {
		a.debugLog(debugStats{
			rebuildTime:  time.Since(start),
			commandCount: len(cmds),
			scale:        scale,
			selected:     selected,
		})
	}
}

// Draw renders the surface onto screen. Nothing is drawn before the image
// has loaded.
func (a *Annotator) Draw(screen *ebiten.Image) {
	if a.state != StateReady || a.closed {
		return
	}
	a.rebuild()
	a.submit(screen, a.commands)
	a.drawPulses(screen)
	if a.debug {
		a.drawHUD(screen)
	}
}

// submit executes commands against screen, offset by the surface origin.
func (a *Annotator) submit(screen *ebiten.Image, cmds []RenderCommand) {
	origin := a.mapper.Origin()
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case CommandImage:
			a.drawBase(screen, origin)
		case CommandMarker:
			cx := float32(origin.X + cmd.X)
			cy := float32(origin.Y + cmd.Y)
			vector.DrawFilledCircle(screen, cx, cy, float32(cmd.Radius), cmd.Color.NRGBA(), true)
			drawLabel(screen, cmd.Label, float64(cx), float64(cy), cmd.LabelSize, cmd.LabelColor)
		}
	}
}

// drawBase draws the source image scaled to the surface. The GPU copy is
// created on first use and released on Close.
func (a *Annotator) drawBase(screen *ebiten.Image, origin Vec2) {
	if a.baseImg == nil {
		a.baseImg = ebiten.NewImageFromImage(a.base)
	}
	scale := a.mapper.Scale()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(origin.X, origin.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(a.baseImg, &op)
}

// drawLabel draws s centered on (x, y).
func drawLabel(screen *ebiten.Image, s string, x, y, size float64, clr Color) {
	face := screenFace(size)
	if face == nil || size <= 0 {
		return
	}
	op := &etext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = etext.AlignCenter
	op.SecondaryAlign = etext.AlignCenter
	op.ColorScale.ScaleWithColor(clr.NRGBA())
	etext.Draw(screen, s, face, op)
}
