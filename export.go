package annotator

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"time"

	"github.com/gogpu/gg"
)

// ExportResult is delivered once on the channel returned by Export.
type ExportResult struct {
	// Path is where the Saver stored the file.
	Path string
	// Image is the flattened raster.
	Image image.Image
	// Points is the snapshot that was composited.
	Points []Point
	Err    error
}

// Export flattens the image with every point at native resolution and saves
// it as a PNG through the configured Saver.
//
// The point list is snapshotted before Export returns, so later edits do not
// affect the output. The image is fetched again into a private copy and the
// live surface is never touched. The channel receives exactly one result and
// is then closed. Before the image has loaded the result is ErrNotReady.
// Close cancels a running export as if ctx had been cancelled.
func (a *Annotator) Export(ctx context.Context) <-chan ExportResult {
	return a.export(ctx, a.cfg.ExportName, func(w io.Writer, flat image.Image, _ []Point) error {
		return png.Encode(w, flat)
	})
}

type exportEncoder func(w io.Writer, flat image.Image, points []Point) error

func (a *Annotator) export(ctx context.Context, name string, encode exportEncoder) <-chan ExportResult {
	ch := make(chan ExportResult, 1)
	if a.state != StateReady || a.closed {
		ch <- ExportResult{Err: ErrNotReady}
		close(ch)
		return ch
	}

	points := a.store.Points()
	style := a.cfg.markerStyle()
	src := a.cfg.Source
	saver := a.cfg.Saver
	log := a.log

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(a.ctx, cancel)

	a.exports.Add(1)
	go func() {
		defer a.exports.Done()
		defer close(ch)
		defer cancel()
		defer stop()

		res := ExportResult{Points: points}
		start := time.Now()
		res.Image, res.Err = fetchAndFlatten(ctx, src, points, style)
		if res.Err == nil {
			res.Path, res.Err = saver.Save(ctx, name, func(w io.Writer) error {
				return encode(w, res.Image, points)
			})
		}
		if res.Err != nil {
			log.Error("export failed", "name", name, "err", res.Err)
		} else {
			log.Info("exported", "path", res.Path, "points", len(points), "elapsed", time.Since(start))
		}
		ch <- res
	}()
	return ch
}

func fetchAndFlatten(ctx context.Context, src ImageSource, points []Point, style MarkerStyle) (image.Image, error) {
	img, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("annotator: export: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Flatten(img, points, style)
}

// Flatten composites points onto a copy of img at native coordinates. Every
// marker uses style.Color and style.Radius regardless of selection or the
// on-screen scale. img is not modified.
func Flatten(img image.Image, points []Point, style MarkerStyle) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	face, err := exportFace(style.LabelSize)
	if err != nil {
		return nil, err
	}

	for _, p := range points {
		dc.SetColor(style.Color.NRGBA())
		dc.DrawCircle(p.X, p.Y, style.Radius)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("annotator: fill marker %d: %w", p.ID, err)
		}
		dc.SetColor(style.LabelColor.NRGBA())
		dc.SetFont(face)
		dc.DrawStringAnchored(strconv.Itoa(p.ID), p.X, p.Y, 0.5, 0.5)
	}
	return dc.Image(), nil
}
