// Package annotator is a retained-mode image annotation widget for [Ebitengine].
//
// An [Annotator] loads an image, displays it inside a caller-supplied
// [Container], and lets the user place numbered markers on it by clicking.
// Each marker is a [Point] stored in image-native pixel coordinates, so the
// annotations stay anchored to the picture no matter how the surface is
// scaled. Markers can be selected, deleted, and finally flattened into an
// exported raster or a PDF report.
//
// # Quick start
//
// Implement [ebiten.Game] and forward Update and Draw to the annotator:
//
//	frame := annotator.NewFrame(annotator.Rect{Width: 800, Height: 600})
//	a, err := annotator.New(ctx, annotator.Config{
//		URL:       "https://example.com/car.png",
//		Container: frame,
//		OnPointAdded: func(p annotator.Point, all []annotator.Point) error {
//			log.Printf("point %d at (%.0f, %.0f)", p.ID, p.X, p.Y)
//			return nil
//		},
//	})
//
//	type Game struct{ a *annotator.Annotator }
//
//	func (g *Game) Update() error        { return g.a.Update() }
//	func (g *Game) Draw(s *ebiten.Image) { g.a.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		frame.SetBounds(annotator.Rect{Width: float64(w), Height: float64(h)})
//		g.a.Resize()
//		return w, h
//	}
//
// # Lifecycle
//
// [New] validates the configuration and starts fetching the image in the
// background. The annotator moves through [StateLoading] to either
// [StateReady] or [StateFailed]. The fetched result is applied on the
// goroutine that calls [Annotator.Update] (or [Annotator.Wait]), so all
// component state is owned by the game loop. Nothing is drawn and clicks are
// ignored until the image has loaded.
//
// # Coordinates
//
// Two fit modes control the surface size. [FitNative] shows the image at
// 1:1. [FitResponsive] scales it to the container's width with the aspect
// ratio preserved. The [Mapper] converts pointer positions to image space,
// and image space back to surface pixels for drawing. Hit-testing always
// happens in image space with a radius of MarkerRadius divided by the scale,
// which is the drawn marker radius in device pixels.
//
// # Export
//
// [Annotator.Export] composites every point onto a private copy of the image
// at native resolution using the [gg] software rasterizer, then hands the PNG
// to a [Saver]. [Annotator.ExportReport] does the same and wraps the picture
// and a legend in a PDF via [gofpdf]. Neither touches the live surface.
//
// # Testing
//
// [Annotator.InjectClick] and [Annotator.InjectMove] queue synthetic pointer
// events, and [LoadTestScript] turns a JSON script into a [TestRunner] that
// feeds them frame by frame.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
// [gofpdf]: https://github.com/jung-kurt/gofpdf
package annotator
