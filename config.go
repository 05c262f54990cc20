package annotator

import (
	"log/slog"
	"net/http"
	"time"
)

// Default style and export values applied by New for zero Config fields.
const (
	DefaultMarkerRadius  = 10.0
	DefaultLabelSize     = 12.0
	DefaultExportName    = "annotated-image.png"
	DefaultPulseDuration = 350 * time.Millisecond
)

// Config holds the construction parameters for New. Zero values are replaced
// with defaults.
type Config struct {
	// URL is the image location. Ignored when Source is set.
	URL string
	// Source overrides URL with any ImageSource.
	Source ImageSource
	// HTTPClient is used for URL fetches. Nil means http.DefaultClient.
	HTTPClient *http.Client

	// Container is the screen region the surface is laid out in. Required.
	Container Container
	// FitMode selects native or responsive sizing. Defaults to FitResponsive.
	FitMode FitMode

	// InitialPoints seeds the store. Ids are reassigned 1..N.
	InitialPoints []Point

	// OnPointAdded is called after every add with the new point and a
	// snapshot of all points. A returned error or panic is reported through
	// OnError and the logger; the point is kept.
	OnPointAdded func(p Point, all []Point) error
	// OnError receives every reported failure: image load and hook errors.
	// Export failures are delivered in ExportResult instead.
	OnError func(err error)
	// Prompt, when set, is asked for the annotation text before a click adds
	// a point. Returning ok=false cancels the add. When nil, clicks add points
	// with empty text.
	Prompt func(x, y float64) (text string, ok bool)

	// MarkerRadius is the marker radius in image pixels at scale 1.
	MarkerRadius float64
	// LabelSize is the id label font size at scale 1.
	LabelSize float64
	// MarkerColor fills unselected markers and every exported marker.
	MarkerColor Color
	// SelectedColor fills the selected marker on the live surface.
	SelectedColor Color
	// LabelColor draws the id labels.
	LabelColor Color

	// PulseDuration is the length of the halo animation shown after a point
	// is added. Negative disables it.
	PulseDuration time.Duration

	// Saver receives exported files. Nil means a FileSaver writing to
	// ExportDir.
	Saver Saver
	// ExportDir is the FileSaver directory. Defaults to the working directory.
	ExportDir string
	// ExportName is the exported PNG file name.
	ExportName string

	// Logger overrides the package logger for this instance.
	Logger *slog.Logger
}

// withDefaults returns a copy of c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.MarkerRadius <= 0 {
		c.MarkerRadius = DefaultMarkerRadius
	}
	if c.LabelSize <= 0 {
		c.LabelSize = DefaultLabelSize
	}
	if c.MarkerColor == (Color{}) {
		c.MarkerColor = ColorRed
	}
	if c.SelectedColor == (Color{}) {
		c.SelectedColor = ColorBlue
	}
	if c.LabelColor == (Color{}) {
		c.LabelColor = ColorWhite
	}
	if c.PulseDuration == 0 {
		c.PulseDuration = DefaultPulseDuration
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	if c.ExportName == "" {
		c.ExportName = DefaultExportName
	}
	if c.Saver == nil {
		c.Saver = &FileSaver{Dir: c.ExportDir}
	}
	if c.Source == nil && c.URL != "" {
		c.Source = HTTPSource{URL: c.URL, Client: c.HTTPClient}
	}
	return c
}

// MarkerStyle is the fixed marker appearance used for export.
type MarkerStyle struct {
	Radius     float64
	LabelSize  float64
	Color      Color
	LabelColor Color
}

func (c Config) markerStyle() MarkerStyle {
	return MarkerStyle{
		Radius:     c.MarkerRadius,
		LabelSize:  c.LabelSize,
		Color:      c.MarkerColor,
		LabelColor: c.LabelColor,
	}
}
