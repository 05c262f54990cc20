package annotator

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Annotation is the record form of a point handed to downstream systems.
type Annotation struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Timestamp   time.Time `json:"timestamp"`
}

// FormatAnnotation builds the record for p against the given image URL,
// stamped with now in UTC.
func FormatAnnotation(p Point, imageURL string, now time.Time) Annotation {
	return Annotation{
		ID:          p.ID,
		Description: p.Data,
		Image:       imageURL,
		X:           p.X,
		Y:           p.Y,
		Timestamp:   now.UTC(),
	}
}

// ReportInfo is the header metadata of a PDF report.
type ReportInfo struct {
	Title    string
	ImageURL string
	// ID is written as the document subject, usually the annotator id.
	ID      string
	Created time.Time
}

// ExportReport flattens the image like Export and saves a PDF holding the
// picture followed by a legend of every point. The file name is ExportName
// with its extension replaced by ".pdf".
func (a *Annotator) ExportReport(ctx context.Context) <-chan ExportResult {
	info := ReportInfo{
		Title:    "Annotated image",
		ImageURL: a.cfg.URL,
		ID:       a.id,
		Created:  time.Now(),
	}
	name := strings.TrimSuffix(a.cfg.ExportName, ".png") + ".pdf"
	return a.export(ctx, name, func(w io.Writer, flat image.Image, points []Point) error {
		return WriteReport(w, flat, points, info)
	})
}

// WriteReport renders an A4 portrait PDF to w: the flattened image scaled to
// the page width, then one legend line per point.
func WriteReport(w io.Writer, flat image.Image, points []Point, info ReportInfo) error {
	var raster bytes.Buffer
	if err := png.Encode(&raster, flat); err != nil {
		return fmt.Errorf("annotator: report: encode image: %w", err)
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(info.Title, true)
	pdf.SetCreator("annotator", true)
	if info.ID != "" {
		pdf.SetSubject(info.ID, true)
	}
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 20, tr(info.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if info.ImageURL != "" {
		pdf.CellFormat(0, 12, tr(info.ImageURL), "", 1, "L", false, 0, "")
	}
	if !info.Created.IsZero() {
		pdf.CellFormat(0, 12, info.Created.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("annotated", opts, &raster)

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	b := flat.Bounds()
	width := pageW - left - right
	height := width * float64(b.Dy()) / float64(max(b.Dx(), 1))
	if avail := pageH - pdf.GetY() - bottom; height > avail {
		width *= avail / height
		height = avail
	}
	pdf.ImageOptions("annotated", left, pdf.GetY(), width, height, false, opts, 0, "")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, "Annotations", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(points) == 0 {
		pdf.CellFormat(0, 14, "No annotations.", "", 1, "L", false, 0, "")
	}
	for _, p := range points {
		rec := FormatAnnotation(p, info.ImageURL, info.Created)
		desc := rec.Description
		if desc == "" {
			desc = "(no description)"
		}
		line := fmt.Sprintf("%d.  (%.0f, %.0f)  %s", rec.ID, rec.X, rec.Y, desc)
		pdf.MultiCell(0, 14, tr(line), "", "L", false)
	}

	if pdf.Err() {
		return fmt.Errorf("annotator: report: %w", pdf.Error())
	}
	return pdf.Output(w)
}
