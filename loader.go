package annotator

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource produces a decoded image. Fetch may be called more than once:
// the annotator fetches once for display and once per export, and each call
// must return an image the caller may keep.
type ImageSource interface {
	Fetch(ctx context.Context) (image.Image, error)
}

// HTTPSource fetches and decodes an image over HTTP. PNG, JPEG, GIF, WebP,
// BMP, TIFF and SVG are understood.
type HTTPSource struct {
	URL string
	// Client is used for the request. Nil means http.DefaultClient.
	Client *http.Client
}

// Fetch implements ImageSource. A non-2xx response yields a *FetchError
// carrying the status code.
func (s HTTPSource) Fetch(ctx context.Context) (image.Image, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: s.URL, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: s.URL, Status: resp.StatusCode}
	}

	img, err := decodeImage(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: s.URL, Err: err}
	}
	return img, nil
}

// StaticImage returns an ImageSource backed by an in-memory image. Every
// Fetch hands out a fresh copy so callers can draw on it freely.
func StaticImage(img image.Image) ImageSource {
	return staticSource{img: img}
}

type staticSource struct {
	img image.Image
}

func (s staticSource) Fetch(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.img == nil {
		return nil, fmt.Errorf("annotator: static source has no image")
	}
	return cloneImage(s.img), nil
}

// cloneImage copies img into a new NRGBA with its origin at (0, 0).
func cloneImage(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// decodeImage decodes any registered raster format, falling back to SVG when
// the stream looks like XML. The raw bytes are not retained.
func decodeImage(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)
	if looksLikeSVG(head) {
		return decodeSVG(br)
	}
	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

func looksLikeSVG(head []byte) bool {
	head = bytes.TrimLeft(head, " \t\r\n\xef\xbb\xbf")
	return bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<svg"))
}

// decodeSVG rasterizes an SVG document at its viewBox size.
func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode svg: empty viewBox")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

var imageExtPattern = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png|svg)$`)

// ValidImageURL reports whether rawURL names a file with a common image
// extension. For parseable URLs only the path is examined, so query strings
// and fragments do not matter.
func ValidImageURL(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return imageExtPattern.MatchString(path.Base(p))
}
