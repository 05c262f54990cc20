package annotator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"sync"
	"testing"
)

const testDT = 1.0 / 60

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

var white = color.NRGBA{255, 255, 255, 255}

// rgbAt returns the 8-bit straight color at (x, y).
func rgbAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func isRed(c color.NRGBA) bool {
	return c.R > 200 && c.G < 60 && c.B < 60
}

// newReady builds an annotator over a white imgW x imgH image inside a
// container of the given width and waits for the load.
func newReady(t *testing.T, imgW, imgH int, containerW float64, cfg Config) (*Annotator, *Frame) {
	t.Helper()
	frame := NewFrame(Rect{Width: containerW, Height: 1000})
	cfg.Container = frame
	if cfg.Source == nil {
		cfg.Source = StaticImage(solidImage(imgW, imgH, white))
	}
	if cfg.Saver == nil {
		cfg.Saver = newMemSaver()
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	if err := a.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if a.State() != StateReady {
		t.Fatalf("State() = %v, want ready", a.State())
	}
	return a, frame
}

// runFrames steps the annotator n times.
func runFrames(a *Annotator, n int) {
	for i := 0; i < n; i++ {
		a.step(testDT)
	}
}

// memSaver collects exports in memory.
type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemSaver() *memSaver {
	return &memSaver{files: make(map[string][]byte)}
}

func (m *memSaver) Save(_ context.Context, name string, write func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = buf.Bytes()
	return "mem://" + name, nil
}

func (m *memSaver) file(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[name]
}

// gatedSource blocks Fetch until release is closed or ctx is done.
type gatedSource struct {
	release chan struct{}
	img     image.Image
}

func newGatedSource(w, h int) *gatedSource {
	return &gatedSource{release: make(chan struct{}), img: solidImage(w, h, white)}
}

func (s *gatedSource) Fetch(ctx context.Context) (image.Image, error) {
	select {
	case <-s.release:
		return cloneImage(s.img), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// errorRecorder collects errors passed to Config.OnError.
type errorRecorder struct {
	errs []error
}

func (r *errorRecorder) record(err error) { r.errs = append(r.errs, err) }

func (r *errorRecorder) handlerError(t *testing.T) *HandlerError {
	t.Helper()
	for _, err := range r.errs {
		var he *HandlerError
		if errors.As(err, &he) {
			return he
		}
	}
	t.Fatalf("no HandlerError among %v", r.errs)
	return nil
}
