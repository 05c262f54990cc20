package annotator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFlattenDrawsAtNativeCoordinates(t *testing.T) {
	src := solidImage(1000, 200, white)
	style := Config{}.withDefaults().markerStyle()

	flat, err := Flatten(src, []Point{{ID: 1, X: 500, Y: 100}}, style)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if b := flat.Bounds(); b.Dx() != 1000 || b.Dy() != 200 {
		t.Fatalf("bounds = %v, want 1000x200", b)
	}
	if c := rgbAt(flat, 507, 100); !isRed(c) {
		t.Errorf("pixel inside marker = %v, want red", c)
	}
	if c := rgbAt(flat, 493, 100); !isRed(c) {
		t.Errorf("pixel left of label = %v, want red", c)
	}
	if c := rgbAt(flat, 250, 50); c != white {
		t.Errorf("pixel at screen-scaled position = %v, want untouched white", c)
	}
	if c := rgbAt(flat, 515, 100); c != white {
		t.Errorf("pixel outside radius = %v, want white", c)
	}
	if c := rgbAt(src, 507, 100); c != white {
		t.Errorf("Flatten modified its input: %v", c)
	}
}

func TestExportIndependentOfScale(t *testing.T) {
	saver := newMemSaver()
	a, _ := newReady(t, 1000, 200, 500, Config{Saver: saver})
	if !approxEqual(a.ScaleFactor(), 0.5, 1e-9) {
		t.Fatalf("ScaleFactor() = %f, want 0.5", a.ScaleFactor())
	}
	if _, err := a.AddPoint(500, 100, ""); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}

	res := <-a.Export(context.Background())
	if res.Err != nil {
		t.Fatalf("Export: %v", res.Err)
	}
	if res.Path != "mem://"+DefaultExportName {
		t.Errorf("Path = %q, want mem://%s", res.Path, DefaultExportName)
	}
	if c := rgbAt(res.Image, 507, 100); !isRed(c) {
		t.Errorf("exported pixel at native x=507 = %v, want red", c)
	}

	decoded, err := png.Decode(bytes.NewReader(saver.file(DefaultExportName)))
	if err != nil {
		t.Fatalf("decode saved PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 1000 || b.Dy() != 200 {
		t.Errorf("saved PNG bounds = %v, want 1000x200", b)
	}
}

func TestExportIgnoresSelection(t *testing.T) {
	a, _ := newReady(t, 200, 200, 100, Config{
		InitialPoints: []Point{{X: 100, Y: 100}},
	})
	a.SelectPoint(1)

	res := <-a.Export(context.Background())
	if res.Err != nil {
		t.Fatalf("Export: %v", res.Err)
	}
	if c := rgbAt(res.Image, 107, 100); !isRed(c) {
		t.Errorf("selected marker exported as %v, want red", c)
	}
}

func TestExportSnapshotsPoints(t *testing.T) {
	a, _ := newReady(t, 100, 100, 100, Config{
		InitialPoints: []Point{{X: 10, Y: 10}},
	})

	ch := a.Export(context.Background())
	if _, err := a.AddPoint(50, 50, ""); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	res := <-ch
	if res.Err != nil {
		t.Fatalf("Export: %v", res.Err)
	}
	if len(res.Points) != 1 {
		t.Errorf("exported %d points, want the 1 present at call time", len(res.Points))
	}
}

func TestExportLeavesLiveStateAlone(t *testing.T) {
	a, _ := newReady(t, 300, 300, 150, Config{
		InitialPoints: []Point{{X: 10, Y: 10}, {X: 200, Y: 200}},
	})
	a.SelectPoint(2)
	before := a.Commands()

	if res := <-a.Export(context.Background()); res.Err != nil {
		t.Fatalf("Export: %v", res.Err)
	}

	after := a.Commands()
	if len(before) != len(after) {
		t.Fatalf("command count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("command %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if p, ok := a.Selected(); !ok || p.ID != 2 {
		t.Errorf("selection changed to (%+v,%v)", p, ok)
	}
}

func TestExportChannelClosesAfterResult(t *testing.T) {
	a, _ := newReady(t, 50, 50, 50, Config{})

	ch := a.Export(context.Background())
	<-ch
	if _, ok := <-ch; ok {
		t.Error("second receive succeeded, want closed channel")
	}
}

func TestExportCancelled(t *testing.T) {
	a, _ := newReady(t, 50, 50, 50, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := <-a.Export(ctx)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestFileSaverWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a, _ := newReady(t, 40, 30, 40, Config{
		Saver:         &FileSaver{Dir: dir},
		InitialPoints: []Point{{X: 20, Y: 15}},
	})

	res := <-a.Export(context.Background())
	if res.Err != nil {
		t.Fatalf("Export: %v", res.Err)
	}
	want := filepath.Join(dir, DefaultExportName)
	if res.Path != want {
		t.Errorf("Path = %q, want %q", res.Path, want)
	}
	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" || cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("export is %s %dx%d, want png 40x30", format, cfg.Width, cfg.Height)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("export dir holds %d entries, want 1 (no temp files)", len(entries))
	}
}

func TestFileSaverStamp(t *testing.T) {
	dir := t.TempDir()
	s := &FileSaver{Dir: dir, Stamp: true}
	path, err := s.Save(context.Background(), "my export.png", func(w io.Writer) error {
		_, err := w.Write([]byte("x"))
		return err
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	base := filepath.Base(path)
	if len(base) != len("20060102_150405_my_export.png") {
		t.Errorf("stamped name = %q", base)
	}
	if filepath.Ext(base) != ".png" {
		t.Errorf("extension of %q = %q, want .png", base, filepath.Ext(base))
	}
}

func TestFileSaverWriteError(t *testing.T) {
	dir := t.TempDir()
	s := &FileSaver{Dir: dir}
	boom := errors.New("encoder failed")
	_, err := s.Save(context.Background(), "a.png", func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Save err = %v, want %v", err, boom)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed save left %d files behind", len(entries))
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"annotated-image.png", "annotated-image.png"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
		{"a/b\\c", "a_b_c"},
		{"report 1.pdf", "report_1.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
