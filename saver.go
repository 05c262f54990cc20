package annotator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Saver stores an exported file. write streams the encoded content; the
// returned string is the location reported in ExportResult.Path.
type Saver interface {
	Save(ctx context.Context, name string, write func(io.Writer) error) (string, error)
}

// FileSaver writes exports into Dir, creating it when missing. With Stamp
// set, file names get a "20060102_150405_" prefix so repeated exports do not
// overwrite each other.
type FileSaver struct {
	Dir   string
	Stamp bool
}

// Save implements Saver. The file is written to a temporary name and renamed
// into place so a failed export never leaves a truncated file behind.
func (s *FileSaver) Save(ctx context.Context, name string, write func(io.Writer) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("annotator: mkdir %s: %w", dir, err)
	}

	base := sanitizeLabel(name)
	if s.Stamp {
		base = time.Now().Format("20060102_150405") + "_" + base
	}
	path := filepath.Join(dir, base)

	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return "", fmt.Errorf("annotator: create %s: %w", path, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("annotator: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("annotator: close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("annotator: rename %s: %w", path, err)
	}
	return path, nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
