package annotator

import (
	"bytes"
	"fmt"
	"sync"

	ggtext "github.com/gogpu/gg/text"
	etext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Both rasterizers label markers with the embedded Go Regular face so the
// live surface and the export look alike.
var (
	fontOnce      sync.Once
	screenFont    *etext.GoTextFaceSource
	exportFont    *ggtext.FontSource
	fontLoadError error
)

func loadFonts() error {
	fontOnce.Do(func() {
		var err error
		screenFont, err = etext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			fontLoadError = fmt.Errorf("annotator: load screen font: %w", err)
			return
		}
		exportFont, err = ggtext.NewFontSource(goregular.TTF)
		if err != nil {
			fontLoadError = fmt.Errorf("annotator: load export font: %w", err)
		}
	})
	return fontLoadError
}

// screenFace returns a text/v2 face of the given size, or nil if the font
// could not be parsed.
func screenFace(size float64) *etext.GoTextFace {
	if loadFonts() != nil {
		return nil
	}
	return &etext.GoTextFace{Source: screenFont, Size: size}
}

// exportFace returns a gg face of the given size.
func exportFace(size float64) (ggtext.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return exportFont.Face(size), nil
}
