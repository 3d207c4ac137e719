package render

import (
	"math"
	"sync"

	"github.com/rook-computer/clockmirror/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	size26 int // pixel size in 26.6 fixed point, so 1.5x scales share faces
	bold   bool
}

// Fonts caches font faces per output pixel size and weight.
type Fonts struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
	Logger  interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// NewFonts parses the embedded fonts. A parse failure is not fatal; faces
// then fall back to basicfont.
func NewFonts() *Fonts {
	f := &Fonts{faces: make(map[faceKey]font.Face)}
	if fnt, err := opentype.Parse(assets.FontRegular); err == nil {
		f.regular = fnt
	}
	if fnt, err := opentype.Parse(assets.FontBold); err == nil {
		f.bold = fnt
	}
	return f
}

// Face returns the face for sizePx output pixels.
func (f *Fonts) Face(sizePx float64, bold bool) font.Face {
	key := faceKey{size26: int(math.Round(sizePx * 64)), bold: bold}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face
	}

	src := f.regular
	if bold && f.bold != nil {
		src = f.bold
	}
	if src == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		if f.Logger != nil {
			f.Logger.Errorf("fonts", "face %.1fpx create failed, using basicfont: %v", sizePx, err)
		}
		return basicfont.Face7x13
	}
	f.faces[key] = face
	return face
}
