// Package fonts provides the font faces used to draw diagram text.
//
// The Go font family (golang.org/x/image/font/gofont) is embedded in the
// binary, so rendering works without any fonts installed on the system.
// A system font can be substituted with [System], which locates font files
// by name using go-findfont.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// Style selects a weight/slant variant.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// StyleOf returns the variant for the given flags.
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Regular
}

// GoFamily is the family name of the embedded fonts.
const GoFamily = "Go"

// FallbackFontFamily is the CSS font-family list used in SVG output.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

// Set holds parsed fonts for every [Style]. A Set is safe for concurrent use;
// the faces it creates are not.
type Set struct {
	family string
	fonts  [4]*truetype.Font
}

var (
	goSet     *Set
	goSetErr  error
	goSetOnce sync.Once
)

// Go returns the embedded Go font set. Parsing happens once.
func Go() (*Set, error) {
	goSetOnce.Do(func() {
		s := &Set{family: GoFamily}
		for i, ttf := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
			f, err := truetype.Parse(ttf)
			if err != nil {
				goSetErr = fmt.Errorf("parse embedded font: %w", err)
				return
			}
			s.fonts[i] = f
		}
		goSet = s
	})
	return goSet, goSetErr
}

// System loads a font installed on the system by file or family name
// (for example "DejaVuSans.ttf" or "Arial"). Bold and italic variants are
// looked up by the usual "-Bold", "-Italic" and "-BoldItalic" suffixes and
// fall back to the regular face when missing.
func System(name string) (*Set, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %q", name)
	}
	regular, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	base = strings.TrimSuffix(base, "-Regular")

	s := &Set{family: base}
	s.fonts[Regular] = regular
	for style, suffix := range map[Style]string{Bold: "-Bold", Italic: "-Italic", BoldItalic: "-BoldItalic"} {
		s.fonts[style] = regular
		if p, err := findfont.Find(base + suffix + ext); err == nil {
			if f, err := parseFile(p); err == nil {
				s.fonts[style] = f
			}
		}
	}
	return s, nil
}

func parseFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read font %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font %s", path)
	}
	return f, nil
}

// Family returns the family name, used as the first SVG font-family entry.
func (s *Set) Family() string {
	return s.family
}

// NewFace returns a face for style at the given pixel size.
func (s *Set) NewFace(style Style, px float64) font.Face {
	return truetype.NewFace(s.fonts[style], &truetype.Options{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
