package diagram

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// Color resolves a palette key or #RRGGBB literal to an opaque color.
func (d *Diagram) Color(ref string) (color.NRGBA, error) {
	if hex, ok := d.Palette[ref]; ok {
		ref = hex
	}
	return ParseHex(ref)
}

// Hex resolves a palette key to its literal; literals are returned unchanged.
func (d *Diagram) Hex(ref string) string {
	if hex, ok := d.Palette[ref]; ok {
		return hex
	}
	return ref
}

// ParseHex parses #RGB or #RRGGBB.
func ParseHex(s string) (color.NRGBA, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return color.NRGBA{}, err
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, _ := strconv.ParseUint(s, 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
