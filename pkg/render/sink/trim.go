package sink

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Trim crops img to the bounding box of pixels that differ from bg and pads
// the result with margin pixels of bg on every side. A blank image is
// returned unchanged.
func Trim(img image.Image, bg color.Color, margin int) image.Image {
	content, ok := contentBounds(img, bg)
	if !ok {
		return img
	}

	cropped := imaging.Crop(img, content)
	out := imaging.New(content.Dx()+2*margin, content.Dy()+2*margin, bg)
	return imaging.Paste(out, cropped, image.Pt(margin, margin))
}

// contentBounds scans for the smallest rectangle holding every non-background
// pixel.
func contentBounds(img image.Image, bg color.Color) (image.Rectangle, bool) {
	br, bgG, bb, ba := bg.RGBA()
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bgG && bl == bb && a == ba {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
