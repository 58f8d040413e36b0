package render

import (
	"bytes"
	"testing"

	"github.com/matzehuels/dirchart/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><rect width="10" height="10" fill="#4A90E2"/></svg>`

func TestToPDF(t *testing.T) {
	pdf, err := ToPDF([]byte(tinySVG))
	if !HasConverter() {
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPDF() without rsvg-convert error = %v, want %s", err, errors.ErrCodeUnsupported)
		}
		return
	}
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output does not start with %%PDF")
	}
}

func TestToPNG(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG([]byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ToPNG() output is not a PNG")
	}
}
