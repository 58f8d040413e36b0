package diagram

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dirchart/pkg/errors"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if got := d.Stats(); got.Boxes != 13 || got.Texts != 29 || got.Connectors != 3 {
		t.Errorf("Stats() = %+v, want 13 boxes, 29 texts, 3 connectors", got)
	}
	if d.Output.Path != "Reference/directory_structure.png" {
		t.Errorf("Output.Path = %q", d.Output.Path)
	}
	if w, h := d.Viewport(0).PixelSize(); w != 3000 || h != 3600 {
		t.Errorf("PixelSize() = %dx%d, want 3000x3600", w, h)
	}
	if warnings := d.Warnings(); len(warnings) != 0 {
		t.Errorf("Warnings() = %v, want none", warnings)
	}

	wantPalette := map[string]string{
		"core": "#4A90E2", "qa": "#50E3C2", "agents": "#F5A623", "config": "#7ED321",
		"docs": "#9013FE", "db": "#BD10E0", "test": "#4A90E2",
	}
	if !reflect.DeepEqual(d.Palette, wantPalette) {
		t.Errorf("Palette = %v, want %v", d.Palette, wantPalette)
	}

	root, ok := d.Box("root")
	if !ok {
		t.Fatal("Box(root) not found")
	}
	if root.Text != `C:\code\AIGovNav\` {
		t.Errorf("root text = %q", root.Text)
	}
	if root.FontSize != 12 {
		t.Errorf("root font size = %g, want 12", root.FontSize)
	}

	core, _ := d.Box("core")
	if core.Heading() != "src/" || len(core.Lines()) != 14 {
		t.Errorf("core heading = %q, lines = %d", core.Heading(), len(core.Lines()))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(encoded) error: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(got, d) {
		t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, d)
	}
}

func TestParseErrors(t *testing.T) {
	const canvas = `
[canvas]
width = 100.0
height = 120.0
width_inches = 20.0
height_inches = 24.0
`
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"syntax", "name = ", errors.ErrCodeInvalidLayout},
		{"unknown key", canvas + "\nbogus = 1\n", errors.ErrCodeInvalidLayout},
		{"missing canvas", `name = "x"`, errors.ErrCodeInvalidLayout},
		{"bad palette color", canvas + "[palette]\ncore = \"blue\"\n", errors.ErrCodeInvalidColor},
		{"unknown box color", canvas + "[[box]]\nid = \"a\"\nx = 1.0\ny = 1.0\nwidth = 1.0\nheight = 1.0\ncolor = \"nope\"\n", errors.ErrCodeInvalidColor},
		{"zero width", canvas + "[[box]]\nid = \"a\"\nx = 1.0\ny = 1.0\nwidth = 0.0\nheight = 1.0\ncolor = \"#fff\"\n", errors.ErrCodeInvalidLayout},
		{"bad corner", canvas + "[[box]]\nid = \"a\"\nx = 1.0\ny = 1.0\nwidth = 1.0\nheight = 1.0\ncolor = \"#fff\"\ncorner = \"wavy\"\n", errors.ErrCodeInvalidLayout},
		{"duplicate id", canvas + strings.Repeat("[[box]]\nid = \"a\"\nx = 1.0\ny = 1.0\nwidth = 1.0\nheight = 1.0\ncolor = \"#fff\"\n", 2), errors.ErrCodeInvalidLayout},
		{"short connector", canvas + "[[connector]]\npoints = [[1.0, 2.0]]\n", errors.ErrCodeInvalidLayout},
		{"dangling connector", canvas + "[[connector]]\nfrom = \"ghost\"\npoints = [[1.0, 2.0], [3.0, 4.0]]\n", errors.ErrCodeInvalidLayout},
		{"huge dpi", canvas + "[output]\ndpi = 1e7\n", errors.ErrCodeInvalidLayout},
		{"bad align", canvas + "[[text]]\nx = 1.0\ny = 1.0\ncontent = \"x\"\nalign = \"right\"\n", errors.ErrCodeInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.toml")
	if err := os.WriteFile(path, DefaultTOML(), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(d.Boxes) != 13 {
		t.Errorf("Load() boxes = %d, want 13", len(d.Boxes))
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
