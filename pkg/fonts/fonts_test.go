package fonts

import "testing"

func TestGo(t *testing.T) {
	s, err := Go()
	if err != nil {
		t.Fatalf("Go() error: %v", err)
	}
	if s.Family() != GoFamily {
		t.Errorf("Family() = %q, want %q", s.Family(), GoFamily)
	}

	again, _ := Go()
	if again != s {
		t.Error("Go() returned a different set on second call")
	}

	for _, style := range []Style{Regular, Bold, Italic, BoldItalic} {
		face := s.NewFace(style, 20)
		if h := face.Metrics().Height.Ceil(); h < 20 {
			t.Errorf("style %d: line height = %d, want >= 20", style, h)
		}
		if _, ok := face.GlyphAdvance('•'); !ok {
			t.Errorf("style %d: missing bullet glyph", style)
		}
	}
}

func TestStyleOf(t *testing.T) {
	tests := []struct {
		bold, italic bool
		want         Style
	}{
		{false, false, Regular},
		{true, false, Bold},
		{false, true, Italic},
		{true, true, BoldItalic},
	}
	for _, tt := range tests {
		if got := StyleOf(tt.bold, tt.italic); got != tt.want {
			t.Errorf("StyleOf(%v, %v) = %v, want %v", tt.bold, tt.italic, got, tt.want)
		}
	}
}

func TestSystemMissing(t *testing.T) {
	if _, err := System("definitely-not-a-real-font-name.ttf"); err == nil {
		t.Error("System() succeeded for a missing font")
	}
}
