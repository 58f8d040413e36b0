package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	origV, origC := Version, Commit
	t.Cleanup(func() { Version, Commit = origV, origC })

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "none", "dev:"},
		{"v1.2.0", "none", "v1.2.0:"},
		{"v1.2.0", "0123456789abcdef", "v1.2.0+0123456789ab:"},
		{"v1.2.0", "abc", "v1.2.0+abc:"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := CacheScope(); got != tt.want {
			t.Errorf("CacheScope() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), Version) {
		t.Errorf("Template() = %q, missing version", Template())
	}
	if !strings.HasPrefix(String(), "version: ") {
		t.Errorf("String() = %q", String())
	}
}
