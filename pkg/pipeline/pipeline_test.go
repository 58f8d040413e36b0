package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		vizType string
		format  string
		code    errors.Code
	}{
		{"diagram", "png", ""},
		{"diagram", "svg", ""},
		{"diagram", "pdf", ""},
		{"diagram", "dot", errors.ErrCodeUnsupported},
		{"nodelink", "dot", ""},
		{"nodelink", "png", ""},
		{"diagram", "PNG", errors.ErrCodeInvalidFormat},
		{"diagram", "json", errors.ErrCodeInvalidFormat},
		{"tower", "png", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.vizType, tt.format)
		if tt.code == "" {
			assert.NoError(t, err, "%s/%s", tt.vizType, tt.format)
			continue
		}
		assert.Equal(t, tt.code, errors.GetCode(err), "%s/%s", tt.vizType, tt.format)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Formats: []string{"png", "svg", "png"}, Trim: true}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, VizTypeDiagram, opts.VizType)
	assert.Equal(t, []string{"png", "svg"}, opts.Formats)
	assert.Equal(t, DefaultTrimMargin, opts.TrimMargin)
	assert.NotNil(t, opts.Logger)

	empty := Options{}
	require.NoError(t, empty.ValidateAndSetDefaults())
	assert.Equal(t, []string{FormatPNG}, empty.Formats)

	for _, dpi := range []float64{-1, math.NaN(), math.Inf(1), MaxDPI + 1, 1e7} {
		bad := Options{DPI: dpi}
		assert.True(t, errors.Is(bad.ValidateAndSetDefaults(), errors.ErrCodeInvalidInput), "dpi %g", dpi)
	}
}

func TestRenderPixelBudget(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)
	d.Canvas.WidthInches, d.Canvas.HeightInches = 200, 240

	_, err = Render(context.Background(), d, Options{DPI: 150})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "error = %v", err)
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{VizType: VizTypeNodelink, Detailed: true}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Zero(t, opts.ArtifactKeyOpts(FormatSVG, 150).DPI)
	assert.Equal(t, 150.0, opts.ArtifactKeyOpts(FormatPNG, 150).DPI)
	assert.True(t, opts.ArtifactKeyOpts(FormatDOT, 150).Detailed)

	diag := Options{Trim: true}
	require.NoError(t, diag.ValidateAndSetDefaults())
	assert.True(t, diag.ArtifactKeyOpts(FormatPNG, 150).Trim)
	assert.False(t, diag.ArtifactKeyOpts(FormatSVG, 150).Trim)
	assert.Equal(t, "Go", diag.ArtifactKeyOpts(FormatSVG, 150).Font)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format, want string
	}{
		{"Reference/directory_structure.png", "png", "Reference/directory_structure.png"},
		{"Reference/directory_structure.png", "svg", "Reference/directory_structure.svg"},
		{"out", "pdf", "out.pdf"},
		{"chart.PNG", "png", "chart.PNG"},
		{"a.b/chart", "dot", "a.b/chart.dot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.base, tt.format), "OutputPath(%q, %q)", tt.base, tt.format)
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "directory_structure.png")

	require.NoError(t, WriteArtifact(path, []byte("first")))
	require.NoError(t, WriteArtifact(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestWriteArtifactMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Reference", "directory_structure.png")

	err := WriteArtifact(path, []byte("data"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), path)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
	_, statErr = os.Stat(filepath.Dir(path))
	assert.ErrorIs(t, statErr, fs.ErrNotExist, "parent directory must not be created")
}

func TestWriteArtifactReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	path := filepath.Join(dir, "out.png")
	err := WriteArtifact(path, []byte("data"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteArtifactInvalid(t *testing.T) {
	assert.True(t, errors.Is(WriteArtifact("", []byte("x")), errors.ErrCodeInvalidPath))
	assert.True(t, errors.Is(WriteArtifact(filepath.Join(t.TempDir(), "x.png"), nil), errors.ErrCodeInternal))
}

func TestRunnerExecutePNG(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), d, Options{DPI: 10})
	require.NoError(t, err)

	data := result.Artifacts[FormatPNG]
	require.NotEmpty(t, data)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	assert.Equal(t, 13, result.Stats.Boxes)
	assert.Equal(t, 29, result.Stats.Texts)
	assert.Equal(t, 3, result.Stats.Connectors)
	assert.False(t, result.CacheInfo.RenderHit)
	assert.Len(t, result.LayoutHash, 64)
}

func TestRunnerDeterministic(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)

	runner := NewRunner(nil, nil, nil)
	opts := Options{DPI: 12, Formats: []string{FormatPNG, FormatSVG}}
	a, err := runner.Execute(context.Background(), d, opts)
	require.NoError(t, err)
	b, err := runner.Execute(context.Background(), d, opts)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a.Artifacts[FormatPNG], b.Artifacts[FormatPNG]))
	assert.True(t, bytes.Equal(a.Artifacts[FormatSVG], b.Artifacts[FormatSVG]))
}

func TestRunnerCache(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{DPI: 10, Formats: []string{FormatSVG}}
	first, err := runner.Execute(context.Background(), d, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.RenderHit)

	second, err := runner.Execute(context.Background(), d, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifacts, second.Artifacts)

	d.Boxes[0].Text = "changed"
	third, err := runner.Execute(context.Background(), d, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.RenderHit)
	assert.NotEqual(t, first.LayoutHash, third.LayoutHash)
}

type recordingHooks struct {
	observability.NoopRenderHooks
	formats []string
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _, format string, _ int, _ time.Duration, err error) {
	if err == nil {
		h.formats = append(h.formats, format)
	}
}

func TestRunnerEmitsRenderHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetRenderHooks(hooks)

	d, err := diagram.Default()
	require.NoError(t, err)
	_, err = NewRunner(nil, nil, nil).Execute(context.Background(), d, Options{
		VizType: VizTypeNodelink,
		Formats: []string{FormatDOT},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{FormatDOT}, hooks.formats)
}

func TestRunnerNodelinkDOT(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), d, Options{
		VizType: VizTypeNodelink,
		Formats: []string{FormatDOT},
	})
	require.NoError(t, err)
	assert.Contains(t, string(result.Artifacts[FormatDOT]), "digraph")
}

func TestRunnerErrors(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)
	runner := NewRunner(nil, nil, nil)

	_, err = runner.Execute(context.Background(), d, Options{Formats: []string{FormatDOT}})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	_, err = runner.Execute(context.Background(), nil, Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Execute(ctx, d, Options{DPI: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
