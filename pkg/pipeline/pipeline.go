// Package pipeline turns a layout into rendered artifacts and writes them.
//
// The CLI and the preview server share this package so both entry points
// validate, cache and render the same way.
//
// # Stages
//
//  1. Validate: check the visualization type and formats, apply defaults
//  2. Render: draw each requested format, consulting the artifact cache first
//  3. Write: place artifacts on disk atomically ([WriteArtifact])
//
// # Usage
//
//	d, _ := diagram.Default()
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, d, pipeline.Options{Formats: []string{"png"}})
//	if err != nil {
//	    return err
//	}
//	err = pipeline.WriteArtifact(d.Output.Path, result.Artifacts["png"])
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/fonts"
)

// Visualization types.
const (
	// VizTypeDiagram is the annotated box diagram drawn on a raster canvas.
	VizTypeDiagram = "diagram"
	// VizTypeNodelink is the Graphviz view of boxes and linked connectors.
	VizTypeNodelink = "nodelink"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// DefaultVizType is the visualization rendered when none is requested.
const DefaultVizType = VizTypeDiagram

// MaxDPI bounds Options.DPI. Diagram renders are further limited by
// [diagram.MaxPixels].
const MaxDPI = 600

// DefaultTrimMargin is the margin in pixels kept around trimmed content.
const DefaultTrimMargin = 20

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeDiagram:  true,
	VizTypeNodelink: true,
}

// ValidFormats is the set of formats each visualization type supports.
var ValidFormats = map[string]map[string]bool{
	VizTypeDiagram:  {FormatPNG: true, FormatSVG: true, FormatPDF: true},
	VizTypeNodelink: {FormatPNG: true, FormatSVG: true, FormatPDF: true, FormatDOT: true},
}

// Options configures a pipeline run.
type Options struct {
	VizType    string   `json:"viz_type,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	DPI        float64  `json:"dpi,omitempty"` // 0 uses the layout's output DPI
	Trim       bool     `json:"trim,omitempty"`
	TrimMargin int      `json:"trim_margin,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // nodelink labels carry every box line

	Fonts  *fonts.Set  `json:"-"` // nil uses the embedded Go fonts
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of one run.
type Result struct {
	// LayoutHash is the content hash of the rendered layout.
	LayoutHash string

	// Artifacts holds rendered bytes keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats summarizes what was rendered and how long it took.
type Stats struct {
	Boxes      int
	Texts      int
	Connectors int
	RenderTime time.Duration
}

// CacheInfo reports cache hits.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
}

// ValidateVizType checks that a visualization type is supported.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid type %q (must be one of: diagram, nodelink)", vizType)
	}
	return nil
}

// ValidateFormat checks that vizType can be rendered as format.
func ValidateFormat(vizType, format string) error {
	formats, ok := ValidFormats[vizType]
	if !ok {
		return ValidateVizType(vizType)
	}
	if formats[format] {
		return nil
	}
	for _, other := range ValidFormats {
		if other[format] {
			return errors.New(errors.ErrCodeUnsupported, "%s output is not available for %s", format, vizType)
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: png, svg, pdf, dot)", format)
}

// ValidateAndSetDefaults checks options and fills defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		if err := ValidateFormat(o.VizType, f); err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if o.DPI < 0 || math.IsNaN(o.DPI) || math.IsInf(o.DPI, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %g", o.DPI)
	}
	if o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must not exceed %d, got %g", MaxDPI, o.DPI)
	}
	if o.Trim && o.TrimMargin == 0 {
		o.TrimMargin = DefaultTrimMargin
	}
	if o.TrimMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "trim margin must not be negative, got %d", o.TrimMargin)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// IsNodelink reports whether the run renders the node-link view.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// fontFamily names the font set for cache keys.
func (o *Options) fontFamily() string {
	if o.Fonts == nil {
		return fonts.GoFamily
	}
	return o.Fonts.Family()
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string, dpi float64) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Type:   o.VizType,
		Format: format,
		DPI:    dpi,
	}
	if o.IsNodelink() {
		k.Detailed = o.Detailed
		if format != FormatPNG {
			k.DPI = 0
		}
		return k
	}
	if format == FormatPNG && o.Trim {
		k.Trim = true
		k.TrimMargin = o.TrimMargin
	}
	k.Font = o.fontFamily()
	return k
}

// String is used in log lines.
func (s Stats) String() string {
	return fmt.Sprintf("%d boxes, %d texts, %d connectors", s.Boxes, s.Texts, s.Connectors)
}
