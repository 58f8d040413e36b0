package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirchart/pkg/diagram"
	dcerrors "github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/fonts"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

// renderOpts holds the flags shared by the root and render commands.
type renderOpts struct {
	output     string  // output path; other formats swap the extension
	vizType    string  // "diagram" or "nodelink"
	formats    string  // comma-separated: png, svg, pdf, dot
	dpi        float64 // 0 keeps the layout's DPI
	layoutPath string  // TOML layout; empty uses the embedded layout
	trim       bool    // crop PNG output to its content
	trimMargin int     // pixels kept around trimmed content
	font       string  // system font replacing the embedded Go fonts
	detailed   bool    // full box text in nodelink labels
	cache      bool    // reuse artifacts from the cache directory
}

func defaultRenderOpts() *renderOpts {
	return &renderOpts{
		vizType:    pipeline.DefaultVizType,
		formats:    pipeline.FormatPNG,
		trimMargin: pipeline.DefaultTrimMargin,
	}
}

func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: the layout's output path)")
	f.StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: diagram, nodelink")
	f.StringVarP(&opts.formats, "format", "f", opts.formats, "output formats, comma-separated: png, svg, pdf, dot")
	f.Float64Var(&opts.dpi, "dpi", 0, "output resolution (default: the layout's dpi)")
	f.StringVar(&opts.layoutPath, "layout", "", "TOML layout file (default: embedded AIGovNav layout)")
	f.BoolVar(&opts.trim, "trim", false, "crop PNG output to the drawn content")
	f.IntVar(&opts.trimMargin, "trim-margin", opts.trimMargin, "margin in pixels kept by --trim")
	f.StringVar(&opts.font, "font", "", "system font to draw text with (default: embedded Go fonts)")
	f.BoolVar(&opts.detailed, "detailed", false, "show every box line in nodelink labels")
	f.BoolVar(&opts.cache, "cache", false, "reuse rendered artifacts from the cache directory")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{pipeline.VizTypeDiagram, pipeline.VizTypeNodelink}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("layout", "toml")
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := defaultRenderOpts()
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the directory structure diagram",
		Long: `Render the directory structure diagram.

With no flags the embedded layout is drawn at 150 dpi (3000x3600 px) and saved
to Reference/directory_structure.png. The target directory must exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}
	addRenderFlags(cmd, opts)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	d, err := loadLayout(opts.layoutPath)
	if err != nil {
		return err
	}
	for _, w := range d.Warnings() {
		logger.Warn(w)
	}

	output := opts.output
	if output == "" {
		output = d.Output.Path
	}
	if err := checkOutputDir(output); err != nil {
		return err
	}

	pipeOpts := pipeline.Options{
		VizType:    opts.vizType,
		Formats:    parseFormats(opts.formats),
		DPI:        opts.dpi,
		Trim:       opts.trim,
		TrimMargin: opts.trimMargin,
		Detailed:   opts.detailed,
		Logger:     logger,
	}
	if opts.font != "" {
		set, err := fonts.System(opts.font)
		if err != nil {
			return err
		}
		logger.Debug("using system font", "family", set.Family())
		pipeOpts.Fonts = set
	}

	runner := c.newRunner(opts.cache)
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, c.errOut, "Rendering diagram...")
	spinner.Start()
	result, err := runner.Execute(ctx, d, pipeOpts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered " + d.Name)

	for _, format := range pipeOpts.Formats {
		path := output
		if len(pipeOpts.Formats) > 1 || opts.output == "" {
			path = pipeline.OutputPath(output, format)
		}
		if err := pipeline.WriteArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printSuccess(c.out, savedMessage, path)
	}
	if c.Logger.GetLevel() <= LogDebug {
		printStats(c.errOut, result.Stats.Boxes, result.Stats.Texts, result.Stats.Connectors, result.CacheInfo.RenderHit)
	}
	return nil
}

// loadLayout reads path, or the embedded layout when path is empty.
func loadLayout(path string) (*diagram.Diagram, error) {
	if path == "" {
		return diagram.Default()
	}
	return diagram.Load(path)
}

// checkOutputDir fails before rendering when the output directory is
// missing, since rendering at full resolution is the slow part.
func checkOutputDir(path string) error {
	if err := dcerrors.ValidateOutputPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return dcerrors.Wrap(dcerrors.ErrCodeIO, err, "output directory %s does not exist", dir)
	}
	if err != nil {
		return dcerrors.Wrap(dcerrors.ErrCodeIO, err, "output directory %s", dir)
	}
	if !info.IsDir() {
		return dcerrors.New(dcerrors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	return nil
}
