// Package cli implements the dirchart command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirchart/pkg/buildinfo"
	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/observability"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dirchart"

	// savedMessage is printed once per written file.
	savedMessage = "Directory structure diagram saved to: %s"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out    io.Writer // command results and confirmations
	errOut io.Writer // logs and the spinner
}

// New creates a CLI that prints results to out and logs to errOut.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errOut, level),
		out:    out,
		errOut: errOut,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command. Run without a subcommand it renders
// the default layout, exactly like "dirchart render".
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	opts := defaultRenderOpts()

	root := &cobra.Command{
		Use:   appName,
		Short: "dirchart draws the AIGovNav directory structure diagram",
		Long: `dirchart renders an annotated box-and-arrow diagram of the AIGovNav project
layout and saves it as Reference/directory_structure.png.`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetRenderHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	addRenderFlags(root, opts)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. With useCache, artifacts are reused
// from the file cache; keys are scoped by build so a new binary never serves
// an older binary's artifacts.
func (c *CLI) newRunner(useCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(c.newCache(useCache), keyer, c.Logger)
}

// newCache opens the file cache, or returns a NullCache when caching is off
// or the cache directory is unusable. A broken cache never fails a render.
func (c *CLI) newCache(enabled bool) cache.Cache {
	if !enabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dirchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list, dropping blanks.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{pipeline.FormatPNG}
	}
	return formats
}
