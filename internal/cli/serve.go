package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirchart/internal/server"
	"github.com/matzehuels/dirchart/pkg/buildinfo"
	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/diagram"
	dcerrors "github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/observability"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

type serveOpts struct {
	addr       string
	layoutPath string
	redisURL   string
	rateLimit  int // requests per client per minute; 0 disables
	noCache    bool
	watch      bool
}

// serveCommand creates the preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "127.0.0.1:8080"}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram over HTTP for live preview",
		Long: `Serve the diagram over HTTP for live preview.

Routes:
  GET /healthz
  GET /layout
  GET /diagram.{png,svg,pdf}?dpi=N
  GET /nodelink.{svg,png,pdf,dot}

With --redis-url, rendered artifacts are shared through Redis and
--rate-limit is enforced per client address. Without it, artifacts are cached
in the local cache directory.

With --watch, the --layout file is reloaded whenever it is saved. A layout
that fails to load is reported and the previous one keeps being served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.layoutPath, "layout", "", "TOML layout file (default: embedded layout)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis://host:port/db for a shared artifact cache")
	cmd.Flags().IntVar(&opts.rateLimit, "rate-limit", 0, "max requests per client per minute (requires --redis-url)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload --layout when the file changes")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	if opts.watch && opts.layoutPath == "" {
		return dcerrors.New(dcerrors.ErrCodeInvalidInput, "--watch requires --layout")
	}
	d, err := loadLayout(opts.layoutPath)
	if err != nil {
		return err
	}

	var (
		artifacts  cache.Cache
		serverOpts = []server.Option{server.WithLogger(logger)}
	)
	switch {
	case opts.noCache:
		artifacts = cache.NewNullCache()
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL, appName+":")
		if err != nil {
			return dcerrors.Wrap(dcerrors.ErrCodeIO, err, "redis cache")
		}
		artifacts = rc
		if opts.rateLimit > 0 {
			limiter, err := server.NewRedisLimiter(rc.Client(), opts.rateLimit, time.Minute)
			if err != nil {
				return err
			}
			serverOpts = append(serverOpts, server.WithLimiter(limiter))
		}
		redisOpts := rc.Client().Options()
		logger.Info("using redis cache", "addr", redisOpts.Addr, "db", redisOpts.DB)
	default:
		artifacts = c.newCache(true)
	}
	if opts.rateLimit > 0 && opts.redisURL == "" {
		logger.Warn("--rate-limit needs --redis-url; serving without a limit")
	}

	observability.SetServerHooks(observability.NewLogHooks(logger))

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	runner := pipeline.NewRunner(artifacts, keyer, logger)
	defer runner.Close()

	srv, err := server.New(runner, d, serverOpts...)
	if err != nil {
		return err
	}
	if opts.watch {
		if err := watchLayout(ctx, opts.layoutPath, srv, logger); err != nil {
			return err
		}
	}
	printInfo(c.out, "Serving %s at http://%s", d.Name, opts.addr)
	return srv.ListenAndServe(ctx, opts.addr)
}

// watchLayout reloads path into srv until ctx ends.
func watchLayout(ctx context.Context, path string, srv *server.Server, logger *log.Logger) error {
	w, err := diagram.NewWatcher(path, diagram.DefaultDebounce)
	if err != nil {
		return err
	}
	go func() {
		_ = w.Run(ctx, func(d *diagram.Diagram, err error) {
			if err != nil {
				logger.Warn("layout reload failed; keeping previous layout", "path", path, "error", err)
				return
			}
			if err := srv.SetLayout(d); err != nil {
				logger.Warn("layout reload failed; keeping previous layout", "path", path, "error", err)
				return
			}
			for _, warning := range d.Warnings() {
				logger.Warn(warning)
			}
			logger.Info("layout reloaded", "path", path, "elements", d.Stats().String())
		})
	}()
	logger.Info("watching layout", "path", path)
	return nil
}
