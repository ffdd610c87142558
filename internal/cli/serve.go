package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurite-tools/neurite/internal/server"
	"github.com/neurite-tools/neurite/pkg/cache"
	"github.com/neurite-tools/neurite/pkg/pipeline"
	"github.com/neurite-tools/neurite/pkg/store"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API exposing conversion and refinement endpoints.

The cache backend follows the config: a Redis address selects Redis,
otherwise the file cache is used. When a MongoDB URI is configured,
refinement runs are recorded and listable via /api/runs.

Endpoints:
  GET  /healthz        Health probe
  POST /api/convert    Convert between formats
  POST /api/refine     Run the refinement pipeline
  GET  /api/runs       List recorded runs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string, noCache bool) error {
	ctx := cmd.Context()

	var (
		cacheStore cache.Cache
		err        error
	)
	switch {
	case noCache:
		cacheStore = cache.NewNullCache()
	case c.Config.Cache.RedisAddr != "":
		cacheStore, err = cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
	default:
		cacheStore, err = c.newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	runner := pipeline.NewRunner(cacheStore, nil, c.Logger)
	defer runner.Close()

	var runStore *store.Store
	if c.Config.Storage.MongoURI != "" {
		runStore, err = store.New(ctx, c.Config.Storage.MongoURI, c.Config.Storage.Database)
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		defer runStore.Close(ctx)
	}

	if addr == "" {
		addr = c.Config.Server.Addr
	}

	srv := server.New(runner, runStore, c.Logger)
	return srv.ListenAndServe(ctx, addr)
}
