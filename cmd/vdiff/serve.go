package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/pkg/server"
	"github.com/vango-dev/vdiff/pkg/snapshot"
)

type serveOptions struct {
	dir      string
	file     string
	addr     string
	logLevel string
	release  bool
	mounts   []string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mounts over HTTP and WebSocket",
		Long: `Start the mount server.

Configuration is read from vdiff.json or vdiff.toml in --dir, or from
--config. VDIFF_ADDR and VDIFF_LOG_LEVEL override the file, and flags
override both. Snapshots go to the store named by snapshot.backend
(memory, redis or s3).

Examples:
  vdiff serve
  vdiff serve --addr=:8080 --mount=main
  vdiff serve --config=/etc/vdiff.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory to look for vdiff.json or vdiff.toml in")
	cmd.Flags().StringVarP(&opts.file, "config", "c", "", "Configuration file (overrides --dir)")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVarP(&opts.logLevel, "log-level", "l", "", "Log level: debug, info, warn or error (default from config)")
	cmd.Flags().BoolVar(&opts.release, "release-handles", false, "Release handles after every render")
	cmd.Flags().StringSliceVarP(&opts.mounts, "mount", "m", nil, "Mount to create at startup (repeatable)")

	return cmd
}

func loadConfig(dir, file string) (*config.Config, error) {
	if file != "" {
		return config.LoadFile(file)
	}
	return config.Load(dir)
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	cfg, err := loadConfig(opts.dir, opts.file)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if cmd.Flags().Changed("release-handles") {
		cfg.Server.ReleaseHandles = opts.release
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	store, err := snapshot.Open(cfg.Snapshot)
	if err != nil {
		return err
	}
	defer store.Close()

	scfg, err := server.ConfigFrom(cfg)
	if err != nil {
		return err
	}
	srv := server.New(scfg, server.WithLogger(logger), server.WithStore(store))
	for _, id := range opts.mounts {
		if _, err := srv.Mount(id); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	if path := cfg.Path(); path != "" {
		info("config:    %s", path)
	}
	info("listening: http://%s", cfg.Server.Addr)
	info("snapshots: %s", cfg.Snapshot.Backend)
	if cfg.Server.ReleaseHandles {
		info("handles:   released after every render")
	}
	for _, id := range opts.mounts {
		success("mounted %s", id)
	}

	return srv.Run(ctx)
}
