package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/cli"
	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/server"
	"github.com/toyz/addasync/internal/server/adapters"
)

func (a *app) expandCmd() *cobra.Command {
	var write, check bool

	cmd := &cobra.Command{
		Use:   "expand [paths...]",
		Short: "Expand annotated declarations",
		Long: `Expand every annotated declaration below the given paths (default ./...).

Without flags the changed files are printed. --write rewrites them in place
and --check fails when any file is not up to date.`,
		Example: `  addasync expand ./...
  addasync expand --write ./Sources/...
  addasync expand --check ./Sources/API ./Sources/Models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && check {
				return fmt.Errorf("--write and --check are mutually exclusive")
			}
			mode := cli.ModePrint
			switch {
			case write:
				mode = cli.ModeWrite
			case check:
				mode = cli.ModeCheck
			}

			generator := cli.NewGenerator(cli.GeneratorOptions{
				Config:   a.cfg,
				Reporter: a.reporter(),
				Logger:   a.logger,
				Output:   cmd.OutOrStdout(),
			})
			err := generator.Run(cmd.Context(), cli.Config{Paths: args, Mode: mode, Verbose: a.verbose})
			if mode != cli.ModePrint || a.verbose {
				generator.ReportSummary(mode)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&check, "check", false, "Fail if any file would change")
	return cmd
}

func (a *app) cleanCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove generated declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := cli.ModeWrite
			if check {
				mode = cli.ModeCheck
			}

			generator := cli.NewGenerator(cli.GeneratorOptions{Config: a.cfg, Logger: a.logger})
			cleaner := cli.NewCleaner(generator.Scanner(), a.reporter(), a.logger)
			cleaned, err := cleaner.Clean(args, mode)
			if err == nil || stderrors.Is(err, cli.ErrOutOfDate) {
				if mode == cli.ModeWrite {
					a.diagnostics.Success("Removed generated code from %d files", len(cleaned))
				} else {
					for _, path := range cleaned {
						a.diagnostics.List("%s", path)
					}
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only list files containing generated code")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Expand files whenever they are saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}

			generator := cli.NewGenerator(cli.GeneratorOptions{
				Config:   a.cfg,
				Reporter: a.reporter(),
				Logger:   a.logger,
				Output:   cmd.OutOrStdout(),
			})

			err := generator.Run(cmd.Context(), cli.Config{Paths: args, Mode: cli.ModeWrite})
			switch {
			case err == nil, stderrors.Is(err, cli.ErrExpansionFailed), stderrors.Is(err, cli.ErrNoFiles):
			default:
				return err
			}

			watcher, err := cli.NewWatcher(generator, a.cfg.Watch.Debounce)
			if err != nil {
				return err
			}
			if err := watcher.Add(args); err != nil {
				return err
			}

			a.diagnostics.Info("Watching %d directories, press Ctrl+C to stop", watcher.WatchedDirs())
			a.logger.Info("watching", zap.Strings("paths", args), zap.Duration("debounce", a.cfg.Watch.Debounce))
			return watcher.Run(cmd.Context())
		},
	}
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr, framework string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the expansion API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if framework != "" {
				a.cfg.Server.Framework = framework
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			web, err := adapters.New(a.cfg.Server.Framework)
			if err != nil {
				return err
			}
			server.NewAPI(a.cfg, a.logger).Register(web)

			a.diagnostics.Info("Serving on http://%s (%s)", a.cfg.Server.Addr, web.Name())
			return server.New(web, a.cfg.Server.Addr, a.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&framework, "framework", "", "HTTP framework: gin, echo or fiber")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Version)
			return nil
		},
	}
}
