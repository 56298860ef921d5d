package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/cli"
	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/logging"
	"github.com/toyz/addasync/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	a.report(err)
	return 1
}

// app holds the state shared by all subcommands
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
	attribute  string
	guard      string

	stdout io.Writer
	stderr io.Writer

	cfg         *config.Config
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "addasync",
		Short: "Generate async/await peers for completion-handler Swift functions",
		Long: `addasync expands every function annotated with @AddAsync into an
async peer that bridges its completion handler through a checked continuation.

Paths accept Go-style patterns: ./... scans recursively while a plain
directory is scanned without recursion.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file (default: ./"+config.FileName+" when present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only show errors")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&a.attribute, "attribute", "", "Attribute name to expand (overrides the configuration)")
	flags.StringVar(&a.guard, "guard", "", "Resume guard for generated bodies: flag or lock")

	root.AddCommand(
		a.expandCmd(),
		a.cleanCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger and diagnostics
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.diagnostics = a.newDiagnostics()

	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return err
	}

	if a.attribute != "" {
		a.cfg.Attribute = a.attribute
	}
	if a.guard != "" {
		a.cfg.Guard = a.guard
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = logging.New(logging.Options{Verbose: a.verbose})
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("attribute", a.cfg.Attribute),
		zap.String("guard", a.cfg.Guard),
	)
	return nil
}

func (a *app) newDiagnostics() *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case a.quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case a.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(a.stdout, a.stderr)
	if a.noColor {
		diagnostics.SetColors(false)
	}
	return diagnostics
}

func (a *app) reporter() *cli.DiagnosticReporter {
	return cli.NewDiagnosticReporter(a.diagnostics, a.verbose)
}

// report prints a command failure. Errors already reported per file only
// get their one-line summary.
func (a *app) report(err error) {
	if a.diagnostics == nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}
	a.reporter().ReportError(err)
}
