package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/logging"
	"github.com/toyz/addasync/internal/rewriter"
	"github.com/toyz/addasync/internal/utils"
)

// Generator coordinates scanning, expanding and writing source files
type Generator struct {
	scanner     *DirectoryScanner
	rewriter    *rewriter.Rewriter
	reader      *utils.FileReader
	reporter    *DiagnosticReporter
	logger      *zap.Logger
	output      io.Writer
	concurrency int

	mu      sync.Mutex
	summary GenerationSummary
}

// GeneratorOptions wires a Generator's collaborators; nil fields get defaults
type GeneratorOptions struct {
	Config   *config.Config
	Reporter *DiagnosticReporter
	Logger   *zap.Logger
	// Output receives expanded sources in print mode, stdout when nil
	Output io.Writer
}

// FileResult is the outcome for one file
type FileResult struct {
	Path   string
	Result *rewriter.Result
	Err    error
}

// NewGenerator creates a new CLI generator
func NewGenerator(opts GeneratorOptions) *Generator {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NewDiagnosticReporter(nil, false)
	}

	return &Generator{
		scanner:     NewDirectoryScanner(cfg.Extensions, cfg.Exclude),
		rewriter:    rewriter.NewFromConfig(cfg),
		reader:      utils.NewFileReader(),
		reporter:    reporter,
		logger:      logging.OrNop(opts.Logger),
		output:      output,
		concurrency: cfg.Concurrency,
	}
}

// Scanner returns the generator's file scanner
func (g *Generator) Scanner() *DirectoryScanner {
	return g.scanner
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}

// Run executes a complete run over config.Paths. Files are processed in
// parallel, bounded by the configured concurrency; results are reported in
// path order.
func (g *Generator) Run(ctx context.Context, cfg Config) error {
	startTime := time.Now()
	g.mu.Lock()
	g.summary = GenerationSummary{}
	g.mu.Unlock()

	files, err := g.scanner.ScanFiles(cfg.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoFiles
	}
	g.logger.Debug("scanned paths", zap.Strings("paths", cfg.Paths), zap.Int("files", len(files)))
	if cfg.Verbose {
		g.reporter.Diagnostics().Verbose("Found %d source files", len(files))
	}

	results := make([]FileResult, len(files))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, g.concurrency))

	for i, path := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := g.ProcessFile(path, cfg.Mode)
			results[i] = FileResult{Path: path, Result: result, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	g.collect(results, cfg.Mode)

	summary := g.GetSummary()
	g.logger.Debug("run complete",
		zap.Stringer("mode", cfg.Mode),
		zap.Int("files", summary.FilesScanned),
		zap.Int("changed", summary.FilesChanged),
		zap.Int("expansions", summary.Expansions),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	switch {
	case summary.Failures > 0 || summary.Diagnostics > 0:
		return ErrExpansionFailed
	case cfg.Mode == ModeCheck && summary.FilesChanged > 0:
		return ErrOutOfDate
	}
	return nil
}

// ProcessFile expands one file. In write mode a changed file is rewritten in place.
func (g *Generator) ProcessFile(path string, mode Mode) (*rewriter.Result, error) {
	src, err := g.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := g.rewriter.Rewrite(path, src)
	if err != nil {
		return nil, err
	}

	if result.Changed && mode == ModeWrite {
		if err := g.reader.WriteFile(path, result.Source); err != nil {
			return nil, err
		}
		g.logger.Debug("rewrote file", zap.String("path", path), zap.Int("expansions", len(result.Expansions)))
	}
	return result, nil
}

// Invalidate drops cached contents for path so the next read goes to disk
func (g *Generator) Invalidate(path string) {
	g.reader.InvalidateFile(path)
}

func (g *Generator) collect(results []FileResult, mode Mode) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, fr := range results {
		g.summary.FilesScanned++
		if fr.Err != nil {
			g.summary.Failures++
			g.reporter.ReportError(fr.Err)
			g.logger.Warn("file failed", zap.String("path", fr.Path), zap.Error(fr.Err))
			continue
		}

		g.reporter.ReportResult(fr.Path, fr.Result)
		g.summary.Expansions += len(fr.Result.Expansions)
		g.summary.Diagnostics += len(fr.Result.Diagnostics)
		if !fr.Result.Changed {
			continue
		}

		g.summary.FilesChanged++
		g.summary.ChangedFiles = append(g.summary.ChangedFiles, fr.Path)
		switch mode {
		case ModePrint:
			fmt.Fprintf(g.output, "==> %s <==\n%s", fr.Path, fr.Result.Source)
		case ModeWrite:
			g.reporter.Diagnostics().FileChanged(fr.Path, len(fr.Result.Expansions))
		case ModeCheck:
			g.reporter.Diagnostics().Warn("%s is out of date", fr.Path)
		}
	}
}

// ReportSummary prints the summary of the last run
func (g *Generator) ReportSummary(mode Mode) {
	g.reporter.ReportSummary(g.GetSummary(), mode)
}
