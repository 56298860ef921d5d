package cli

import (
	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/logging"
	"github.com/toyz/addasync/internal/rewriter"
	"github.com/toyz/addasync/internal/utils"
)

// Cleaner removes generated regions from source files
type Cleaner struct {
	scanner  *DirectoryScanner
	reader   *utils.FileReader
	reporter *DiagnosticReporter
	logger   *zap.Logger
}

// NewCleaner creates a new cleaner
func NewCleaner(scanner *DirectoryScanner, reporter *DiagnosticReporter, logger *zap.Logger) *Cleaner {
	if reporter == nil {
		reporter = NewDiagnosticReporter(nil, false)
	}
	return &Cleaner{
		scanner:  scanner,
		reader:   utils.NewFileReader(),
		reporter: reporter,
		logger:   logging.OrNop(logger),
	}
}

// Clean strips every generated region below paths and returns the files that
// had one. Files are only written in ModeWrite; in ModeCheck a file with
// generated code yields ErrOutOfDate.
func (c *Cleaner) Clean(paths []string, mode Mode) ([]string, error) {
	files, err := c.scanner.ScanFiles(paths)
	if err != nil {
		return nil, err
	}

	var cleaned []string
	var failures []error
	for _, path := range files {
		src, err := c.reader.ReadFile(path)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if !rewriter.HasRegions(src) {
			continue
		}

		stripped, err := rewriter.Strip(src)
		if err != nil {
			failures = append(failures, errors.Wrap(errors.SyntaxErrorCode, "cannot clean "+path, err))
			continue
		}
		cleaned = append(cleaned, path)

		if mode != ModeWrite {
			continue
		}
		if err := c.reader.WriteFile(path, stripped); err != nil {
			failures = append(failures, err)
			continue
		}
		c.reporter.Diagnostics().Verbose("cleaned %s", path)
		c.logger.Debug("removed generated code", zap.String("path", path))
	}

	for _, failure := range failures {
		c.reporter.ReportError(failure)
	}
	switch {
	case len(failures) > 0:
		return cleaned, ErrExpansionFailed
	case mode == ModeCheck && len(cleaned) > 0:
		return cleaned, ErrOutOfDate
	}
	return cleaned, nil
}
