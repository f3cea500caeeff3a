package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/kontocsv/pkg/config"
	"github.com/yurifrl/kontocsv/pkg/coverage"
	"github.com/yurifrl/kontocsv/pkg/csv"
	"github.com/yurifrl/kontocsv/pkg/document"
	"github.com/yurifrl/kontocsv/pkg/models"
	"github.com/yurifrl/kontocsv/pkg/parser"
)

var (
	// ErrInvalidInputPath is returned when the input is neither a regular file nor a directory.
	ErrInvalidInputPath = errors.New("invalid input path")
	// ErrNothingConverted is returned when a directory run produced no output file.
	ErrNothingConverted = errors.New("no document converted")
)

type Processor struct {
	config *config.Config
	logger *log.Logger
	source document.Source
	parser *parser.Parser
	filter csv.FilterFunc
}

func NewProcessor(cfg *config.Config, logger *log.Logger, src document.Source, p *parser.Parser) *Processor {
	return &Processor{
		config: cfg,
		logger: logger,
		source: src,
		parser: p,
	}
}

// SetFilter restricts the rows written to every output file. nil keeps all rows.
func (p *Processor) SetFilter(filter csv.FilterFunc) {
	p.filter = filter
}

// Process converts a single document or every document inside a directory and
// returns the categories observed along the way.
func (p *Processor) Process(path string) (*coverage.Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInputPath, path, err)
	}

	cov := coverage.NewSet()
	switch {
	case info.IsDir():
		if err := p.ProcessDirectory(path, cov); err != nil {
			return cov, err
		}
	case info.Mode().IsRegular():
		if _, err := p.ProcessFile(path, cov); err != nil {
			return cov, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidInputPath, path)
	}
	return cov, nil
}

// ProcessDirectory converts every document directly inside dir. Failures are
// logged per file and do not stop the batch, but a run that converts nothing
// returns ErrNothingConverted. cov may be nil.
func (p *Processor) ProcessDirectory(dir string, cov *coverage.Set) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	var (
		g         errgroup.Group
		documents int
		converted atomic.Int64
	)
	g.SetLimit(p.config.Workers)

	for _, entry := range entries {
		if !p.isDocument(entry) {
			p.logger.Debug("skipping entry", "file", entry.Name())
			continue
		}
		documents++
		inputPath := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			local := coverage.NewSet()
			if _, err := p.ProcessFile(inputPath, local); err != nil {
				p.logger.Warn("failed to process file", "file", inputPath, "error", err)
				return nil
			}
			converted.Add(1)
			if cov != nil {
				cov.Merge(local)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case documents == 0:
		return fmt.Errorf("%w: no document found in %s", ErrNothingConverted, dir)
	case converted.Load() == 0:
		return fmt.Errorf("%w: all %d document(s) in %s failed", ErrNothingConverted, documents, dir)
	}
	return nil
}

func (p *Processor) isDocument(entry os.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	return document.IsDocument(entry.Name(), p.config.Extensions)
}

// ProcessFile converts one document and writes the CSV next to it, or into
// the configured output directory. It returns the output path.
func (p *Processor) ProcessFile(inputPath string, cov *coverage.Set) (string, error) {
	outFile := p.determineOutputPath(inputPath)
	p.logger.Info("processing file", "path", inputPath)

	// render in memory first so a failed document leaves no partial file behind
	var buf bytes.Buffer
	txs, err := p.ConvertDocument(inputPath, &buf, cov)
	if err != nil {
		return "", err
	}

	if p.config.OutputDir != "" {
		if err := os.MkdirAll(p.config.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("error creating output file: %w", err)
	}

	p.logger.Info("processed file successfully", "input", inputPath, "output", outFile, "transactions", len(txs))
	return outFile, nil
}

// ConvertDocument extracts the transactions of one document and writes them
// as CSV to w. Every resolved category is recorded in cov.
func (p *Processor) ConvertDocument(inputPath string, w io.Writer, cov *coverage.Set) ([]models.Transaction, error) {
	sep, err := p.config.Comma()
	if err != nil {
		return nil, err
	}

	pages, err := p.source.Pages(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}

	txs := p.parser.ParsePages(pages, p.config.SkipFunc())
	if cov != nil {
		for i := range txs {
			cov.Observe(txs[i].Category)
		}
	}

	if err := csv.Write(w, txs, sep, p.filter); err != nil {
		return nil, fmt.Errorf("error writing output file: %w", err)
	}
	return txs, nil
}

func (p *Processor) determineOutputPath(inputPath string) string {
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if p.config.OutputDir != "" {
		return filepath.Join(p.config.OutputDir, baseName+".csv")
	}
	return filepath.Join(filepath.Dir(inputPath), baseName+".csv")
}
