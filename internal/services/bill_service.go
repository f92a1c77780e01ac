package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"billcmp/internal/analysis"
	"billcmp/internal/core"
	"billcmp/internal/loader"
	"billcmp/internal/log"
	"billcmp/internal/report"
)

// Analysis is the outcome of one load-then-compare cycle over a single file.
type Analysis struct {
	RunID      string
	Path       string
	Load       *loader.Result
	Comparison *analysis.Result
}

// Outcome pairs an Analysis with the error that stopped it, if any.
type Outcome struct {
	Analysis *Analysis
	Err      error
}

// BillService orchestrates loading, comparing and exporting bill files
type BillService struct {
	loader      *loader.Loader
	logger      *log.Logger
	maxParallel int
}

type Option func(*serviceOptions)

type serviceOptions struct {
	lenient     bool
	maxParallel int
}

// WithLenientNumbers skips lines with bad numbers instead of failing the load.
func WithLenientNumbers(lenient bool) Option {
	return func(o *serviceOptions) { o.lenient = lenient }
}

// WithMaxParallel bounds how many files AnalyzeAll processes at once.
func WithMaxParallel(n int) Option {
	return func(o *serviceOptions) { o.maxParallel = n }
}

func NewBillService(logger *log.Logger, opts ...Option) *BillService {
	if logger == nil {
		logger = log.Discard()
	}
	o := serviceOptions{maxParallel: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxParallel < 1 {
		o.maxParallel = 1
	}

	loaderOpts := []loader.Option{loader.WithLogger(logger)}
	if o.lenient {
		loaderOpts = append(loaderOpts, loader.WithLenientNumbers())
	}

	return &BillService{
		loader:      loader.New(loaderOpts...),
		logger:      logger.WithComponent(log.ComponentService),
		maxParallel: o.maxParallel,
	}
}

// Load parses the bill file at path.
func (s *BillService) Load(ctx context.Context, path string) (*loader.Result, error) {
	return s.loader.Load(ctx, path)
}

// Compare runs the comparison pass over records.
func (s *BillService) Compare(records []core.BillRecord) (*analysis.Result, error) {
	return analysis.Compare(records)
}

// ExportReport writes the fixed-width report for rows and stats to path.
func (s *BillService) ExportReport(rows []core.ComparisonRow, stats core.SummaryStats, path string) error {
	logger := s.logger.WithComponent(log.ComponentReport).With(log.FieldPath, path)
	if err := report.Export(path, rows, stats); err != nil {
		logger.Error("Failed to export report", log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		return err
	}
	logger.Info("Report exported", log.FieldOperation, log.OpExport, log.FieldRows, len(rows))
	return nil
}

// Analyze loads path and compares its records as one unit of work.
// When the file loads but holds fewer than two records, the returned Analysis
// carries the load result together with core.ErrInsufficientData.
func (s *BillService) Analyze(ctx context.Context, path string) (*Analysis, error) {
	a := &Analysis{RunID: uuid.NewString(), Path: path}
	logger := s.logger.With(log.NewFields().WithRunID(a.RunID).ToSlice()...).With(log.FieldPath, path)
	start := time.Now()

	res, err := s.loader.Load(ctx, path)
	if err != nil {
		logger.ErrorContext(ctx, "Load failed", log.FieldOperation, log.OpLoad, log.FieldError, err)
		return nil, err
	}
	a.Load = res

	cmp, err := analysis.Compare(res.Records)
	if err != nil {
		if errors.Is(err, core.ErrInsufficientData) {
			logger.WarnContext(ctx, "Not enough records to compare",
				log.FieldOperation, log.OpCompare,
				log.FieldRecords, len(res.Records))
		}
		return a, err
	}
	a.Comparison = cmp

	logger.InfoContext(ctx, "Analysis complete",
		log.FieldOperation, log.OpAnalyze,
		log.FieldRecords, len(res.Records),
		log.FieldRows, len(cmp.Rows),
		log.FieldNeedsToSave, cmp.Advisory.NeedsToSave,
		log.FieldIsSaving, cmp.Advisory.IsSaving,
		log.FieldDuration, time.Since(start).Milliseconds())
	return a, nil
}

// AnalyzeAll runs Analyze for every path. Files are independent, so they are
// processed concurrently up to the configured limit. Outcomes keep input order
// and one failing file does not stop the others.
func (s *BillService) AnalyzeAll(ctx context.Context, paths []string) []Outcome {
	out := make([]Outcome, len(paths))

	var g errgroup.Group
	g.SetLimit(s.maxParallel)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			a, err := s.Analyze(ctx, p)
			out[i] = Outcome{Analysis: a, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
