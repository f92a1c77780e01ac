// Package loader parses bill files into ordered bill records.
//
// A bill file holds one record per line:
//
//	<Category>,<Period>,<Consumption>,<Cost>
//
// Empty lines are skipped. Lines with the wrong number of fields, including
// whitespace-only lines, are skipped and reported, lines with an
// unknown category are dropped, and an unparseable number aborts the whole load
// unless the loader runs in lenient mode.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"billcmp/internal/core"
	"billcmp/internal/log"
)

const (
	fieldCount = 4
	bom        = "\uFEFF"
	maxLine    = 1 << 20
)

// Result is the outcome of one load.
type Result struct {
	Records []core.BillRecord
	// Errors holds recoverable per-line failures. The lines were skipped.
	Errors []*core.LineError
	// Warnings holds lines that were dropped without being an error,
	// such as an unrecognized category token.
	Warnings []*core.LineError
	// AverageConsumption is the mean consumption over Records.
	AverageConsumption float64
	// Lines is the number of lines read, blank lines included.
	Lines int
}

type Loader struct {
	logger  *log.Logger
	lenient bool
}

type Option func(*Loader)

// WithLogger sets the logger used for per-line diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l.WithComponent(log.ComponentLoader)
		}
	}
}

// WithLenientNumbers makes numeric parse failures skip the line instead of
// failing the load.
func WithLenientNumbers() Option {
	return func(ld *Loader) {
		ld.lenient = true
	}
}

func New(opts ...Option) *Loader {
	ld := &Loader{logger: log.Discard()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load opens path and parses it. The file is closed before Load returns.
func (ld *Loader) Load(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	start := time.Now()
	res, err := ld.parse(ctx, f, path)
	if err != nil {
		ld.logger.ErrorContext(ctx, "Failed to load bills",
			log.FieldPath, path,
			log.FieldError, err)
		return nil, err
	}

	ld.logger.InfoContext(ctx, "Bills loaded",
		log.FieldPath, path,
		log.FieldRecords, len(res.Records),
		log.FieldErrors, len(res.Errors),
		log.FieldWarnings, len(res.Warnings),
		log.FieldAverage, res.AverageConsumption,
		log.FieldDuration, time.Since(start).Milliseconds())
	return res, nil
}

// Parse reads bill lines from r.
func (ld *Loader) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	return ld.parse(ctx, r, "")
}

func (ld *Loader) parse(ctx context.Context, r io.Reader, path string) (*Result, error) {
	res := &Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Lines++
		line := sc.Text()
		if res.Lines == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		rec, lineErr := parseLine(res.Lines, line)
		switch {
		case lineErr == nil:
			res.Records = append(res.Records, rec)
		case errors.Is(lineErr, core.ErrUnrecognizedCategory):
			res.Warnings = append(res.Warnings, lineErr)
			ld.logger.DebugContext(ctx, "Dropping line with unrecognized category",
				log.NewFields().WithLine(lineErr.Line, line).ToSlice()...)
		case errors.Is(lineErr, core.ErrNumericFormat) && !ld.lenient:
			return nil, lineErr
		default:
			res.Errors = append(res.Errors, lineErr)
			ld.logger.WarnContext(ctx, "Skipping invalid line",
				log.NewFields().WithLine(lineErr.Line, line).WithError(lineErr.Err).ToSlice()...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &core.IOError{Op: "read", Path: path, Err: err}
	}

	res.AverageConsumption = core.MeanConsumption(res.Records)
	return res, nil
}

// parseLine turns one non-blank line into a record.
// Numbers are parsed before the category is checked, so a bad number on a line
// with an unknown category is still a numeric error.
func parseLine(n int, line string) (core.BillRecord, *core.LineError) {
	fields := splitFields(line)
	if len(fields) != fieldCount {
		return core.BillRecord{}, &core.LineError{
			Line: n,
			Text: line,
			Err:  fmt.Errorf("%w: expected %d fields, got %d", core.ErrMalformedLine, fieldCount, len(fields)),
		}
	}

	consumption, err := core.ParseQuantity(fields[2])
	if err != nil {
		return core.BillRecord{}, numericError(n, line, "consumption", fields[2], err)
	}
	cost, err := core.ParseQuantity(fields[3])
	if err != nil {
		return core.BillRecord{}, numericError(n, line, "cost", fields[3], err)
	}

	category, ok := core.ParseCategoryToken(fields[0])
	if !ok {
		return core.BillRecord{}, &core.LineError{
			Line: n,
			Text: line,
			Err:  fmt.Errorf("%w: %q", core.ErrUnrecognizedCategory, fields[0]),
		}
	}

	rec := core.BillRecord{
		Category:    category,
		Period:      fields[1],
		Consumption: consumption,
		Cost:        cost,
	}
	if err := rec.Validate(); err != nil {
		return core.BillRecord{}, &core.LineError{
			Line: n,
			Text: line,
			Err:  fmt.Errorf("%w: %w", core.ErrNumericFormat, err),
		}
	}
	return rec, nil
}

func numericError(n int, line, field, value string, cause error) *core.LineError {
	return &core.LineError{
		Line: n,
		Text: line,
		Err:  fmt.Errorf("%w: %s %q: %w", core.ErrNumericFormat, field, value, cause),
	}
}

// splitFields splits on commas and drops trailing empty fields,
// so "a,b,1,2," has four fields and ",,," has none.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
