package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"billcmp/internal/cli"
	"billcmp/internal/core"
	"billcmp/internal/log"
	"billcmp/internal/render"
	"billcmp/internal/services"
	"billcmp/internal/watcher"
)

// version is set via ldflags at release time.
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("billcmp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "TOML config file path (default $BILLCMP_CONFIG)")
		exportPath  = fs.String("export", "", "write the fixed-width report to this file (single input only)")
		watch       = fs.Bool("watch", false, "re-run the analysis whenever the input file changes")
		lenient     = fs.Bool("lenient", false, "skip lines with bad numbers instead of failing the load")
		records     = fs.Bool("records", false, "list every loaded bill before the comparison")
		showVersion = fs.Bool("version", false, "print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: billcmp [flags] FILE...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, "billcmp", version)
		return exitOK
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return exitUsage
	}
	if (*exportPath != "" || *watch) && len(paths) != 1 {
		fmt.Fprintln(stderr, "Error: -export and -watch take exactly one input file")
		return exitUsage
	}

	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}
	if *lenient {
		cfg.LenientNumbers = true
	}

	logger := cli.SetupLogger(cfg)
	svc := services.NewBillService(logger,
		services.WithLenientNumbers(cfg.LenientNumbers),
		services.WithMaxParallel(cfg.MaxParallel),
	)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	export := *exportPath
	if export != "" && !filepath.IsAbs(export) {
		export = filepath.Join(cfg.ExportDir, export)
	}

	opts := outputOptions{export: export, records: *records}
	code := analyze(ctx, svc, paths, opts, stdout)
	if !*watch {
		return code
	}

	w, err := watcher.New(paths[0], cfg.WatchDebounce, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	logger.Info("Watching for changes", log.FieldPath, paths[0], log.FieldOperation, log.OpWatch)
	err = w.Run(ctx, func() {
		fmt.Fprintln(stdout)
		code = analyze(ctx, svc, paths, opts, stdout)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return code
}

type outputOptions struct {
	export  string
	records bool
}

// analyze runs every file through the service and prints the results.
// It returns exitFailure when any file could not be loaded or compared.
func analyze(ctx context.Context, svc *services.BillService, paths []string, opts outputOptions, out io.Writer) int {
	code := exitOK
	for _, o := range svc.AnalyzeAll(ctx, paths) {
		a := o.Analysis
		if a != nil {
			fmt.Fprintln(out, render.Title(a.Path))
			fmt.Fprint(out, render.Problems(a.Load))
			if opts.records && a.Load != nil {
				fmt.Fprint(out, render.Records(a.Load.Records))
			}
		}

		if o.Err != nil {
			code = exitFailure
			if errors.Is(o.Err, core.ErrInsufficientData) {
				fmt.Fprintf(out, "Not enough bills to compare: %v\n\n", o.Err)
			} else {
				fmt.Fprintf(out, "Error: %v\n", o.Err)
				if core.IsLineError(o.Err, core.ErrNumericFormat) {
					fmt.Fprintln(out, "Run with -lenient to skip lines with bad numbers.")
				}
				fmt.Fprintln(out)
			}
			continue
		}

		fmt.Fprintln(out, render.Comparison(a.Comparison, render.Unit(a.Load.Records)))

		if opts.export != "" {
			if err := svc.ExportReport(a.Comparison.Rows, a.Comparison.Stats, opts.export); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				code = exitFailure
				continue
			}
			fmt.Fprintf(out, "Report written to %s\n", opts.export)
		}
	}
	return code
}
