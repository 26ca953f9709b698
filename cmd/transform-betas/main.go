package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"betaxform/internal/app"
	"betaxform/internal/config"
	apperrors "betaxform/internal/errors"
	"betaxform/internal/infrastructure"
)

// cliOptions holds the command line flags. Only flags the user set override
// the loaded configuration.
type cliOptions struct {
	configPath     string
	input          string
	sheet          string
	outDir         string
	format         string
	precision      int
	lowPrecision   bool
	noStandardized bool
	metricsFile    string
	trace          bool
	version        bool
	set            map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, config.AppVersion)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stderr, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(cfg, logger, telemetry, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	result, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Run failed", slog.String("error", err.Error()))
		reportError(stderr, err)
		return 1
	}

	for _, f := range result.Files {
		fmt.Fprintf(stdout, "Saved %s\n", f)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $BETAS_CONFIG, betas.yaml or configs/betas.yaml)")
	fs.StringVar(&opts.input, "in", "", "input workbook or CSV, or a directory to pick the newest spreadsheet from")
	fs.StringVar(&opts.sheet, "sheet", "", "input sheet name; empty reads the first sheet")
	fs.StringVar(&opts.outDir, "out", "", "output directory")
	fs.StringVar(&opts.format, "format", "", "output format: auto, xlsx or csv")
	fs.IntVar(&opts.precision, "precision", 0, "decimal places percentiles are rounded to (1-15)")
	fs.BoolVar(&opts.lowPrecision, "low-precision", false, fmt.Sprintf("round percentiles to %d decimals", config.LowPrecision))
	fs.BoolVar(&opts.noStandardized, "no-standardized", false, "do not write the standardized table")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus text-format run metrics to this file")
	fs.BoolVar(&opts.trace, "trace", false, "print OpenTelemetry spans to stderr")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	if fs.NArg() > 0 && !opts.set["in"] {
		// A bare positional argument is taken as the input path.
		opts.input = fs.Arg(0)
		opts.set["in"] = true
	}
	return opts, nil
}

// loadConfig layers the flags the user set over file and environment config
func loadConfig(opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.set["in"] {
		cfg.Input.Path = opts.input
	}
	if opts.set["sheet"] {
		cfg.Input.Sheet = opts.sheet
	}
	if opts.set["out"] {
		cfg.Output.Dir = opts.outDir
	}
	if opts.set["format"] {
		cfg.Output.Format = opts.format
	}
	if opts.set["low-precision"] && opts.lowPrecision {
		cfg.Transform.Precision = config.LowPrecision
	}
	if opts.set["precision"] {
		cfg.Transform.Precision = opts.precision
	}
	if opts.set["no-standardized"] {
		cfg.Output.IncludeStandardized = !opts.noStandardized
	}
	if opts.set["metrics-file"] {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	if opts.set["trace"] && opts.trace {
		cfg.Telemetry.TraceExporter = "stdout"
	}

	if cfg.Input.Path == "" {
		return nil, apperrors.NewConfigError("no input given; use -in or BETAS_INPUT_PATH", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reportError prints err for a person at a terminal. Schema errors name the
// offending column and spreadsheet row.
func reportError(w io.Writer, err error) {
	var schemaErr *apperrors.SchemaError
	if apperrors.As(err, &schemaErr) {
		fmt.Fprintln(w, "Error: the input table cannot be transformed")
		if schemaErr.Column != "" {
			fmt.Fprintf(w, "  Column: %s\n", schemaErr.Column)
		}
		if schemaErr.Row > 0 {
			fmt.Fprintf(w, "  Row:    %d\n", schemaErr.Row)
		}
		if schemaErr.Value != "" {
			fmt.Fprintf(w, "  Value:  %q\n", schemaErr.Value)
		}
		fmt.Fprintf(w, "  Reason: %s\n", schemaErr.Reason)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
