// Package app wires one batch run of the beta transformation together.
//
// A Runner resolves the input (a file, or the newest spreadsheet in a
// directory), validates it, loads the raw betas, runs the transform pipeline
// with a ProgressTracker as observer, builds the blank-cell reports and
// writes the standardized and transformed tables. The validation report is
// printed to the console and run metrics are recorded when telemetry is
// configured.
//
// # Usage
//
//	runner, err := app.NewRunner(cfg, logger, telemetry, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx)
package app
