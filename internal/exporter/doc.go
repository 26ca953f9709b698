// Package exporter writes the standardized and transformed beta tables.
//
// Two formats are supported:
//
// WorkbookWriter: one xlsx file with a StandardizedBetas sheet (optional)
// followed by a TransformedBetas sheet, written with excelize stream writers.
//
// CSVWriter: one csv file per table named <base>_<sheet>.csv, prefixed with
// a UTF-8 BOM so Excel opens it as UTF-8.
//
// In both formats a missing beta is an empty cell.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger)
//	files, err := exp.Export(ctx, exporter.OutputOptions{
//	    Dir:                 "out",
//	    BaseName:            "transformed_factor_betas_2025_03_31",
//	    Format:              exporter.ResolveFormat("auto", inputPath),
//	    IncludeStandardized: true,
//	    StandardizedSheet:   "StandardizedBetas",
//	    TransformedSheet:    "TransformedBetas",
//	}, exporter.Tables{Standardized: std, Transformed: tr})
package exporter
