// Package files locates input spreadsheets and derives output names.
//
// Discovery resolves the configured input: a file path is used as is, a
// directory yields its most recently modified spreadsheet (xlsx, xlsm, csv
// or txt; Office "~$" lock files are skipped).
//
// ExtractDateTag produces the YYYY_MM_DD tag used in output file names,
// taken from a date in the input file name when one is present:
//
//	tag, source := files.ExtractDateTag("raw_betas_20250331.xlsx", time.Now())
//	// tag == "2025_03_31", source == files.TagFromName
//	base := files.OutputBaseName("transformed_factor_betas", tag)
package files
