// Package dataprocessing loads raw factor betas into a domain.BetaTable.
//
// Supported inputs are Excel workbooks (.xlsx, .xlsm), read with excelize,
// and comma separated files (.csv, .txt). The first row is the header; the
// leading MetaColumns columns (symbol and company name by default) are kept
// as text and every remaining column must hold numbers.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{
//	    Sheet:       "Sheet1",
//	    MetaColumns: 2,
//	}, logger)
//	table, err := loader.ParseFile(ctx, "raw_betas.xlsx")
//
// # Cell values
//
// Beta cells are cleaned before parsing: no-break spaces and thousands
// separators are removed and the unicode minus sign is read as '-'. Blank
// cells and the tokens NA, N/A, #N/A, NaN, nan, null, NULL, None and "-"
// become missing values. Rows with no content at all are skipped.
//
// # Errors
//
// Any other text in a beta column is reported as an *errors.SchemaError
// naming the column, the spreadsheet row and the offending value. Tables
// without a beta column, with an empty or duplicate beta header, or with
// cells past the last header are schema errors too.
package dataprocessing
