package exporter

import (
	"strconv"

	"betaxform/pkg/contracts/domain"
)

// FormatValue renders a beta for text output using the shortest
// representation that round-trips. Missing values render as "".
func FormatValue(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TableRecords returns the data rows of table as text: metadata fields
// followed by the formatted betas.
func TableRecords(table *domain.BetaTable) [][]string {
	records := make([][]string, table.Rows())
	for r := range records {
		record := make([]string, 0, len(table.MetaHeaders)+len(table.Columns))
		record = append(record, table.Meta[r]...)
		for _, col := range table.Columns {
			record = append(record, FormatValue(col.Values[r]))
		}
		records[r] = record
	}
	return records
}

// cellValue converts a beta into a workbook cell value; nil leaves the cell
// empty.
func cellValue(v float64) interface{} {
	if domain.IsMissing(v) {
		return nil
	}
	return v
}
