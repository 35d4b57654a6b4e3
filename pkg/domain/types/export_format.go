package types

import "strings"

// ExportFormat is the requested encoding of a submission export
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// String returns the string representation of the export format
func (f ExportFormat) String() string {
	return string(f)
}

// ParseExportFormat normalizes a requested format. An empty value means CSV;
// unknown values are returned as-is and rejected by the exporter.
func ParseExportFormat(s string) ExportFormat {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ExportFormatCSV
	}
	return ExportFormat(s)
}
