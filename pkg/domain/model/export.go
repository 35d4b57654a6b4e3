package model

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

const (
	csvBOM       = "\ufeff"
	csvDelimiter = ";"
	csvRowSep    = "\n"

	// CSVContentType is the content type of exported CSV files
	CSVContentType = "text/csv"
)

// Table is the tabular projection of a set of submissions. Headers holds
// the answer keys, Labels the matching column titles.
type Table struct {
	Headers []string
	Labels  []string
	Rows    [][]string
}

// ProjectToTable builds one column per answer key found in submissions, in
// the order the keys are first encountered, and one row per submission.
// Lists are joined with ", " and keys a submission did not answer are left
// empty. Keys of fields that no longer exist still get their own column.
func ProjectToTable(fields []FieldDefinition, submissions []*Submission) *Table {
	headers := SubmissionKeys(submissions)

	byID := make(map[string]*FieldDefinition, len(fields))
	for i := range fields {
		if fields[i].ID != "" {
			byID[fields[i].ID] = &fields[i]
		}
	}

	labels := make([]string, len(headers))
	for i, key := range headers {
		if f, ok := byID[key]; ok {
			labels[i] = f.DisplayLabel()
		} else {
			labels[i] = orphanLabel(key)
		}
	}

	rows := make([][]string, 0, len(submissions))
	for _, s := range submissions {
		row := make([]string, len(headers))
		for i, key := range headers {
			if v, ok := s.Lookup(key); ok {
				row[i] = v.String()
			}
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Labels: labels, Rows: rows}
}

// orphanLabel titles a column whose field has been removed: "contact_email"
// becomes "CONTACT EMAIL".
func orphanLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// EncodeCSV renders the table with the label row first. Every cell is
// quoted, cells are separated by ';' and the payload starts with a UTF-8
// byte order mark.
func EncodeCSV(t *Table) []byte {
	var buf bytes.Buffer
	buf.WriteString(csvBOM)

	writeCSVRow(&buf, t.Labels)
	for _, row := range t.Rows {
		buf.WriteString(csvRowSep)
		writeCSVRow(&buf, row)
	}
	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(csvDelimiter)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
}

var unsafeFileNameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// ExportFileName returns "{title}_export_{YYYY-MM-DD}.{ext}". Characters
// that are not allowed in file names are replaced by '_'.
func ExportFileName(title string, format types.ExportFormat, at time.Time) string {
	name := strings.TrimSpace(unsafeFileNameChars.ReplaceAllString(title, "_"))
	if name == "" {
		name = "form"
	}
	return name + "_export_" + at.Format(time.DateOnly) + "." + format.String()
}

// ExportFile is a rendered export ready to be served or written
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

// CheckExportFormat reports whether format can be rendered. PDF fails
// with ErrNotImplemented.
func CheckExportFormat(format types.ExportFormat) error {
	switch format {
	case types.ExportFormatCSV:
		return nil
	case types.ExportFormatPDF:
		return goerr.Wrap(ErrNotImplemented, "PDF export is not available",
			goerr.V(FormatKey, format))
	default:
		return goerr.Wrap(ErrUnsupportedExportFormat, "unknown export format",
			goerr.V(FormatKey, format))
	}
}

// Export projects the submissions of a form and renders them in format
func Export(format types.ExportFormat, form *Form, submissions []*Submission, at time.Time) (*ExportFile, error) {
	if err := CheckExportFormat(format); err != nil {
		return nil, err
	}

	table := ProjectToTable(form.Fields, submissions)
	return &ExportFile{
		Name:        ExportFileName(form.Title, format, at),
		ContentType: CSVContentType,
		Body:        EncodeCSV(table),
	}, nil
}
