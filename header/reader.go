// Package header ingests the delimited header table that drives response
// synthesis: one logical row per intended record.
//
// Upstream tables come from varying extraction queries with inconsistent
// column naming and locale-dependent delimiters, so parsing here is
// deliberately defensive: the delimiter is sniffed, field names are
// normalized, and alias resolution is handled in one place so the rest of
// the pipeline can assume canonical names.
package header

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/synthfhir/qrforge/errors"
)

// delimiterCandidates are tried during structural sniffing, in order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Row is one parsed header row with case-insensitive field access.
// Field names are lower-cased and trimmed at parse time.
type Row map[string]string

// Get returns the raw value for a field name, or "" when absent.
// Lookup is case-insensitive; a missing field is never an error.
func (r Row) Get(name string) string {
	return r[strings.ToLower(strings.TrimSpace(name))]
}

// DetectDelimiter determines the field delimiter of raw tabular text.
//
// It structurally sniffs the first data line: a candidate wins when it
// splits the first line into more than one field and the second line (when
// present) splits into the same number. If no candidate qualifies, it falls
// back to a frequency vote between comma and semicolon, preferring
// semicolon on ties to accommodate locales where it is the default.
func DetectDelimiter(sample []byte) rune {
	lines := strings.SplitN(string(sample), "\n", 3)
	first := strings.TrimRight(lines[0], "\r")
	second := ""
	if len(lines) > 1 {
		second = strings.TrimRight(lines[1], "\r")
	}

	for _, cand := range delimiterCandidates {
		fields := strings.Count(first, string(cand)) + 1
		if fields < 2 {
			continue
		}
		if second != "" && strings.Count(second, string(cand))+1 != fields {
			continue
		}
		return cand
	}

	// Frequency vote over the whole sample.
	if strings.Count(string(sample), ";") >= strings.Count(string(sample), ",") {
		return ';'
	}
	return ','
}

// ReadTable parses raw tabular text into header rows.
//
// The first line is the header; field names are lower-cased and trimmed.
// Short records yield empty values for the trailing fields. An unreadable
// source or a table with no data rows is fatal for the whole run.
func ReadTable(r io.Reader) ([]Row, error) {
	buffered := bufio.NewReader(r)
	data, err := io.ReadAll(buffered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header table")
	}

	// Strip a UTF-8 BOM; exports from spreadsheet tools often carry one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ErrEmptyHeaderTable
	}

	delimiter := DetectDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse header table")
	}
	if len(records) < 2 {
		return nil, errors.ErrEmptyHeaderTable
	}

	names := make([]string, len(records[0]))
	for i, name := range records[0] {
		names[i] = strings.ToLower(strings.TrimSpace(name))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(names))
		for i, name := range names {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
