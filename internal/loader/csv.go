package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxRowErrors caps the row errors kept per file; Failed still counts all.
const maxRowErrors = 100

// Result summarises the ingestion of one CSV file.
type Result struct {
	File    string     `json:"file"`
	Total   int        `json:"total"`
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors,omitempty"`
}

// RowError explains why one line was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (r *Result) fail(line int, err error) {
	r.Failed++
	if len(r.Errors) < maxRowErrors {
		r.Errors = append(r.Errors, RowError{Line: line, Reason: err.Error()})
	}
}

// row gives header-keyed access to one record.
type row struct {
	header map[string]int
	record []string
}

// get returns the trimmed value of the first column present among names.
func (r row) get(names ...string) string {
	for _, name := range names {
		if idx, ok := r.header[name]; ok && idx < len(r.record) {
			return strings.TrimSpace(r.record[idx])
		}
	}
	return ""
}

// readCSV streams the records of src to fn. Each required entry lists the
// accepted spellings of one column; headers are matched case-insensitively.
// A row rejected by fn is recorded in the result and skipped.
func readCSV(name string, src io.Reader, required [][]string, fn func(r row) error) (*Result, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &Result{File: name}

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", name)
		}
		return nil, fmt.Errorf("%s: failed to read csv header: %w", name, err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimPrefix(h, "\ufeff")
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, names := range required {
		if !hasAny(headerMap, names) {
			return nil, fmt.Errorf("%s: missing required csv header: %s", name, names[0])
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("%s: read failed: %w", name, err)
			}
			result.Total++
			result.fail(line, err)
			continue
		}
		result.Total++
		if err := fn(row{header: headerMap, record: record}); err != nil {
			result.fail(line, err)
			continue
		}
		result.Success++
	}
	return result, nil
}

func hasAny(header map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := header[n]; ok {
			return true
		}
	}
	return false
}
