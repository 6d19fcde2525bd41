// Package delimited provides streaming readers for CSV and TSV sample files
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// Header names recognized in the first line. Matching ignores case.
const (
	HeaderLabel   = "Label"
	HeaderFA      = "FA"
	HeaderTAG     = "TAG"
	HeaderDAG1223 = "DAG1223"
	HeaderMAG2    = "MAG2"
)

var requiredHeaders = []string{HeaderFA, HeaderTAG, HeaderDAG1223, HeaderMAG2}

// Reader provides streaming access to delimited sample files
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	lineNum int
	current *core.Row
	err     error
}

// NewReader creates a new reader. comma is ',' for CSV and '\t' for TSV.
func NewReader(r io.Reader, comma rune) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next advances to the next row. Returns false when no more rows or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
	}

	row, err := r.readRow()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = row
	return true
}

// Row returns the current row
func (r *Reader) Row() *core.Row {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readHeader maps header names to column indices
func (r *Reader) readHeader() error {
	record, err := r.read()
	if err != nil {
		return err
	}

	columns := make(map[string]int, len(record))
	for i, name := range record {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredHeaders {
		if _, ok := columns[strings.ToLower(name)]; !ok {
			return &core.SchemaError{Column: name, Reason: "missing from header"}
		}
	}

	r.columns = columns
	return nil
}

// readRow reads and converts a single record
func (r *Reader) readRow() (*core.Row, error) {
	var record []string
	for {
		var err error
		record, err = r.read()
		if err != nil {
			return nil, err
		}
		if !blank(record) {
			break
		}
	}

	field := func(name string) string {
		i := r.columns[strings.ToLower(name)]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	fa, err := core.ParseFattyAcid(field(HeaderFA))
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
	}
	if _, ok := r.columns[strings.ToLower(HeaderLabel)]; ok {
		fa.Label = field(HeaderLabel)
	}

	row := &core.Row{FA: fa}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{HeaderTAG, &row.TAG},
		{HeaderDAG1223, &row.DAG1223},
		{HeaderMAG2, &row.MAG2},
	} {
		text := field(f.name)
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, &core.SchemaError{
				Column: f.name,
				Reason: fmt.Sprintf("invalid value '%s'", text),
			})
		}
		*f.dst = v
	}

	return row, nil
}

func (r *Reader) read() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("line %d: %w", pe.Line, err)
		}
		return nil, err
	}
	r.lineNum, _ = r.csv.FieldPos(0)
	return record, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ReadSample reads every row into a named sample
func ReadSample(r io.Reader, name string, comma rune) (*core.Sample, error) {
	reader := NewReader(r, comma)
	sample := &core.Sample{Name: name}
	for reader.Next() {
		sample.Rows = append(sample.Rows, *reader.Row())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return sample, nil
}
