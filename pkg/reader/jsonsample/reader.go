// Package jsonsample reads samples stored as JSON columns: an "FA" column of
// {Label, Carbons, Doubles, Triples} structs and the float columns "TAG",
// "DAG1223" and "MAG2", all of equal length. An optional "Name" string names
// the sample.
package jsonsample

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// Read decodes one sample. name is used when the document carries none.
func Read(r io.Reader, name string) (*core.Sample, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode sample: %w", err)
	}

	if raw, ok := doc["Name"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, &core.SchemaError{Column: "Name", Reason: "expected a string"}
		}
	}

	var fas []core.FattyAcid
	if err := column(doc, "FA", &fas); err != nil {
		return nil, err
	}
	values := make(map[string][]float64, 3)
	for _, col := range []string{"TAG", "DAG1223", "MAG2"} {
		var v []float64
		if err := column(doc, col, &v); err != nil {
			return nil, err
		}
		if len(v) != len(fas) {
			return nil, &core.SchemaError{
				Column: col,
				Reason: fmt.Sprintf("has %d values for %d fatty acids", len(v), len(fas)),
			}
		}
		values[col] = v
	}

	sample := &core.Sample{Name: name, Rows: make([]core.Row, len(fas))}
	for i, fa := range fas {
		if err := fa.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		sample.Rows[i] = core.Row{
			FA:      fa,
			TAG:     values["TAG"][i],
			DAG1223: values["DAG1223"][i],
			MAG2:    values["MAG2"][i],
		}
	}
	return sample, nil
}

// Write encodes a sample in the layout Read accepts.
func Write(w io.Writer, sample *core.Sample) error {
	doc := struct {
		Name    string           `json:"Name"`
		FA      []core.FattyAcid `json:"FA"`
		TAG     []float64        `json:"TAG"`
		DAG1223 []float64        `json:"DAG1223"`
		MAG2    []float64        `json:"MAG2"`
	}{Name: sample.Name}
	for _, row := range sample.Rows {
		doc.FA = append(doc.FA, row.FA)
		doc.TAG = append(doc.TAG, row.TAG)
		doc.DAG1223 = append(doc.DAG1223, row.DAG1223)
		doc.MAG2 = append(doc.MAG2, row.MAG2)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func column(doc map[string]json.RawMessage, name string, dst any) error {
	raw, ok := doc[name]
	if !ok {
		return &core.SchemaError{Column: name, Reason: "missing"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &core.SchemaError{Column: name, Reason: fmt.Sprintf("wrong element type: %v", err)}
	}
	return nil
}
