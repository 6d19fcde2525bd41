package delimited

import (
	"errors"
	"strings"
	"testing"

	"github.com/ChrisMcGann/utca/pkg/core"
)

func TestReadSampleCSV(t *testing.T) {
	input := `# olive oil
Label,FA,TAG,DAG1223,MAG2
Palmitic,16:0,12.5,10.1,2.2

Oleic,18:1,70,75.4,
Linoleic,"9,12-18:2",17.5,14.5,12.4
`

	sample, err := ReadSample(strings.NewReader(input), "olive", ',')
	if err != nil {
		t.Fatalf("ReadSample() error = %v", err)
	}

	if sample.Name != "olive" {
		t.Errorf("Name = %q, want %q", sample.Name, "olive")
	}
	if sample.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", sample.Len())
	}

	tests := []struct {
		label   string
		species string
		tag     float64
		mag2    float64
	}{
		{"Palmitic", "16:0", 12.5, 2.2},
		{"Oleic", "18:1Δ9", 70, 0},
		{"Linoleic", "18:2Δ9,12", 17.5, 12.4},
	}
	for i, tt := range tests {
		row := sample.Rows[i]
		if row.FA.Label != tt.label {
			t.Errorf("row %d Label = %q, want %q", i, row.FA.Label, tt.label)
		}
		if got := row.FA.SpeciesLabel(); got != tt.species {
			t.Errorf("row %d species = %q, want %q", i, got, tt.species)
		}
		if row.TAG != tt.tag || row.MAG2 != tt.mag2 {
			t.Errorf("row %d TAG, MAG2 = %v, %v, want %v, %v", i, row.TAG, row.MAG2, tt.tag, tt.mag2)
		}
	}
}

func TestReadSampleTSV(t *testing.T) {
	input := "fa\ttag\tdag1223\tmag2\n18:0\t1\t1\t1\n"

	sample, err := ReadSample(strings.NewReader(input), "tsv", '\t')
	if err != nil {
		t.Fatalf("ReadSample() error = %v", err)
	}
	if sample.Len() != 1 || sample.Rows[0].FA.Carbons != 18 {
		t.Errorf("ReadSample() = %+v", sample)
	}
	if sample.Rows[0].FA.Label != "" {
		t.Errorf("Label = %q, want empty without a Label column", sample.Rows[0].FA.Label)
	}
}

func TestReadSampleErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"missing column", "FA,TAG,DAG1223\n18:0,1,1\n", core.ErrBadSchema},
		{"bad number", "FA,TAG,DAG1223,MAG2\n18:0,one,1,1\n", core.ErrBadSchema},
		{"malformed fatty acid", "FA,TAG,DAG1223,MAG2\n18,1,1,1\n", core.ErrMalformedFA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSample(strings.NewReader(tt.input), "bad", ',')
			if err == nil {
				t.Fatal("ReadSample() expected error")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("ReadSample() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestReaderStreaming(t *testing.T) {
	input := "FA,TAG,DAG1223,MAG2\n16:0,1,1,1\n18:0,2,2,2\n"
	r := NewReader(strings.NewReader(input), ',')

	count := 0
	for r.Next() {
		count++
		if r.Row() == nil {
			t.Fatal("Row() returned nil during iteration")
		}
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if count != 2 {
		t.Errorf("read %d rows, want 2", count)
	}
	if r.Row() != nil {
		t.Error("Row() should be nil after iteration ends")
	}
}

func TestReadEmptyInput(t *testing.T) {
	sample, err := ReadSample(strings.NewReader(""), "empty", ',')
	if err != nil {
		t.Fatalf("ReadSample() error = %v", err)
	}
	if sample.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sample.Len())
	}
}
