package core

import (
	"fmt"
	"math"
	"strings"
)

// Row is one measured fatty acid of a sample. The three fractions are
// non-negative mass or mole fractions, not necessarily normalized.
type Row struct {
	FA      FattyAcid
	TAG     float64 // Whole triacylglycerols
	DAG1223 float64 // sn-1,2/2,3 diacylglycerols
	MAG2    float64 // sn-2 monoacylglycerols
}

// Sample is a named, ordered sequence of rows.
type Sample struct {
	Name string
	Rows []Row
}

// Len returns the number of rows.
func (s *Sample) Len() int {
	return len(s.Rows)
}

// Validate checks that every row is admissible: valid fatty acids, finite
// non-negative fractions and no fatty acid listed twice.
func (s *Sample) Validate() error {
	var errs []string

	if s.Name == "" {
		errs = append(errs, "name is required")
	}

	seen := make(map[string]int, len(s.Rows))
	for i, row := range s.Rows {
		if err := row.FA.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("row %d: %v", i, err))
		}
		label := row.FA.SpeciesLabel()
		if j, ok := seen[label]; ok {
			errs = append(errs, fmt.Sprintf("row %d repeats fatty acid %s of row %d", i, label, j))
		} else {
			seen[label] = i
		}
		for _, f := range []struct {
			name  string
			value float64
		}{{"TAG", row.TAG}, {"DAG1223", row.DAG1223}, {"MAG2", row.MAG2}} {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				errs = append(errs, fmt.Sprintf("row %d has invalid %s", i, f.name))
			} else if f.value < 0 {
				errs = append(errs, fmt.Sprintf("row %d %s must be non-negative", i, f.name))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   fmt.Sprintf("Sample %q", s.Name),
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}
