package calculate

import (
	"github.com/ChrisMcGann/utca/pkg/core"
)

// Column names of the calculator output.
const (
	ColumnTAG                     = "TAG"
	ColumnDAG1223                 = "DAG1223"
	ColumnMAG2                    = "MAG2"
	ColumnTAGExperimental         = "TAG.Experimental"
	ColumnDAG1223Experimental     = "DAG1223.Experimental"
	ColumnMAG2Experimental        = "MAG2.Experimental"
	ColumnTAGTheoretical          = "TAG.Theoretical"
	ColumnDAG1223Theoretical      = "DAG1223.Theoretical"
	ColumnMAG2Theoretical         = "MAG2.Theoretical"
	ColumnDAG13DAG1223Theoretical = "DAG13.DAG1223.Theoretical"
	ColumnDAG13MAG2Theoretical    = "DAG13.MAG2.Theoretical"
	ColumnMAG2Calculated          = "MAG2.Calculated"
	ColumnDAG13Calculated         = "DAG13.Calculated"
)

// Columns lists every numeric column in schema order.
var Columns = []string{
	ColumnTAG, ColumnDAG1223, ColumnMAG2,
	ColumnTAGExperimental, ColumnDAG1223Experimental, ColumnMAG2Experimental,
	ColumnTAGTheoretical, ColumnDAG1223Theoretical, ColumnMAG2Theoretical,
	ColumnDAG13DAG1223Theoretical, ColumnDAG13MAG2Theoretical,
	ColumnMAG2Calculated, ColumnDAG13Calculated,
}

// Experimental holds the fraction-transformed, normalized input columns.
type Experimental struct {
	TAG     float64
	DAG1223 float64
	MAG2    float64
}

// Theoretical holds the columns derived from the deacylation mass balance.
type Theoretical struct {
	TAG          float64
	DAG1223      float64
	MAG2         float64
	DAG13DAG1223 float64 // sn-1,3 DAG derived from DAG1223
	DAG13MAG2    float64 // sn-1,3 DAG derived from MAG2
}

// Calculated holds the operational columns the enumerator draws from.
type Calculated struct {
	MAG2  float64
	DAG13 float64
}

// Row is one derived row.
type Row struct {
	Input        core.Row
	Experimental Experimental
	Theoretical  Theoretical
	Calculated   Calculated
}

// Table is the calculator output for one sample.
type Table struct {
	Name string
	Rows []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the named column of a row.
func (r *Row) Value(column string) (float64, error) {
	switch column {
	case ColumnTAG:
		return r.Input.TAG, nil
	case ColumnDAG1223:
		return r.Input.DAG1223, nil
	case ColumnMAG2:
		return r.Input.MAG2, nil
	case ColumnTAGExperimental:
		return r.Experimental.TAG, nil
	case ColumnDAG1223Experimental:
		return r.Experimental.DAG1223, nil
	case ColumnMAG2Experimental:
		return r.Experimental.MAG2, nil
	case ColumnTAGTheoretical:
		return r.Theoretical.TAG, nil
	case ColumnDAG1223Theoretical:
		return r.Theoretical.DAG1223, nil
	case ColumnMAG2Theoretical:
		return r.Theoretical.MAG2, nil
	case ColumnDAG13DAG1223Theoretical:
		return r.Theoretical.DAG13DAG1223, nil
	case ColumnDAG13MAG2Theoretical:
		return r.Theoretical.DAG13MAG2, nil
	case ColumnMAG2Calculated:
		return r.Calculated.MAG2, nil
	case ColumnDAG13Calculated:
		return r.Calculated.DAG13, nil
	}
	return 0, &core.SchemaError{Column: column, Reason: "no such column"}
}

// Column returns a copy of the named column.
func (t *Table) Column(column string) ([]float64, error) {
	if _, err := (&Row{}).Value(column); err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		out[i], _ = t.Rows[i].Value(column)
	}
	return out, nil
}
