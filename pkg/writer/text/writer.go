// Package text renders pipeline tables as tab-aligned text.
package text

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
)

// Writer renders tables with a fixed number of decimal places.
type Writer struct {
	out       io.Writer
	precision int
	species   bool
}

// NewWriter creates a writer. When species is set, composition rows are
// followed by their nested triplets.
func NewWriter(out io.Writer, precision int, species bool) *Writer {
	return &Writer{out: out, precision: precision, species: species}
}

func (w *Writer) tab() *tabwriter.Writer {
	return tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
}

func (w *Writer) number(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', w.precision, 64)
}

// Calculation renders the calculator output of one sample.
func (w *Writer) Calculation(t *calculate.Table) error {
	tw := w.tab()
	fmt.Fprintf(tw, "# %s\n", t.Name)
	fmt.Fprintf(tw, "Index\tName\tSpecies\t%s\t\n", strings.Join(calculate.Columns, "\t"))
	for i := range t.Rows {
		row := &t.Rows[i]
		cells := []string{strconv.Itoa(i), row.Input.FA.Name(), row.Input.FA.SpeciesLabel()}
		for _, column := range calculate.Columns {
			v, err := row.Value(column)
			if err != nil {
				return err
			}
			cells = append(cells, w.number(v))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Composition renders an aggregated table of one sample.
func (w *Writer) Composition(t *compose.Table) error {
	tw := w.tab()
	fmt.Fprintf(tw, "# %s\n", t.Name)
	var header []string
	for level := 0; level < t.Levels; level++ {
		header = append(header, fmt.Sprintf("Composition%d", level), fmt.Sprintf("Value%d", level))
	}
	fmt.Fprintf(tw, "Index\t%s\t\n", strings.Join(header, "\t"))
	for i := range t.Rows {
		row := &t.Rows[i]
		cells := []string{strconv.Itoa(i)}
		for level := range row.Composition {
			cells = append(cells, row.Composition[level], w.number(row.Values[level]))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t"))
		if w.species {
			for _, leaf := range row.Species {
				fmt.Fprintf(tw, "\t%s\t%s\t\n", leaf.Species, w.number(leaf.Value))
			}
		}
	}
	return tw.Flush()
}

// Comparison renders the joined table. Missing sample values are shown as
// "null".
func (w *Writer) Comparison(t *compare.Table) error {
	tw := w.tab()
	var header []string
	for level := 0; level < t.Levels; level++ {
		header = append(header, fmt.Sprintf("Composition%d", level))
	}
	header = append(header, t.Samples...)
	header = append(header, "Mean", "Std", "Var")
	fmt.Fprintf(tw, "Index\t%s\t\n", strings.Join(header, "\t"))
	for _, row := range t.Rows {
		cells := []string{strconv.FormatUint(uint64(row.Meta.Index), 10)}
		cells = append(cells, row.Composition...)
		for _, v := range row.Values {
			if v == nil {
				cells = append(cells, "null")
				continue
			}
			cells = append(cells, w.number(*v))
		}
		cells = append(cells, w.number(row.Meta.Mean), w.number(row.Meta.Std), w.number(row.Meta.Var))
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
