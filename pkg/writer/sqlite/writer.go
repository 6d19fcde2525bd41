// Package sqlite provides SQLite database writing for pipeline results
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
	"github.com/ChrisMcGann/utca/pkg/core"
)

// Date format for RunTable (ISO 8601)
const runDateFormat = time.RFC3339

// Writer handles writing the tables of one run to an SQLite database file.
// Every row is tagged with the run id so several runs can share a file.
type Writer struct {
	db              *sql.DB
	outputPath      string
	runID           string
	calculationStmt *sql.Stmt
	compositionStmt *sql.Stmt
	speciesStmt     *sql.Stmt
	comparisonStmt  *sql.Stmt
	valueStmt       *sql.Stmt
	closed          bool
}

// NewWriter opens (or creates) the database and registers a new run with its
// settings.
func NewWriter(outputPath string, settings core.Settings) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		runID:      uuid.NewString(),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.insertRun(settings); err != nil {
		w.closeStatements()
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier stamped on every row of this run.
func (w *Writer) RunID() string {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS RunTable (
		RunId TEXT PRIMARY KEY,
		CreationDate TEXT,
		Settings TEXT
	);

	CREATE TABLE IF NOT EXISTS CalculationTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Sample TEXT,
		RowIndex INTEGER,
		Label TEXT,
		Species TEXT,
		TAG DOUBLE,
		DAG1223 DOUBLE,
		MAG2 DOUBLE,
		TAGExperimental DOUBLE,
		DAG1223Experimental DOUBLE,
		MAG2Experimental DOUBLE,
		TAGTheoretical DOUBLE,
		DAG1223Theoretical DOUBLE,
		MAG2Theoretical DOUBLE,
		DAG13DAG1223Theoretical DOUBLE,
		DAG13MAG2Theoretical DOUBLE,
		MAG2Calculated DOUBLE,
		DAG13Calculated DOUBLE
	);

	CREATE TABLE IF NOT EXISTS CompositionTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Sample TEXT,
		RowIndex INTEGER,
		Level INTEGER,
		Composition TEXT,
		Value DOUBLE
	);

	CREATE TABLE IF NOT EXISTS SpeciesTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Sample TEXT,
		RowIndex INTEGER,
		Species TEXT,
		Value DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ComparisonTable (
		RunId TEXT REFERENCES RunTable(RunId),
		RowIndex INTEGER,
		Composition TEXT,
		Mean DOUBLE,
		Std DOUBLE,
		Var DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ComparisonValueTable (
		RunId TEXT REFERENCES RunTable(RunId),
		RowIndex INTEGER,
		Sample TEXT,
		Value DOUBLE
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.calculationStmt, err = w.db.Prepare(`
		INSERT INTO CalculationTable (
			RunId, Sample, RowIndex, Label, Species, TAG, DAG1223, MAG2,
			TAGExperimental, DAG1223Experimental, MAG2Experimental,
			TAGTheoretical, DAG1223Theoretical, MAG2Theoretical,
			DAG13DAG1223Theoretical, DAG13MAG2Theoretical,
			MAG2Calculated, DAG13Calculated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare calculation statement: %w", err)
	}

	w.compositionStmt, err = w.db.Prepare(`
		INSERT INTO CompositionTable (RunId, Sample, RowIndex, Level, Composition, Value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare composition statement: %w", err)
	}

	w.speciesStmt, err = w.db.Prepare(`
		INSERT INTO SpeciesTable (RunId, Sample, RowIndex, Species, Value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare species statement: %w", err)
	}

	w.comparisonStmt, err = w.db.Prepare(`
		INSERT INTO ComparisonTable (RunId, RowIndex, Composition, Mean, Std, Var)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare comparison statement: %w", err)
	}

	w.valueStmt, err = w.db.Prepare(`
		INSERT INTO ComparisonValueTable (RunId, RowIndex, Sample, Value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare comparison value statement: %w", err)
	}

	return nil
}

func (w *Writer) insertRun(settings core.Settings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = w.db.Exec(`
		INSERT INTO RunTable (RunId, CreationDate, Settings) VALUES (?, ?, ?)
	`, w.runID, time.Now().UTC().Format(runDateFormat), string(encoded))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// WriteCalculation writes every row of a calculated table
func (w *Writer) WriteCalculation(t *calculate.Table) error {
	return w.inTx(func(tx *sql.Tx) error {
		stmt := tx.Stmt(w.calculationStmt)
		for i, row := range t.Rows {
			_, err := stmt.Exec(
				w.runID,
				t.Name,
				i,
				row.Input.FA.Label,
				row.Input.FA.SpeciesLabel(),
				nullable(row.Input.TAG),
				nullable(row.Input.DAG1223),
				nullable(row.Input.MAG2),
				nullable(row.Experimental.TAG),
				nullable(row.Experimental.DAG1223),
				nullable(row.Experimental.MAG2),
				nullable(row.Theoretical.TAG),
				nullable(row.Theoretical.DAG1223),
				nullable(row.Theoretical.MAG2),
				nullable(row.Theoretical.DAG13DAG1223),
				nullable(row.Theoretical.DAG13MAG2),
				nullable(row.Calculated.MAG2),
				nullable(row.Calculated.DAG13),
			)
			if err != nil {
				return fmt.Errorf("failed to insert calculation row %d: %w", i, err)
			}
		}
		return nil
	})
}

// WriteComposition writes one row per level per bucket plus the nested
// species of each bucket
func (w *Writer) WriteComposition(t *compose.Table) error {
	return w.inTx(func(tx *sql.Tx) error {
		compositionStmt := tx.Stmt(w.compositionStmt)
		speciesStmt := tx.Stmt(w.speciesStmt)
		for i, row := range t.Rows {
			for level, label := range row.Composition {
				if _, err := compositionStmt.Exec(w.runID, t.Name, i, level, label, nullable(row.Values[level])); err != nil {
					return fmt.Errorf("failed to insert composition row %d: %w", i, err)
				}
			}
			for _, leaf := range row.Species {
				if _, err := speciesStmt.Exec(w.runID, t.Name, i, leaf.Species, nullable(leaf.Value)); err != nil {
					return fmt.Errorf("failed to insert species of row %d: %w", i, err)
				}
			}
		}
		return nil
	})
}

// WriteComparison writes the joined rows and their per-sample values
func (w *Writer) WriteComparison(t *compare.Table) error {
	return w.inTx(func(tx *sql.Tx) error {
		comparisonStmt := tx.Stmt(w.comparisonStmt)
		valueStmt := tx.Stmt(w.valueStmt)
		for _, row := range t.Rows {
			composition, err := json.Marshal(row.Composition)
			if err != nil {
				return fmt.Errorf("failed to encode composition: %w", err)
			}
			_, err = comparisonStmt.Exec(
				w.runID,
				row.Meta.Index,
				string(composition),
				nullable(row.Meta.Mean),
				nullable(row.Meta.Std),
				nullable(row.Meta.Var),
			)
			if err != nil {
				return fmt.Errorf("failed to insert comparison row %d: %w", row.Meta.Index, err)
			}
			for s, v := range row.Values {
				var value interface{}
				if v != nil {
					value = nullable(*v)
				}
				if _, err := valueStmt.Exec(w.runID, row.Meta.Index, t.Samples[s], value); err != nil {
					return fmt.Errorf("failed to insert comparison value: %w", err)
				}
			}
		}
		return nil
	})
}

func (w *Writer) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// nullable maps NaN and infinities to NULL
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func (w *Writer) closeStatements() {
	for _, stmt := range []*sql.Stmt{w.calculationStmt, w.compositionStmt, w.speciesStmt, w.comparisonStmt, w.valueStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// Close closes the prepared statements and the database. It is safe to call
// more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.closeStatements()

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
