package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/utca/pkg/writer/sqlite"
	"github.com/ChrisMcGann/utca/pkg/writer/text"
)

var (
	// Flags shared by calculate and compose
	inputFile   string
	inputFormat string
	sampleName  string
	outputFile  string
	digits      int
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Derive experimental, theoretical and calculated columns of a sample",
	Long: `Derive the experimental, theoretical and calculated TAG, DAG1223, MAG2 and
DAG13 columns of a sample. Every derived column is normalized to sum to 1.

Examples:
  # Calculate with default settings
  utca calculate --in olive.csv

  # Molar fractions, DAG13 from DAG1223, keep negative values
  utca calculate --in olive.csv --fraction ToMole --from Dag1223 --signedness Signed

  # Store the result
  utca calculate --in olive.csv --out results.db`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input sample file (required)")
	calculateCmd.Flags().StringVarP(&inputFormat, "format", "f", "", "Input format: csv, tsv, json (auto-detect if not specified)")
	calculateCmd.Flags().StringVarP(&sampleName, "name", "n", "", "Sample name (defaults to the file name)")
	calculateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "SQLite database to store results in")
	calculateCmd.Flags().IntVar(&digits, "digits", 6, "Decimal places in printed tables")

	calculateCmd.MarkFlagRequired("in")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	sample, err := loadSample(inputFile, inputFormat, sampleName)
	if err != nil {
		return err
	}

	table, err := pipe.Calculate(sample, settings)
	if err != nil {
		return fmt.Errorf("failed to calculate %s: %w", sample.Name, err)
	}

	if err := text.NewWriter(os.Stdout, digits, false).Calculation(table); err != nil {
		return err
	}

	if outputFile == "" {
		return nil
	}
	writer, err := sqlite.NewWriter(outputFile, settings)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteCalculation(table); err != nil {
		return fmt.Errorf("failed to write calculation: %w", err)
	}
	logger.Info("stored calculation", "out", outputFile, "run", writer.RunID())
	return writer.Close()
}
