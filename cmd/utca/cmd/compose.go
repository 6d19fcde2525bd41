package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/utca/pkg/filter"
	"github.com/ChrisMcGann/utca/pkg/writer/sqlite"
	"github.com/ChrisMcGann/utca/pkg/writer/text"
)

var (
	// Display filters shared by compose and compare
	topN        int
	cutoff      float64
	hideNaN     bool
	showSpecies bool
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compute the TAG composition of a sample",
	Long: `Enumerate every TAG species of a sample under the Vander Wal model and
aggregate them under one or more nested grouping levels.

Each --group is scope[:stereospecificity[:filter]] where scope is Ecn, Mass,
Type, Species or Unsaturation, stereospecificity is None, Positional or Stereo
and filter is the minimum value a bucket needs to be kept.

Examples:
  # Positional species composition
  utca compose --in olive.csv --group species:positional

  # Mass buckets with nested species, dropping species below 1%
  utca compose --in olive.csv --group mass:positional --group species:stereo:0.01 --adduct Na --species

  # Ten largest ECN buckets
  utca compose --in olive.csv --group ecn:none --top-n 10`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input sample file (required)")
	composeCmd.Flags().StringVarP(&inputFormat, "format", "f", "", "Input format: csv, tsv, json (auto-detect if not specified)")
	composeCmd.Flags().StringVarP(&sampleName, "name", "n", "", "Sample name (defaults to the file name)")
	composeCmd.Flags().StringVarP(&outputFile, "out", "o", "", "SQLite database to store results in")
	composeCmd.Flags().IntVar(&digits, "digits", 6, "Decimal places in printed tables")
	addFilterFlags(composeCmd)
	composeCmd.Flags().BoolVar(&showSpecies, "species", false, "Print the triplets nested under each bucket")

	composeCmd.MarkFlagRequired("in")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&topN, "top-n", 0, "Keep only the N largest rows (0 = no limit)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "Keep rows at or above this % of the largest value (0 = no cutoff)")
	cmd.Flags().BoolVar(&hideNaN, "hide-nan", false, "Hide rows whose value is NaN")
}

func runCompose(cmd *cobra.Command, args []string) error {
	sample, err := loadSample(inputFile, inputFormat, sampleName)
	if err != nil {
		return err
	}

	table, err := pipe.Compose(sample, settings)
	if err != nil {
		return fmt.Errorf("failed to compose %s: %w", sample.Name, err)
	}
	logger.Info("composed",
		"sample", sample.Name,
		"buckets", table.Len(),
		"triplets", table.Leaves(),
		"total", table.Total(),
	)

	filterConfig := &filter.Config{TopN: topN, Cutoff: cutoff, HideNaN: hideNaN}
	if filterConfig.Active() {
		table = filterConfig.Composition(table)
	}

	if err := text.NewWriter(os.Stdout, digits, showSpecies).Composition(table); err != nil {
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

	calculated, err := pipe.Calculate(sample, settings)
	if err != nil {
		return err
	}
	if err := writer.WriteCalculation(calculated); err != nil {
		return fmt.Errorf("failed to write calculation: %w", err)
	}
	if err := writer.WriteComposition(table); err != nil {
		return fmt.Errorf("failed to write composition: %w", err)
	}
	logger.Info("stored composition", "out", outputFile, "run", writer.RunID())
	return writer.Close()
}
