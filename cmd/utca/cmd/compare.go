package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/utca/pkg/core"
	"github.com/ChrisMcGann/utca/pkg/filter"
	"github.com/ChrisMcGann/utca/pkg/writer/sqlite"
	"github.com/ChrisMcGann/utca/pkg/writer/text"
)

var inputFiles []string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Join the TAG compositions of several samples",
	Long: `Compose every sample with the same settings, join the results on their
composition labels and report mean, standard deviation and variance per row.

--join Left keeps the compositions of the first sample, And those present in
every sample and Or those present in any sample.

Examples:
  # Type composition of two oils, compositions present in both
  utca compare --in olive.csv --in sunflower.csv --group type:none --join And

  # Population statistics
  utca compare --in a.csv --in b.csv --in c.csv --group ecn:none --ddof 0`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringArrayVarP(&inputFiles, "in", "i", nil, "Input sample file, repeatable (required)")
	compareCmd.Flags().StringVarP(&inputFormat, "format", "f", "", "Input format: csv, tsv, json (auto-detect if not specified)")
	compareCmd.Flags().StringVarP(&outputFile, "out", "o", "", "SQLite database to store results in")
	compareCmd.Flags().IntVar(&digits, "digits", 6, "Decimal places in printed tables")
	addFilterFlags(compareCmd)

	compareCmd.MarkFlagRequired("in")
}

func runCompare(cmd *cobra.Command, args []string) error {
	samples := make([]*core.Sample, 0, len(inputFiles))
	for _, path := range inputFiles {
		sample, err := loadSample(path, inputFormat, "")
		if err != nil {
			return err
		}
		samples = append(samples, sample)
	}

	table, err := pipe.Compare(samples, settings)
	if err != nil {
		return fmt.Errorf("failed to compare samples: %w", err)
	}
	logger.Info("compared", "samples", len(samples), "rows", table.Len(), "join", settings.Join)

	filterConfig := &filter.Config{TopN: topN, Cutoff: cutoff, HideNaN: hideNaN}
	if filterConfig.Active() {
		table = filterConfig.Comparison(table)
	}

	if err := text.NewWriter(os.Stdout, digits, false).Comparison(table); err != nil {
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

	for _, sample := range samples {
		composed, err := pipe.Compose(sample, settings)
		if err != nil {
			return err
		}
		if err := writer.WriteComposition(composed); err != nil {
			return fmt.Errorf("failed to write composition of %s: %w", sample.Name, err)
		}
	}
	if err := writer.WriteComparison(table); err != nil {
		return fmt.Errorf("failed to write comparison: %w", err)
	}
	logger.Info("stored comparison", "out", outputFile, "run", writer.RunID())
	return writer.Close()
}
