// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/utca/pkg/config"
	"github.com/ChrisMcGann/utca/pkg/core"
	"github.com/ChrisMcGann/utca/pkg/pipeline"
)

var (
	// Global flags
	settingsFile string
	metricsFile  string
	groupSpecs   []string

	// State shared by all commands, set up in PersistentPreRunE
	v        = config.New()
	settings core.Settings
	pipe     *pipeline.Pipeline
	registry *prometheus.Registry
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "utca",
	Short: "UTCA - Ultimate TAG composition analysis",
	Long: `UTCA reconstructs the stereospecific triacylglycerol (TAG) composition of a
natural oil from chromatographic measurements of its TAG, sn-1,2/2,3 DAG and
sn-2 MAG fatty acid fractions.

Pipeline:
- Calculation: experimental, theoretical and calculated DAG/MAG columns
- Composition: Vander Wal enumeration grouped by ECN, mass, type, species
  or unsaturation at one or more nested levels
- Comparison: samples joined on their compositions with mean/std/var`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Debug("metrics written", "path", metricsFile)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(settingsCmd)

	d := core.DefaultSettings()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "Settings file (YAML, TOML or JSON)")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write cache metrics in Prometheus text format to this file")
	flags.String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	flags.String(config.KeyLogFormat, "text", "Log format: text or json")
	flags.Int(config.KeyCacheSize, 64, "Memoized outputs per pipeline stage")

	// Calculation
	flags.String(config.KeyFraction, d.Fraction.String(), "Input fraction: AsIs, ToMole, ToMass, Pchelkin")
	flags.String(config.KeyFrom, d.From.String(), "Theoretical column feeding DAG13: Dag1223 or Mag2")
	flags.String(config.KeySignedness, d.Signedness.String(), "Signed keeps negative theoretical values, Unsigned clips them at 0")

	// Composition
	flags.String(config.KeyAdduct, "0", "Adduct added to mass labels: a mass or H, NH4, Na, Li")
	flags.Uint32(config.KeyPrecision, d.Precision, "Decimal places of mass labels")
	flags.StringArrayVar(&groupSpecs, "group", nil, "Grouping level scope[:stereospecificity[:filter]], repeatable (e.g. ecn:none:0.01)")
	flags.String(config.KeySort, d.Sort.String(), "Sort axis: Key or Value")
	flags.String(config.KeyOrder, d.Order.String(), "Sort order: Ascending or Descending")

	// Comparison
	flags.String(config.KeyJoin, d.Join.String(), "Sample join: Left, And or Or")
	flags.Uint8(config.KeyDDOF, d.DDOF, "Delta degrees of freedom for Std and Var")

	for _, key := range []string{
		config.KeyLogLevel, config.KeyLogFormat, config.KeyCacheSize,
		config.KeyFraction, config.KeyFrom, config.KeySignedness,
		config.KeyAdduct, config.KeyPrecision, config.KeySort, config.KeyOrder,
		config.KeyJoin, config.KeyDDOF,
	} {
		v.BindPFlag(key, flags.Lookup(key))
	}
}

// setup loads settings, initializes logging and builds the pipeline
func setup(cmd *cobra.Command, args []string) error {
	if err := config.ReadFile(v, settingsFile); err != nil {
		return err
	}

	var err error
	logger, err = config.NewLogger(os.Stderr, v.GetString(config.KeyLogLevel), v.GetString(config.KeyLogFormat))
	if err != nil {
		return err
	}

	settings, err = config.NewSettings(v)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("group") {
		settings.Groups = settings.Groups[:0]
		for _, arg := range groupSpecs {
			g, err := core.ParseGroup(arg)
			if err != nil {
				return err
			}
			settings.Groups = append(settings.Groups, g)
		}
		if err := config.Validate(settings); err != nil {
			return err
		}
	}

	registry = prometheus.NewRegistry()
	pipe, err = pipeline.New(pipeline.Options{
		CacheSize: v.GetInt(config.KeyCacheSize),
		Registry:  registry,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	logger.Debug("settings loaded",
		"fraction", settings.Fraction,
		"from", settings.From,
		"signedness", settings.Signedness,
		"groups", len(settings.Groups),
	)
	return nil
}
