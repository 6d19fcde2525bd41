package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/utca/pkg/core"
	"github.com/ChrisMcGann/utca/pkg/reader/delimited"
	"github.com/ChrisMcGann/utca/pkg/reader/jsonsample"
)

// detectFormat returns the input format, auto-detecting from the extension
// when format is empty
func detectFormat(path, format string) (string, error) {
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".csv":
			format = "csv"
		case ".tsv", ".tab", ".txt":
			format = "tsv"
		case ".json":
			format = "json"
		default:
			return "", fmt.Errorf("cannot auto-detect format from extension '%s', please specify --format", ext)
		}
	}

	format = strings.ToLower(format)
	if format != "csv" && format != "tsv" && format != "json" {
		return "", fmt.Errorf("invalid input format '%s', must be csv, tsv, or json", format)
	}
	return format, nil
}

// loadSample reads and validates one sample file. The sample name defaults
// to the file base name without extension.
func loadSample(path, format, name string) (*core.Sample, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", path)
	}

	format, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var sample *core.Sample
	switch format {
	case "csv":
		sample, err = delimited.ReadSample(f, name, ',')
	case "tsv":
		sample, err = delimited.ReadSample(f, name, '\t')
	case "json":
		sample, err = jsonsample.Read(f, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := sample.Validate(); err != nil {
		logger.Warn("sample failed validation", "path", path, "error", err)
	}
	logger.Info("loaded sample", "name", sample.Name, "rows", sample.Len(), "format", format)

	return sample, nil
}
