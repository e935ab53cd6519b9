// Command cleanse is the batch front end: it reads a table file, detects
// protected fields, applies a saved or auto-derived configuration, and writes
// the sanitized table.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/catalog"
	"github.com/raaihank/phi-cleanse/internal/config"
	"github.com/raaihank/phi-cleanse/internal/dataset"
	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/logger"
	"github.com/raaihank/phi-cleanse/internal/mapping"
	"github.com/raaihank/phi-cleanse/internal/processor"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		inputPath  = flag.String("input", "", "Input table file (.csv, .parquet, .json, .jsonl)")
		outputPath = flag.String("output", "", "Output table file (.csv, .json, .jsonl)")
		profile    = flag.String("profile", "", "Saved configuration name to apply")
		saveAs     = flag.String("save-profile", "", "Save the applied configuration under this name")
		detectOnly = flag.Bool("detect-only", false, "Report detected fields and exit without sanitizing")
		listOnly   = flag.Bool("list-profiles", false, "List saved configurations and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log, options{
		input:      *inputPath,
		output:     *outputPath,
		profile:    *profile,
		saveAs:     *saveAs,
		detectOnly: *detectOnly,
		listOnly:   *listOnly,
	}); err != nil {
		log.Error("Batch run failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	input      string
	output     string
	profile    string
	saveAs     string
	detectOnly bool
	listOnly   bool
}

func run(cfg *config.Config, log *logger.Logger, opts options) error {
	cat := catalog.Load(cfg.Engine.CatalogPath, log.WithComponent("catalog").Logger)
	detector := detect.New(cat, cfg.Engine.FuzzyThreshold, log.WithComponent("detect").Logger)
	store := mapping.NewFileStore(cfg.Mappings.Dir, log.WithComponent("mapping").Logger)

	proc := processor.New(
		detector,
		store,
		sanitize.Options{
			Logger:     log.WithComponent("sanitize").Logger,
			DatePolicy: sanitize.DatePolicy(cfg.Engine.UnparsableDates),
		},
		cfg.Engine.ConfigsDir,
		nil,
		log.WithComponent("processor").Logger,
	)

	if opts.listOnly {
		for _, name := range proc.ListConfigurations() {
			fmt.Println(name)
		}
		return nil
	}

	if opts.input == "" {
		return fmt.Errorf("-input is required")
	}

	table, err := dataset.Read(opts.input, log.WithComponent("dataset").Logger)
	if err != nil {
		return err
	}

	detected, err := proc.ProcessTable(table)
	if err != nil {
		return err
	}

	if opts.detectOnly {
		printDetected(detected)
		return nil
	}

	if opts.profile != "" {
		if err := proc.LoadConfiguration(opts.profile); err != nil {
			return err
		}
	} else {
		// No saved profile: sanitize every detected field with format
		// preservation and persistent mappings.
		columns := make([]string, 0, len(detected))
		for column := range detected {
			columns = append(columns, column)
		}
		sort.Strings(columns)
		for _, column := range columns {
			proc.ConfigureField(column, processor.FieldConfig{
				FieldType:         detected[column].FieldType,
				PreserveFormat:    true,
				ConsistentMapping: true,
			})
		}
	}

	if opts.saveAs != "" {
		if err := proc.SaveConfiguration(opts.saveAs); err != nil {
			return err
		}
	}

	sanitized, err := proc.SanitizeData()
	if err != nil {
		return err
	}

	if opts.output == "" {
		return fmt.Errorf("-output is required")
	}
	return dataset.Write(opts.output, sanitized, log.WithComponent("dataset").Logger)
}

func printDetected(detected map[string]detect.Result) {
	columns := make([]string, 0, len(detected))
	for column := range detected {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		result := detected[column]
		fmt.Printf("%-30s %-24s %.2f (%s)\n",
			column, result.FieldType, result.Confidence, result.MatchType)
	}
}
