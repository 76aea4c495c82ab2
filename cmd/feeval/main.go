package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"feeval/internal/config"
	"feeval/internal/evaluation"
	"feeval/internal/feedata"
	"feeval/internal/infrastructure"
	"feeval/internal/report"
)

func main() {
	feesFile := flag.String("fees", "", "fee estimates JSON file (defaults to config)")
	blocksFile := flag.String("blocks", "", "block data JSON file (defaults to config)")
	outputDir := flag.String("out", "", "directory for report files (defaults to config)")
	formats := flag.String("format", "", "comma-separated report formats: csv,json,xlsx (defaults to config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	logger := infrastructure.LoggerFromContext(ctx)

	// Flags override config
	if *feesFile != "" {
		cfg.Inputs.FeesFile = *feesFile
	}
	if *blocksFile != "" {
		cfg.Inputs.BlocksFile = *blocksFile
	}
	if *outputDir != "" {
		cfg.Reports.Dir = *outputDir
	}
	if *formats != "" {
		cfg.Reports.Formats = strings.Split(*formats, ",")
		if err := cfg.Validate(); err != nil {
			logger.Error("Invalid report formats", "formats", *formats, "error", err)
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "Loading input data",
		"fees_file", cfg.Inputs.FeesFile,
		"blocks_file", cfg.Inputs.BlocksFile)

	dataset, err := feedata.Load(ctx, cfg.Inputs.FeesFile, cfg.Inputs.BlocksFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load input data", "error", err)
		os.Exit(1)
	}

	if len(dataset.Blocks) == 0 {
		logger.ErrorContext(ctx, "No block data loaded",
			"blocks_file", cfg.Inputs.BlocksFile,
			"hint", "estimates cannot be evaluated without observed blocks")
		os.Exit(1)
	}

	evaluator := evaluation.NewEvaluator(cfg.Evaluation.SanityWindow, logger)
	result, err := evaluator.Evaluate(ctx, dataset)
	if err != nil {
		logger.ErrorContext(ctx, "Evaluation failed", "error", err)
		os.Exit(1)
	}

	if err := report.WriteSummary(os.Stdout, result); err != nil {
		logger.ErrorContext(ctx, "Failed to write summary", "error", err)
		os.Exit(1)
	}

	if err := writeReportFiles(ctx, cfg, result); err != nil {
		logger.ErrorContext(ctx, "Failed to write report files", "error", err)
		os.Exit(1)
	}
}

// writeReportFiles writes the configured report formats into the report
// directory, one timestamped file per format
func writeReportFiles(ctx context.Context, cfg *config.Config, result *evaluation.Result) error {
	if cfg.Reports.Dir == "" || len(cfg.Reports.Formats) == 0 {
		return nil
	}

	logger := infrastructure.LoggerFromContext(ctx)
	timestamp := time.Now().Format("20060102")

	for _, format := range cfg.Reports.Formats {
		outputPath := filepath.Join(cfg.Reports.Dir,
			fmt.Sprintf("fee_estimator_report_%s.%s", timestamp, format))

		var err error
		switch format {
		case "csv":
			err = report.SaveToCSV(result, outputPath)
		case "json":
			err = report.SaveToJSON(result, outputPath)
		case "xlsx":
			err = report.SaveToXLSX(result, outputPath)
		default:
			err = fmt.Errorf("unsupported report format: %s", format)
		}
		if err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}

		logger.InfoContext(ctx, "Report written",
			"format", format,
			"path", outputPath)
	}

	return nil
}
