// arbitral-batch runs a full generation batch from the command line:
// pendência check, report, then one .docx filing per contract.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gondimadv/arbitral/internal/batch"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/extract"
	"github.com/gondimadv/arbitral/internal/office"
	"github.com/gondimadv/arbitral/internal/pending"
	"github.com/gondimadv/arbitral/internal/prints"
	"github.com/gondimadv/arbitral/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file      = flag.String("file", "", "contracts spreadsheet, .xlsx or .xls (required)")
		tpl       = flag.String("template", "", "petition template .docx (required unless -check-only)")
		contracts = flag.String("contratos", "", "comma-separated contract numbers (default: all)")
		checkOnly = flag.Bool("check-only", false, "only run the pendência check and write the report")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: -file is required\n")
		os.Exit(1)
	}
	if *tpl == "" && !*checkOnly {
		printError("Error: -template is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.SetupDirectories(); err != nil {
		logger.Error("failed to create storage layout", "error", err)
		os.Exit(1)
	}

	officeCfg, err := office.Load(cfg.Storage.OfficeConfig)
	if err != nil {
		logger.Error("failed to load office config", "error", err)
		os.Exit(1)
	}

	e, err := extract.Open(*file, officeCfg, logger)
	if err != nil {
		logger.Error("failed to read spreadsheet", "file", *file, "error", err)
		os.Exit(1)
	}

	printStore := prints.NewStore(cfg.Storage.PrintsDir, logger)

	// Pendência sweep before generating anything.
	checker := pending.NewChecker(printStore, logger)
	pendings := checker.CheckAll(e, filepath.Base(*file))
	if len(pendings) > 0 {
		report, err := batch.WriteReport(pendings, cfg.Storage.PendingDir)
		if err != nil {
			logger.Error("failed to write pendência report", "error", err)
			os.Exit(1)
		}
		logger.Warn("pendências found", "count", len(pendings), "report", report)
	} else {
		logger.Info("no pendências", "contracts", len(e.ContractNumbers()))
	}
	if *checkOnly {
		return
	}

	ctx := context.Background()
	db, err := repository.Open(ctx, cfg.Database.DSN, cfg.Database.DialTimeout, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	jobs, err := repository.NewJobRepository(ctx, db, logger)
	if err != nil {
		logger.Error("failed to prepare job store", "error", err)
		os.Exit(1)
	}

	processor := batch.NewProcessor(jobs, printStore, officeCfg, cfg.Storage.OutputsDir, logger,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithZipOutputs(cfg.Batch.ZipOutputs),
		batch.WithFilePrefix(cfg.Batch.ContractPrefix),
	)

	var numbers []string
	for _, part := range strings.Split(*contracts, ",") {
		if part = strings.TrimSpace(part); part != "" {
			numbers = append(numbers, part)
		}
	}

	job, err := processor.Process(ctx, e, *tpl, numbers)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"job_id", job.ID,
		"total", job.Total,
		"succeeded", job.Succeeded,
		"failed", job.Failed,
		"download", job.DownloadPath)
	fmt.Println(job.Message)
}
