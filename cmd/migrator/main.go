package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kuhlman-labs/descope-migrator/internal/auth0"
	"github.com/kuhlman-labs/descope-migrator/internal/config"
	"github.com/kuhlman-labs/descope-migrator/internal/descope"
	"github.com/kuhlman-labs/descope-migrator/internal/logging"
	"github.com/kuhlman-labs/descope-migrator/internal/migration"
	"github.com/kuhlman-labs/descope-migrator/internal/restapi"
	"github.com/kuhlman-labs/descope-migrator/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "fetch and count source data without writing anything")
	configPath := flag.String("config", "", "path to config file (default: search working directory)")
	reportFile := flag.String("report-file", "", "write the full run report to this file as YAML")
	flag.Parse()

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logger := logging.NewLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, cfg, *dryRun, logger)
	if err != nil {
		slog.Error("Migration failed to start", "error", err)
		os.Exit(1)
	}

	printReport(os.Stdout, report)

	if cfg.Database.Enabled {
		if err := persistReport(ctx, cfg, report); err != nil {
			slog.Error("Failed to persist run to audit store", "error", err)
		}
	}

	if *reportFile != "" {
		if err := writeReportFile(*reportFile, report); err != nil {
			slog.Error("Failed to write report file", "path", *reportFile, "error", err)
		}
	}

	if report.FailureCount() > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) (*migration.Report, error) {
	rest := restapi.NewClient(restapi.RetryConfig{
		MaxAttempts: cfg.Migration.MaxAttempts,
		BackoffUnit: time.Second,
	}, logger)

	source, err := auth0.NewClient(auth0.ClientConfig{
		TenantID: cfg.Auth0.TenantID,
		Token:    cfg.Auth0.Token,
		BaseURL:  cfg.Auth0.BaseURL,
		PageSize: cfg.Migration.PageSize,
	}, rest, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create source client: %w", err)
	}

	target, err := descope.NewClient(descope.ClientConfig{
		ProjectID:     cfg.Descope.ProjectID,
		ManagementKey: cfg.Descope.ManagementKey,
		BaseURL:       cfg.Descope.BaseURL,
	}, rest, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create target client: %w", err)
	}

	return migration.NewMigrator(source, target, dryRun, logger).Run(ctx), nil
}

func persistReport(ctx context.Context, cfg *config.Config, report *migration.Report) error {
	db, err := storage.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	run, items := storage.RunFromReport(report)
	if err := db.SaveRun(ctx, run, items); err != nil {
		return err
	}
	slog.Info("Run saved to audit store", "run_id", run.ID, "items", len(items))
	return nil
}

func writeReportFile(path string, report *migration.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	slog.Info("Report written", "path", path)
	return nil
}
