package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"boutique/internal/archive"
	"boutique/internal/config"
	"boutique/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		outDir   = flag.String("out", "archive", "local directory for export artifacts")
		s3Bucket = flag.String("s3-bucket", "", "S3 bucket for export artifacts (local directory used when empty)")
		region   = flag.String("region", "us-east-1", "AWS region for the S3 bucket")
		timeout  = flag.Duration("timeout", 10*time.Minute, "overall export timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting order archive export")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	var uploader archive.Uploader
	if *s3Bucket != "" {
		uploader, err = archive.NewS3Uploader(ctx, *s3Bucket, *region, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 uploader: %w", err)
		}
	} else {
		uploader = archive.NewFileUploader(*outDir, logger)
	}

	exporter := archive.NewExporter(client.Database(cfg.Mongo.Database), logger)

	var snapshot bytes.Buffer
	report, err := exporter.Export(ctx, &snapshot)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	stamp := report.GeneratedAt.Format("20060102-150405")
	snapshotKey := fmt.Sprintf("orders/orders-%s.jsonl.gz", stamp)
	if err := uploader.Upload(ctx, snapshotKey, &snapshot); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	reportBody, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	reportKey := fmt.Sprintf("orders/report-%s.json", stamp)
	if err := uploader.Upload(ctx, reportKey, bytes.NewReader(reportBody)); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	for _, d := range report.Discrepancies {
		logger.Warn().
			Str("order_id", d.OrderID).
			Float64("stored_total", d.StoredTotal).
			Float64("computed_total", d.ComputedTotal).
			Msg("order total does not match line items")
	}

	logger.Info().
		Int("orders", report.Orders).
		Int("items", report.Items).
		Int("discrepancies", len(report.Discrepancies)).
		Str("snapshot", snapshotKey).
		Str("report", reportKey).
		Msg("archive export completed")

	return nil
}
