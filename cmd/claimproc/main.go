// Command claimproc runs the claim pipeline over a set of documents and prints
// the result as JSON.
//
// Usage:
//
//	claimproc [flags] <file|dir|s3://bucket/key|s3://bucket/prefix/>...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"medclaim/internal/classifier"
	"medclaim/internal/config"
	"medclaim/internal/extractor"
	"medclaim/internal/fields"
	"medclaim/internal/llm"
	"medclaim/internal/llm/providers"
	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/report"
	"medclaim/internal/service"
	"medclaim/internal/source"
	s3storage "medclaim/internal/storage/s3"
	"medclaim/internal/validator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

type options struct {
	reportDir     string
	reportFormats []string
	claimName     string
	compact       bool
	refs          []string
}

func parseFlags(args []string) (*options, error) {
	fs := pflag.NewFlagSet("claimproc", pflag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.reportDir, "report-dir", "", "directory to write reports to (reports are skipped when empty)")
	fs.StringSliceVar(&opts.reportFormats, "report-format", []string{"csv"}, "report formats to write: csv, xlsx")
	fs.StringVar(&opts.claimName, "name", "claim", "claim name used in report filenames")
	fs.BoolVar(&opts.compact, "compact", false, "print JSON on a single line")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: claimproc [flags] <file|dir|s3://bucket/key>...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	for _, f := range opts.reportFormats {
		if f != "csv" && f != "xlsx" {
			return nil, fmt.Errorf("unknown report format %q", f)
		}
	}
	opts.refs = fs.Args()
	if len(opts.refs) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no documents given")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg, err := logger.New(
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths(cfg.Log.OutputPaths),
		logger.WithRotation(cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	// Initialize LLM backend
	providers.Register()
	backend, err := llm.NewFromConfig(&cfg.LLM, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM backend: %w", err)
	}
	if c, ok := backend.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				lg.Warn("llm.close_failed", logger.Err(err))
			}
		}()
	}

	// Initialize storage, only when a document lives in S3
	maxBytes := cfg.Extractor.MaxFileSizeBytes()
	var storage port.ObjectStorage
	if needsS3(opts.refs) {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3, maxBytes)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	docs, err := source.NewLoader(storage, maxBytes, lg).LoadAll(ctx, opts.refs)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	// Initialize pipeline
	svc := service.NewClaimService(
		extractor.New(maxBytes, lg),
		classifier.New(backend, cfg.Pipeline.ClassifierPrefixChars, lg),
		fields.NewBillExtractor(backend, lg),
		fields.NewDischargeSummaryExtractor(backend, lg),
		validator.NewEngine(validator.NewBuiltinRegistry(), lg),
		cfg.Pipeline.MaxConcurrency,
		lg,
	)

	resp, err := svc.ProcessClaim(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to process claim: %w", err)
	}

	enc := json.NewEncoder(stdout)
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if opts.reportDir == "" {
		return nil
	}
	if err := os.MkdirAll(opts.reportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	now := time.Now()
	for _, format := range opts.reportFormats {
		p := filepath.Join(opts.reportDir, report.BuildFilename(opts.claimName, format, now))
		if err := writeReport(p, format, resp); err != nil {
			return err
		}
		lg.Info("report.written", logger.String("path", p))
	}
	return nil
}

func needsS3(refs []string) bool {
	for _, r := range refs {
		if strings.HasPrefix(r, "s3://") {
			return true
		}
	}
	return false
}
