package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"pfs-obs/blackout/pkg/audit"
	"pfs-obs/blackout/pkg/config"
	"pfs-obs/blackout/pkg/fiberconf"
	"pfs-obs/blackout/pkg/redact"
	"pfs-obs/blackout/pkg/telemetry/logging"
	"pfs-obs/blackout/pkg/telemetry/metrics"
)

// newLogger builds the structured logger from configuration.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
}

// pipeline ties the pieces together: load a fiber configuration, run the
// redaction engine, write one output per proposal, and record the run in the
// audit trail. It is shared by the run and watch commands.
type pipeline struct {
	cfg       *config.Config
	policy    redact.MaskingPolicy
	logger    *slog.Logger
	collector *metrics.Collector
	store     *audit.Store // nil when auditing is disabled
}

// newPipeline builds the pipeline from configuration. The masking policy is
// validated here, before any input is touched.
func newPipeline(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, store *audit.Store) (*pipeline, error) {
	policy, err := cfg.Masking.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid masking configuration: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:       cfg,
		policy:    policy,
		logger:    logger,
		collector: collector,
		store:     store,
	}, nil
}

// processFile redacts one fiber configuration file and persists every
// proposal-scoped output. It returns the written file names.
func (p *pipeline) processFile(ctx context.Context, path string) ([]string, error) {
	inputName := filepath.Base(path)
	logger := p.logger.With("input", inputName)

	source, err := fiberconf.LoadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("fiber configuration loaded",
		"design_id", fmt.Sprintf("0x%016x", source.Header.DesignID),
		"frame_id", source.Header.FrameID,
		"fibers", source.NumFibers(),
	)

	// Per-proposal summaries arrive on worker goroutines.
	var (
		summaryMu sync.Mutex
		summaries = make(map[string]redact.Summary)
	)

	opts := []redact.Option{
		redact.WithLogger(logger),
		redact.WithSummaryHook(func(s redact.Summary) {
			p.collector.Redaction().RecordProposal(s.FibersMasked, s.FibersUnmasked)
			summaryMu.Lock()
			summaries[s.ProposalID] = s
			summaryMu.Unlock()
		}),
	}
	if p.cfg.Workers > 0 {
		opts = append(opts, redact.WithWorkers(p.cfg.Workers))
	}

	engine, err := redact.New(p.policy, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := engine.Redact(ctx, source)
	p.collector.Redaction().RecordRun(time.Since(start), err)
	if err != nil {
		var cerr *redact.ConsistencyError
		if errors.As(err, &cerr) {
			p.collector.Redaction().RecordConsistencyFailure()
		}
		return nil, err
	}

	if len(results) == 0 {
		logger.Info("no proposals to redact, nothing written")
		return nil, nil
	}

	runID := audit.NewRunID()
	written := make([]string, 0, len(results))
	for _, res := range results {
		outName := fiberconf.OutputName(inputName, res.ProposalID)
		outPath := filepath.Join(p.cfg.Output.Dir, outName)

		if err := fiberconf.WriteFile(res.Config, outPath); err != nil {
			return written, err
		}
		written = append(written, outName)

		logger.Info("redacted copy written",
			"proposal_id", res.ProposalID,
			"output", outName,
		)

		if p.store != nil {
			if err := p.saveAuditRecord(ctx, runID, source, res, outName, summaries); err != nil {
				// Outputs are already on disk; a broken audit trail is
				// reported but does not undo the run.
				logger.Error("failed to store audit record",
					"proposal_id", res.ProposalID,
					"error", err,
				)
			}
		}
	}

	return written, nil
}

// saveAuditRecord stores one audit record for a proposal output.
func (p *pipeline) saveAuditRecord(ctx context.Context, runID string, source *fiberconf.FiberConfig, res redact.Result, outName string, summaries map[string]redact.Summary) error {
	hash, err := audit.HashConfig(res.Config)
	if err != nil {
		return err
	}

	s := summaries[res.ProposalID]
	return p.store.Save(ctx, &audit.Record{
		RunID:          runID,
		DesignID:       source.Header.DesignID,
		FrameID:        source.Header.FrameID,
		ProposalID:     res.ProposalID,
		FibersTotal:    s.FibersTotal,
		FibersMasked:   s.FibersMasked,
		FibersUnmasked: s.FibersUnmasked,
		OutputFile:     outName,
		OutputHash:     hash,
	})
}

// setupOverrides carries command-line overrides into setup, so the
// precedence is flag > environment > file > defaults.
var setupOverrides struct {
	inputDir  string
	outputDir string
	salt      string
}

// setup loads configuration, initializes logging, metrics, and the audit
// store, and builds the pipeline. The returned cleanup closes the store.
func setup() (*pipeline, func(), error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if setupOverrides.inputDir != "" {
		cfg.Input.Dir = setupOverrides.inputDir
	}
	if setupOverrides.outputDir != "" {
		cfg.Output.Dir = setupOverrides.outputDir
	}
	if setupOverrides.salt != "" {
		cfg.Masking.Salt = setupOverrides.salt
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	collector := metrics.NewCollector(nil, nil)

	var store *audit.Store
	cleanup := func() {}
	if cfg.AuditEnabled() {
		store, err = audit.NewStore(&audit.Config{
			Path:        cfg.Audit.Path,
			WALMode:     true,
			BusyTimeout: cfg.Audit.BusyTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close audit store", "error", err)
			}
		}
	}

	p, err := newPipeline(cfg, logger, collector, store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}
