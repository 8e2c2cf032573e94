package redact

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"pfs-obs/blackout/pkg/fiberconf"
)

// Result pairs a proposal ID with its redacted copy of the source record
// set. The copy is exclusively owned: it shares no memory with the source or
// with any other result, and is never mutated after Redact returns.
type Result struct {
	ProposalID string
	Config     *fiberconf.FiberConfig
}

// Summary reports per-proposal fiber counts after masking. It is delivered
// through the optional summary hook; nothing in the masking algorithm
// depends on it.
type Summary struct {
	ProposalID     string
	FibersTotal    int
	FibersMasked   int
	FibersUnmasked int

	// CatalogIDs are the distinct catalog IDs among the proposal's own
	// fibers. Diagnostic only.
	CatalogIDs []int32
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds the number of proposals processed concurrently.
// Defaults to GOMAXPROCS. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		} else {
			e.workers = 1
		}
	}
}

// WithSummaryHook registers a callback invoked once per proposal with its
// masking summary. The hook runs on the worker goroutine that produced the
// result and must be safe for concurrent invocation.
func WithSummaryHook(fn func(Summary)) Option {
	return func(e *Engine) {
		e.onSummary = fn
	}
}

// Engine produces proposal-scoped redacted copies of fiber configuration
// record sets. An Engine is immutable after construction and safe for
// concurrent use.
type Engine struct {
	policy    MaskingPolicy
	logger    *slog.Logger
	workers   int
	onSummary func(Summary)
}

// New creates an Engine with the given masking policy. The policy is
// validated up front; a *ConfigError is returned before any fiber would be
// processed.
func New(policy MaskingPolicy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		policy:  policy,
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Redact produces one redacted copy of source per distinct non-sentinel
// proposal ID, in proposal ID order. The source is read-only for the whole
// operation and is never aliased by the results.
//
// A source with no fibers, or whose fibers are all sentinel-proposal, yields
// an empty slice and no error. Shape defects in the source return an
// *InputError; a failed post-masking invariant check returns a
// *ConsistencyError and discards the whole batch.
func (e *Engine) Redact(ctx context.Context, source *fiberconf.FiberConfig) ([]Result, error) {
	if err := source.Validate(); err != nil {
		return nil, &InputError{Cause: err}
	}

	proposals := ProposalIDs(source)
	e.logger.Info("unique proposal IDs in the fiber configuration",
		"count", len(proposals),
		"proposal_ids", proposals,
	)
	if len(proposals) == 0 {
		return []Result{}, nil
	}

	workers := e.workers
	if workers > len(proposals) {
		workers = len(proposals)
	}

	jobs := make(chan string)
	results := make([]Result, 0, len(proposals))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for proposalID := range jobs {
				res, err := e.redactOne(source, proposalID)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				if res == nil {
					continue
				}
				mu.Lock()
				results = append(results, *res)
				mu.Unlock()
			}
		}()
	}

	// Feed proposals until done or a worker fails.
feed:
	for _, proposalID := range proposals {
		select {
		case jobs <- proposalID:
		case <-workerCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Output order must come from the proposal IDs, not worker completion.
	sort.Slice(results, func(i, j int) bool {
		return results[i].ProposalID < results[j].ProposalID
	})

	return results, nil
}

// redactOne builds the redacted copy for a single proposal. Returns
// (nil, nil) for the sentinel proposal, which the grouper should already
// have excluded.
func (e *Engine) redactOne(source *fiberconf.FiberConfig, proposalID string) (*Result, error) {
	if proposalID == fiberconf.ProposalSentinel {
		e.logger.Warn("ignoring the sentinel proposal ID", "proposal_id", proposalID)
		return nil, nil
	}

	e.logger.Info("processing proposal",
		"proposal_id", proposalID,
		"catalog_ids", catalogIDs(source, proposalID),
	)

	redacted := source.Clone()
	masked := 0
	for i := 0; i < source.NumFibers(); i++ {
		if !maskFiber(source, i, proposalID) {
			continue
		}
		e.maskRow(redacted, source, i)
		masked++
	}

	if err := checkConsistency(source, redacted, proposalID); err != nil {
		return nil, err
	}

	if e.onSummary != nil {
		e.onSummary(Summary{
			ProposalID:     proposalID,
			FibersTotal:    source.NumFibers(),
			FibersMasked:   masked,
			FibersUnmasked: source.NumFibers() - masked,
			CatalogIDs:     catalogIDs(source, proposalID),
		})
	}

	return &Result{ProposalID: proposalID, Config: redacted}, nil
}

// maskFiber is the masking predicate: fiber i of the source is masked in the
// copy for proposalID when it is owned by a different, real proposal and is
// a science fiber. Sentinel fibers and non-science fibers stay visible to
// every proposal; the requesting proposal's own fibers stay untouched.
func maskFiber(source *fiberconf.FiberConfig, i int, proposalID string) bool {
	return source.ProposalID[i] != fiberconf.ProposalSentinel &&
		source.ProposalID[i] != proposalID &&
		source.TargetType[i] == fiberconf.TargetScience
}

// maskRow overwrites fiber i of the copy per the policy. The object ID is
// derived from the source row before the catalog ID override lands.
func (e *Engine) maskRow(redacted, source *fiberconf.FiberConfig, i int) {
	switch e.policy.Strategy {
	case ObjIDNegateFiber:
		redacted.ObjID[i] = -int64(source.FiberID[i])
	default:
		// Salt presence was checked at construction time.
		id, _ := HashedObjID(e.policy.Salt, source.CatID[i], source.ObjID[i])
		redacted.ObjID[i] = id
	}

	ov := e.policy.Overrides
	redacted.CatID[i] = e.policy.CatIDOverride
	redacted.Tract[i] = ov.Tract
	redacted.Patch[i] = ov.Patch
	redacted.RA[i] = ov.RA
	redacted.Dec[i] = ov.Dec
	redacted.PMRA[i] = ov.PMRA
	redacted.PMDec[i] = ov.PMDec
	redacted.Parallax[i] = ov.Parallax
	redacted.ProposalID[i] = ov.ProposalID
	redacted.ObCode[i] = ov.ObCode
	redacted.PfiNominal[i] = ov.PfiNominal
	redacted.PfiCenter[i] = ov.PfiCenter
	redacted.TargetType[i] = ov.TargetType

	// Fill in place so each row keeps its band count.
	for _, f := range e.policy.FluxFields {
		row := f.column(redacted)[i]
		for j := range row {
			row[j] = e.policy.FluxFill
		}
	}
	for j := range redacted.FilterNames[i] {
		redacted.FilterNames[i][j] = e.policy.FilterFill
	}
}
