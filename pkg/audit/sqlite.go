package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// schema is the audit table definition. Applied idempotently on open.
const schema = `
CREATE TABLE IF NOT EXISTS redaction_records (
    id              TEXT PRIMARY KEY,
    run_id          TEXT NOT NULL,
    design_id       TEXT NOT NULL,
    frame_id        TEXT NOT NULL,
    proposal_id     TEXT NOT NULL,
    fibers_total    INTEGER NOT NULL,
    fibers_masked   INTEGER NOT NULL,
    fibers_unmasked INTEGER NOT NULL,
    output_file     TEXT NOT NULL,
    output_hash     TEXT NOT NULL,
    created_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_redaction_records_run_id
    ON redaction_records(run_id);
CREATE INDEX IF NOT EXISTS idx_redaction_records_design_id
    ON redaction_records(design_id);
CREATE INDEX IF NOT EXISTS idx_redaction_records_proposal_id
    ON redaction_records(proposal_id);
`

// Config contains configuration for the SQLite audit store.
type Config struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true.
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultConfig returns the default audit store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:        "data/audit.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// Store persists redaction audit records in SQLite.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// NewStore opens (creating if necessary) the audit database at the
// configured path and applies the schema.
func NewStore(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := slog.Default().With("component", "audit.store")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, newStorageError("open", err)
	}

	s := &Store{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and pragmas.
func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if busyTimeoutMs > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
			return newStorageError("set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(schema); err != nil {
		return newStorageError("create_schema", err)
	}

	return nil
}

// NewRunID returns a fresh run identifier shared by all records of one
// redaction run.
func NewRunID() string {
	return uuid.New().String()
}

// Save writes one audit record. A missing ID or CreatedAt is filled in.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	// design_id is stored as the conventional hex string so operators can
	// grep for the same token they see in file names.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO redaction_records (
			id, run_id, design_id, frame_id, proposal_id,
			fibers_total, fibers_masked, fibers_unmasked,
			output_file, output_hash, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RunID,
		fmt.Sprintf("0x%016x", rec.DesignID),
		rec.FrameID,
		rec.ProposalID,
		rec.FibersTotal,
		rec.FibersMasked,
		rec.FibersUnmasked,
		rec.OutputFile,
		rec.OutputHash,
		rec.CreatedAt,
	)
	if err != nil {
		return newStorageError("store", err)
	}

	s.logger.Debug("audit record stored",
		"record_id", rec.ID,
		"run_id", rec.RunID,
		"proposal_id", rec.ProposalID,
	)

	return nil
}

// CountByRun returns the number of records stored for a run.
func (s *Store) CountByRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM redaction_records WHERE run_id = ?`, runID,
	).Scan(&n)
	if err != nil {
		return 0, newStorageError("query", err)
	}
	return n, nil
}

// ListByRun returns the records stored for a run, ordered by proposal ID.
func (s *Store) ListByRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, design_id, frame_id, proposal_id,
		       fibers_total, fibers_masked, fibers_unmasked,
		       output_file, output_hash, created_at
		FROM redaction_records
		WHERE run_id = ?
		ORDER BY proposal_id`, runID)
	if err != nil {
		return nil, newStorageError("query", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			designID string
		)
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &designID, &rec.FrameID, &rec.ProposalID,
			&rec.FibersTotal, &rec.FibersMasked, &rec.FibersUnmasked,
			&rec.OutputFile, &rec.OutputHash, &rec.CreatedAt,
		); err != nil {
			return nil, newStorageError("scan", err)
		}
		if _, err := fmt.Sscanf(designID, "0x%x", &rec.DesignID); err != nil {
			return nil, newStorageError("scan", fmt.Errorf("bad design_id %q: %w", designID, err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("query", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return newStorageError("close", err)
	}
	return nil
}
