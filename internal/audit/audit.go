// Package audit records sanitization runs to PostgreSQL so that compliance
// reviews can answer what was de-identified, when, and how much. Only field
// names, categories, and counters are stored; cell values never leave the
// engine.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/config"
	"github.com/raaihank/phi-cleanse/internal/processor"
)

const schema = `
CREATE TABLE IF NOT EXISTS sanitization_runs (
	id           UUID PRIMARY KEY,
	started_at   TIMESTAMPTZ NOT NULL,
	duration_ms  BIGINT NOT NULL,
	columns      INT NOT NULL,
	row_count    INT NOT NULL,
	fields       JSONB NOT NULL,
	new_mappings INT NOT NULL,
	skipped      JSONB,
	failed       JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Recorder writes sanitization run records to the audit database
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder connects to the audit database and ensures the schema exists
func NewRecorder(cfg config.AuditConfig, logger *zap.Logger) (*Recorder, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	recorder := &Recorder{db: db, logger: logger}
	if err := recorder.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	logger.Info("Audit recorder initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns))

	return recorder, nil
}

// NewRecorderFromDB wraps an existing database handle; used by tests
func NewRecorderFromDB(db *sql.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: sqlx.NewDb(db, "postgres"), logger: logger}
}

// initialize checks the connection and creates the runs table if missing
func (r *Recorder) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("audit database ping failed: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure audit schema: %w", err)
	}

	return nil
}

// Record inserts one sanitization run
func (r *Recorder) Record(ctx context.Context, summary processor.RunSummary) error {
	fields, err := json.Marshal(summary.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode run fields: %w", err)
	}
	skipped, err := json.Marshal(summary.Skipped)
	if err != nil {
		return fmt.Errorf("failed to encode skipped fields: %w", err)
	}
	failed, err := json.Marshal(summary.Failed)
	if err != nil {
		return fmt.Errorf("failed to encode failed fields: %w", err)
	}

	query := `
		INSERT INTO sanitization_runs
			(id, started_at, duration_ms, columns, row_count, fields, new_mappings, skipped, failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		summary.RunID,
		summary.StartedAt,
		summary.Duration.Milliseconds(),
		summary.Columns,
		summary.Rows,
		fields,
		summary.NewMappings,
		skipped,
		failed,
	)
	if err != nil {
		r.logger.Error("Failed to record sanitization run",
			zap.Error(err),
			zap.String("run_id", summary.RunID))
		return fmt.Errorf("failed to record sanitization run: %w", err)
	}

	r.logger.Debug("Recorded sanitization run",
		zap.String("run_id", summary.RunID),
		zap.Int("fields", len(summary.Fields)))
	return nil
}

// Close releases the database connection
func (r *Recorder) Close() error {
	return r.db.Close()
}
