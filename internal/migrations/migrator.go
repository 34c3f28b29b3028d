package migrations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// migration is one ordered schema step. Tolerant steps swallow
// "already exists" failures so legacy databases upgraded by hand do not
// break startup (the old initializer ALTERed live tables the same way).
type migration struct {
	version    string
	statements []string
	tolerant   bool
}

// Migrator applies pending schema migrations on startup.
type Migrator struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMigrator constructs a migrator.
func NewMigrator(db *sqlx.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger}
}

// Run ensures the bookkeeping table exists and applies unapplied migrations
// in order, each inside its own transaction.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	for _, mig := range schema {
		applied, err := m.isApplied(ctx, mig.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return fmt.Errorf("apply migration %s: %w", mig.version, err)
		}
		m.logger.Sugar().Infow("migration applied", "version", mig.version)
	}
	return nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) isApplied(ctx context.Context, version string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	var exists bool
	if err := m.db.GetContext(ctx, &exists, query, version); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func (m *Migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for i, stmt := range mig.statements {
		if mig.tolerant {
			// A failed statement aborts the whole transaction, so each
			// tolerant statement runs under its own savepoint and a
			// swallowed failure rolls back to it before continuing.
			sp := fmt.Sprintf("mig_stmt_%d", i)
			if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				if !isAlreadyExists(err) {
					return err
				}
				if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); err != nil {
					return err
				}
				m.logger.Sugar().Debugw("tolerated migration error", "version", mig.version, "error", err)
				continue
			}
			if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, mig.version, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// isAlreadyExists matches duplicate column/table/object errors.
func isAlreadyExists(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "42701", "42P07", "42710": // duplicate column / table / object
			return true
		}
	}
	return strings.Contains(err.Error(), "already exists")
}
