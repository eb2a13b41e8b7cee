package fraud

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists check results in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed check result store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the fraud_checks table if it doesn't exist. The
// goose migration under migrations/ is the canonical schema; this is
// the fallback for deployments that skip the migration step.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS fraud_checks (
			id           VARCHAR(36) PRIMARY KEY,
			session_id   TEXT NOT NULL,
			fraud_score  INTEGER NOT NULL CHECK (fraud_score >= 0),
			flagged      BOOLEAN NOT NULL,
			reasons      JSONB NOT NULL DEFAULT '[]',
			checked_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_fraud_checks_session
			ON fraud_checks (session_id, checked_at DESC);

		CREATE INDEX IF NOT EXISTS idx_fraud_checks_flagged
			ON fraud_checks (checked_at DESC) WHERE flagged;
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, result *CheckResult) error {
	reasonsJSON, err := json.Marshal(result.Reasons)
	if err != nil {
		return fmt.Errorf("failed to marshal reasons: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fraud_checks (id, session_id, fraud_score, flagged, reasons, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		result.ID,
		result.SessionID,
		result.FraudScore,
		result.Flagged,
		reasonsJSON,
		result.CheckTimestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record fraud check: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]*CheckResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, fraud_score, flagged, reasons, checked_at
		FROM fraud_checks
		WHERE session_id = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list fraud checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*CheckResult
	for rows.Next() {
		var c CheckResult
		var reasonsJSON []byte
		var checkedAt time.Time

		if err := rows.Scan(&c.ID, &c.SessionID, &c.FraudScore, &c.Flagged, &reasonsJSON, &checkedAt); err != nil {
			continue
		}
		c.CheckTimestamp = checkedAt
		_ = json.Unmarshal(reasonsJSON, &c.Reasons)
		result = append(result, &c)
	}
	return result, rows.Err()
}
