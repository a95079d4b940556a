package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// scanJobRecord reads the standard job record column list
func scanJobRecord(row pgx.Row) (*domain.JobRecord, error) {
	var rec domain.JobRecord
	if err := row.Scan(&rec.PlayerID, &rec.JobKey, &rec.Active, &rec.Experience, &rec.LastUsed); err != nil {
		return nil, err
	}
	return &rec, nil
}
