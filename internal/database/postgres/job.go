package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// JobRepository implements the job record repository for PostgreSQL
type JobRepository struct {
	db *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

var _ repository.Job = (*JobRepository)(nil)

// GetJobRecords retrieves every record of a player
func (r *JobRepository) GetJobRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error) {
	rows, err := r.db.Query(ctx, SQLSelectJobRecords, playerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryJobRecords, err)
	}
	defer rows.Close()

	var records []domain.JobRecord
	for rows.Next() {
		rec, err := scanJobRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanJobRecord, err)
		}
		records = append(records, *rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIterationError, err)
	}

	return records, nil
}

// GetJobRecord retrieves a single record, nil if the player never joined the job
func (r *JobRepository) GetJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error) {
	rec, err := scanJobRecord(r.db.QueryRow(ctx, SQLSelectJobRecord, playerID, jobKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetJobRecord, err)
	}
	return rec, nil
}

// CreateJobRecord inserts a record or reactivates the existing one
func (r *JobRepository) CreateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, active bool, at time.Time) (*domain.JobRecord, error) {
	rec, err := scanJobRecord(r.db.QueryRow(ctx, SQLUpsertJobRecord, playerID, jobKey, active, at))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateJobRecord, err)
	}
	return rec, nil
}

// UpdateJobRecord locks the row, applies fn and writes the result in one transaction
func (r *JobRepository) UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn repository.JobRecordMutator) (*domain.JobRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	rec, err := scanJobRecord(tx.QueryRow(ctx, SQLSelectJobRecordForUpdate, playerID, jobKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetJobRecord, err)
	}

	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.PlayerID, rec.JobKey = playerID, jobKey

	if _, err := tx.Exec(ctx, SQLUpdateJobRecord, playerID, jobKey, rec.Active, rec.Experience, rec.LastUsed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateJobRecord, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return rec, nil
}
