package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// JobRepository implements the job record repository on an embedded SQLite file.
// The database handle must be limited to one open connection (see database.OpenSQLite),
// which serializes the read-modify-write transactions of UpdateJobRecord.
type JobRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db, now: time.Now}
}

var _ repository.Job = (*JobRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobRecord(row rowScanner) (*domain.JobRecord, error) {
	var (
		rec      domain.JobRecord
		playerID string
		lastUsed string
	)
	if err := row.Scan(&playerID, &rec.JobKey, &rec.Active, &rec.Experience, &lastUsed); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(playerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", playerID, err)
	}
	rec.PlayerID = id

	rec.LastUsed, err = time.Parse(TimeFormat, lastUsed)
	if err != nil {
		return nil, fmt.Errorf("invalid last_used %q: %w", lastUsed, err)
	}
	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// GetJobRecords retrieves every record of a player
func (r *JobRepository) GetJobRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error) {
	rows, err := r.db.QueryContext(ctx, SQLSelectJobRecords, playerID.String())
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIterationError, err)
	}
	return records, nil
}

// GetJobRecord retrieves a single record, nil if absent
func (r *JobRepository) GetJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error) {
	rec, err := scanJobRecord(r.db.QueryRowContext(ctx, SQLSelectJobRecord, playerID.String(), jobKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetJobRecord, err)
	}
	return rec, nil
}

// CreateJobRecord inserts a record or reactivates the existing one
func (r *JobRepository) CreateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, active bool, at time.Time) (*domain.JobRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := formatTime(r.now())
	if _, err := tx.ExecContext(ctx, SQLUpsertJobRecord, playerID.String(), jobKey, active, formatTime(at), stamp, stamp); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateJobRecord, err)
	}

	rec, err := scanJobRecord(tx.QueryRowContext(ctx, SQLSelectJobRecord, playerID.String(), jobKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetJobRecord, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return rec, nil
}

// UpdateJobRecord applies fn to the stored record inside a transaction
func (r *JobRepository) UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn repository.JobRecordMutator) (*domain.JobRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanJobRecord(tx.QueryRowContext(ctx, SQLSelectJobRecord, playerID.String(), jobKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetJobRecord, err)
	}

	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.PlayerID, rec.JobKey = playerID, jobKey

	_, err = tx.ExecContext(ctx, SQLUpdateJobRecord,
		rec.Active, rec.Experience, formatTime(rec.LastUsed), formatTime(r.now()),
		playerID.String(), jobKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateJobRecord, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return rec, nil
}
