package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
)

// JobRecordMutator edits a record in place inside UpdateJobRecord.
// Returning an error aborts the update.
type JobRecordMutator func(record *domain.JobRecord) error

// Job defines the data access interface for job records
type Job interface {
	// GetJobRecords returns every record of a player, active or not
	GetJobRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error)

	// GetJobRecord returns nil, nil when the player never joined the job
	GetJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error)

	// CreateJobRecord inserts a record with zero experience and LastUsed=at.
	// If the record already exists it is reactivated with LastUsed=at and its experience is kept.
	CreateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, active bool, at time.Time) (*domain.JobRecord, error)

	// UpdateJobRecord runs fn against the stored record and persists the result atomically.
	// Calls for the same (playerID, jobKey) are serialized.
	// Returns domain.ErrJobRecordNotFound when no record exists.
	UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn JobRecordMutator) (*domain.JobRecord, error)
}
