package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/concurrency"
	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

type recordKey struct {
	playerID uuid.UUID
	jobKey   string
}

// JobRepository keeps job records in process memory.
// Read-modify-write on a single record is serialized with a per-key lock.
type JobRepository struct {
	mu      sync.RWMutex
	records map[recordKey]domain.JobRecord
	locks   *concurrency.LockManager
}

// NewJobRepository creates an empty JobRepository
func NewJobRepository() *JobRepository {
	return &JobRepository{
		records: make(map[recordKey]domain.JobRecord),
		locks:   concurrency.NewLockManager(),
	}
}

var _ repository.Job = (*JobRepository)(nil)

// GetJobRecords returns the player's records ordered by job key
func (r *JobRepository) GetJobRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []domain.JobRecord
	for k, rec := range r.records {
		if k.playerID == playerID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].JobKey < records[j].JobKey
	})
	return records, nil
}

// GetJobRecord returns a copy of the stored record or nil
func (r *JobRepository) GetJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recordKey{playerID, jobKey}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// CreateJobRecord inserts a new record or reactivates an existing one
func (r *JobRepository) CreateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, active bool, at time.Time) (*domain.JobRecord, error) {
	var result domain.JobRecord
	err := r.locks.WithLock(lockKey(playerID, jobKey), func() error {
		r.mu.Lock()
		defer r.mu.Unlock()

		key := recordKey{playerID, jobKey}
		rec, ok := r.records[key]
		if !ok {
			rec = domain.JobRecord{PlayerID: playerID, JobKey: jobKey}
		}
		rec.Active = active
		rec.LastUsed = at
		r.records[key] = rec
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateJobRecord applies fn under the record's lock
func (r *JobRepository) UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn repository.JobRecordMutator) (*domain.JobRecord, error) {
	var result domain.JobRecord
	err := r.locks.WithLock(lockKey(playerID, jobKey), func() error {
		key := recordKey{playerID, jobKey}

		r.mu.RLock()
		rec, ok := r.records[key]
		r.mu.RUnlock()
		if !ok {
			return domain.ErrJobRecordNotFound
		}

		if err := fn(&rec); err != nil {
			return err
		}
		rec.PlayerID, rec.JobKey = playerID, jobKey

		r.mu.Lock()
		r.records[key] = rec
		r.mu.Unlock()
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func lockKey(playerID uuid.UUID, jobKey string) string {
	return concurrency.Key(playerID.String(), jobKey)
}
