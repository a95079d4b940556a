package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PickariaJobs_Go/internal/cooldown"
	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetJobRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobRecord), args.Error(1)
}

func (m *MockRepository) GetJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error) {
	args := m.Called(ctx, playerID, jobKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobRecord), args.Error(1)
}

func (m *MockRepository) CreateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, active bool, at time.Time) (*domain.JobRecord, error) {
	args := m.Called(ctx, playerID, jobKey, active, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobRecord), args.Error(1)
}

// UpdateJobRecord applies fn to the record configured in the expectation
func (m *MockRepository) UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn repository.JobRecordMutator) (*domain.JobRecord, error) {
	args := m.Called(ctx, playerID, jobKey, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	rec := *args.Get(0).(*domain.JobRecord)
	if err := fn(&rec); err != nil {
		return nil, err
	}
	return &rec, args.Error(1)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) Types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]event.Type, 0, len(p.events))
	for _, evt := range p.events {
		types = append(types, evt.Type)
	}
	return types
}

// recordingPresenter captures Show and Release calls
type recordingPresenter struct {
	mu       sync.Mutex
	titles   []string
	progress []float64
	released []uuid.UUID
}

func (p *recordingPresenter) Session(playerID uuid.UUID) uint64 {
	return 0
}

func (p *recordingPresenter) ShowSession(playerID uuid.UUID, session uint64, title string, progress float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.titles = append(p.titles, title)
	p.progress = append(p.progress, progress)
	return true
}

func (p *recordingPresenter) Release(playerID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = append(p.released, playerID)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() *domain.JobCatalog {
	return &domain.JobCatalog{
		MaxLevel:      5,
		CooldownHours: 24,
		Jobs:          []domain.JobConfig{doublingConfig, exampleConfig},
	}
}

func newMockedService(repo *MockRepository) (*service, *recordingPublisher, *recordingPresenter) {
	pub := &recordingPublisher{}
	pres := &recordingPresenter{}
	svc := NewService(repo, testCatalog(), pres, pub, WithClock(func() time.Time { return fixedNow })).(*service)
	return svc, pub, pres
}

func TestHasJob(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	tests := []struct {
		name    string
		records []domain.JobRecord
		jobKey  string
		want    bool
	}{
		{"no records", nil, "miner", false},
		{"active", []domain.JobRecord{{PlayerID: playerID, JobKey: "miner", Active: true}}, "miner", true},
		{"inactive", []domain.JobRecord{{PlayerID: playerID, JobKey: "miner", Active: false}}, "miner", false},
		{"other job", []domain.JobRecord{{PlayerID: playerID, JobKey: "hunter", Active: true}}, "miner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetJobRecords", ctx, playerID).Return(tt.records, nil)
			svc, _, _ := newMockedService(repo)

			got, err := svc.HasJob(ctx, playerID, tt.jobKey)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestHasJob_RepositoryError(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetJobRecords", ctx, playerID).Return(nil, errors.New("connection refused"))
	svc, _, _ := newMockedService(repo)

	_, err := svc.HasJob(ctx, playerID, "miner")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToLoadRecords)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestJobCount(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetJobRecords", ctx, playerID).Return([]domain.JobRecord{
		{JobKey: "miner", Active: true},
		{JobKey: "hunter", Active: false},
		{JobKey: "farmer", Active: true},
	}, nil)
	svc, _, _ := newMockedService(repo)

	count, err := svc.JobCount(ctx, playerID)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetCooldownMinutes(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	tests := []struct {
		name    string
		records []domain.JobRecord
		want    int
	}{
		{"no record", nil, 0},
		{"inactive record", []domain.JobRecord{{JobKey: "miner", Active: false, LastUsed: fixedNow}}, 0},
		{"joined now", []domain.JobRecord{{JobKey: "miner", Active: true, LastUsed: fixedNow}}, 1440},
		{"joined 10h30m ago", []domain.JobRecord{{JobKey: "miner", Active: true, LastUsed: fixedNow.Add(-10*time.Hour - 30*time.Minute)}}, 810},
		{"window passed", []domain.JobRecord{{JobKey: "miner", Active: true, LastUsed: fixedNow.Add(-25 * time.Hour)}}, -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetJobRecords", ctx, playerID).Return(tt.records, nil)
			svc, _, _ := newMockedService(repo)

			got, err := svc.GetCooldownMinutes(ctx, playerID, "miner")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckJobCooldown(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	t.Run("on cooldown", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetJobRecords", ctx, playerID).Return([]domain.JobRecord{
			{JobKey: "miner", Active: true, LastUsed: fixedNow.Add(-time.Hour)},
		}, nil)
		svc, _, _ := newMockedService(repo)

		err := svc.CheckJobCooldown(ctx, playerID, "miner")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrOnCooldown)
		var cdErr cooldown.ErrOnCooldown
		require.ErrorAs(t, err, &cdErr)
		assert.Equal(t, 23*time.Hour, cdErr.Remaining)
		assert.Contains(t, err.Error(), "change your miner job")
	})

	t.Run("window passed", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetJobRecords", ctx, playerID).Return([]domain.JobRecord{
			{JobKey: "miner", Active: true, LastUsed: fixedNow.Add(-48 * time.Hour)},
		}, nil)
		svc, _, _ := newMockedService(repo)

		assert.NoError(t, svc.CheckJobCooldown(ctx, playerID, "miner"))
	})

	t.Run("not enrolled", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetJobRecords", ctx, playerID).Return(nil, nil)
		svc, _, _ := newMockedService(repo)

		assert.NoError(t, svc.CheckJobCooldown(ctx, playerID, "miner"))
	})
}

func TestJoinJob(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	t.Run("creates missing record", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, domain.ErrJobRecordNotFound)
		repo.On("CreateJobRecord", ctx, playerID, "miner", true, fixedNow).
			Return(&domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: true, LastUsed: fixedNow}, nil)
		svc, pub, _ := newMockedService(repo)

		require.NoError(t, svc.JoinJob(ctx, playerID, "miner"))

		repo.AssertExpectations(t)
		assert.Equal(t, []event.Type{event.JobJoined}, pub.Types())
	})

	t.Run("reactivates existing record", func(t *testing.T) {
		existing := &domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: false, Experience: 500, LastUsed: fixedNow.Add(-72 * time.Hour)}
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(existing, nil)
		svc, _, _ := newMockedService(repo)

		require.NoError(t, svc.JoinJob(ctx, playerID, "miner"))

		repo.AssertNotCalled(t, "CreateJobRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown job", func(t *testing.T) {
		repo := new(MockRepository)
		svc, pub, _ := newMockedService(repo)

		err := svc.JoinJob(ctx, playerID, "astronaut")

		assert.ErrorIs(t, err, domain.ErrUnknownJob)
		repo.AssertNotCalled(t, "UpdateJobRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, pub.Types())
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, errors.New("disk full"))
		svc, pub, _ := newMockedService(repo)

		err := svc.JoinJob(ctx, playerID, "miner")

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedToJoinJob)
		assert.Empty(t, pub.Types(), "no event for a failed join")
	})
}

func TestLeaveJob(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	t.Run("deactivates", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).
			Return(&domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: true, Experience: 42}, nil)
		svc, pub, _ := newMockedService(repo)

		require.NoError(t, svc.LeaveJob(ctx, playerID, "miner"))
		assert.Equal(t, []event.Type{event.JobLeft}, pub.Types())
	})

	t.Run("never joined is a silent no-op", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, domain.ErrJobRecordNotFound)
		svc, pub, _ := newMockedService(repo)

		assert.NoError(t, svc.LeaveJob(ctx, playerID, "miner"))
		assert.Empty(t, pub.Types())
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, errors.New("timeout"))
		svc, _, _ := newMockedService(repo)

		err := svc.LeaveJob(ctx, playerID, "miner")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedToLeaveJob)
	})
}

func TestAwardExperience(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	tests := []struct {
		name       string
		experience int64
		amount     int
		want       domain.LevelOutcome
		wantEvents []event.Type
	}{
		{"zero amount", 150, 0, domain.LevelOutcomeNoChange, nil},
		{"within band", 150, 50, domain.LevelOutcomeNoChange, []event.Type{event.JobXPAwarded}},
		{"crosses one level", 150, 100, domain.LevelOutcomeLeveledUp, []event.Type{event.JobXPAwarded, event.JobLevelUp}},
		{"skips levels", 0, 900, domain.LevelOutcomeLeveledUp, []event.Type{event.JobXPAwarded, event.JobLevelUp}},
		{"reaches max", 1600, 100, domain.LevelOutcomeMaxLevelReached, []event.Type{event.JobXPAwarded, event.JobMaxLevel}},
		{"already max", 5000, 100, domain.LevelOutcomeNoChange, []event.Type{event.JobXPAwarded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).
				Return(&domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: true, Experience: tt.experience}, nil)
			svc, pub, _ := newMockedService(repo)

			outcome, err := svc.AwardExperience(ctx, playerID, doublingConfig, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			if tt.wantEvents == nil {
				assert.Empty(t, pub.Types())
			} else {
				assert.Equal(t, tt.wantEvents, pub.Types())
			}
		})
	}
}

func TestAwardExperience_NoRecord(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, domain.ErrJobRecordNotFound)
	svc, pub, pres := newMockedService(repo)

	outcome, err := svc.AwardExperience(ctx, playerID, doublingConfig, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelOutcomeNoChange, outcome)

	view, err := svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 500)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.False(t, view.Enrolled)
	assert.Equal(t, domain.LevelOutcomeNoChange, view.Outcome)
	assert.Equal(t, int64(0), view.Experience)
	assert.Equal(t, 0, view.Level)

	assert.Empty(t, pub.Types())
	assert.Equal(t, []string{"Miner | Level 0 (0 / 100)"}, pres.titles, "non-members still see their progress")
}

func TestAwardExperience_NegativeAmount(t *testing.T) {
	repo := new(MockRepository)
	svc, _, _ := newMockedService(repo)

	outcome, err := svc.AwardExperience(context.Background(), uuid.New(), doublingConfig, -1)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.LevelOutcomeNoChange, outcome)
	repo.AssertNotCalled(t, "UpdateJobRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAwardExperience_RepositoryError(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).Return(nil, errors.New("deadlock detected"))
	svc, _, _ := newMockedService(repo)

	_, err := svc.AwardExperience(ctx, playerID, doublingConfig, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToAwardXP)
}

func TestAwardExperienceAndPresent(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).
		Return(&domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: true, Experience: 200}, nil)
	svc, _, pres := newMockedService(repo)

	view, err := svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 65)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, int64(265), view.Experience)
	assert.Equal(t, 2, view.Level)
	assert.Equal(t, int64(210), view.LevelFloor)
	assert.Equal(t, int64(420), view.NextLevelExperience)
	assert.InDelta(t, 55.0/210.0, view.Progress, 1e-9)
	assert.Equal(t, domain.LevelOutcomeLeveledUp, view.Outcome)
	assert.True(t, view.Enrolled)

	require.Len(t, pres.titles, 1)
	assert.Equal(t, "Miner | Level 2 (265 / 420)", pres.titles[0])
	assert.InDelta(t, view.Progress, pres.progress[0], 1e-9)
}

func TestGetPlayerJobs(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetJobRecords", ctx, playerID).Return([]domain.JobRecord{
		{PlayerID: playerID, JobKey: "miner", Active: true, Experience: 155, LastUsed: fixedNow.Add(-time.Hour)},
	}, nil)
	svc, _, _ := newMockedService(repo)

	infos, err := svc.GetPlayerJobs(ctx, playerID)

	require.NoError(t, err)
	require.Len(t, infos, 2)

	miner := infos[0]
	assert.Equal(t, "miner", miner.JobKey)
	assert.True(t, miner.Active)
	assert.True(t, miner.Enrolled)
	assert.Equal(t, 1380, miner.CooldownMinutes)
	assert.Equal(t, 1, miner.View.Level)
	assert.True(t, miner.View.Enrolled)

	hunter := infos[1]
	assert.Equal(t, "hunter", hunter.JobKey)
	assert.False(t, hunter.Enrolled)
	assert.Equal(t, 0, hunter.CooldownMinutes)
	assert.Equal(t, 0, hunter.View.Level)
}

func TestPlayerDisconnected(t *testing.T) {
	repo := new(MockRepository)
	svc, _, pres := newMockedService(repo)
	playerID := uuid.New()

	svc.PlayerDisconnected(context.Background(), playerID)

	assert.Equal(t, []uuid.UUID{playerID}, pres.released)
}

func TestNewService_NilCollaborators(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()
	repo := new(MockRepository)
	repo.On("UpdateJobRecord", ctx, playerID, "miner", mock.Anything).
		Return(&domain.JobRecord{PlayerID: playerID, JobKey: "miner", Active: true}, nil)

	svc := NewService(repo, testCatalog(), nil, nil)

	view, err := svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 250)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Level)
	svc.PlayerDisconnected(ctx, playerID)
}
