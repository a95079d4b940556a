package job

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PickariaJobs_Go/internal/database/memory"
	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/indicator"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// testClock is a settable clock shared with the service
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubIndicator struct {
	renders   int
	visible   bool
	destroyed bool
	title     string
}

func (i *stubIndicator) Render(title string, progress float64) {
	i.renders++
	i.title = title
}
func (i *stubIndicator) SetVisible(visible bool) { i.visible = visible }
func (i *stubIndicator) Destroy()                { i.destroyed = true }

type stubFactory struct {
	created []*stubIndicator
}

func (f *stubFactory) CreateIndicator(playerID uuid.UUID) indicator.Indicator {
	ind := &stubIndicator{}
	f.created = append(f.created, ind)
	return ind
}

// manualScheduler never fires on its own
type manualScheduler struct{}

type noopTask struct{}

func (noopTask) Cancel() {}

func (manualScheduler) AfterFunc(time.Duration, func()) indicator.Task { return noopTask{} }

type harness struct {
	svc     Service
	repo    *memory.JobRepository
	clock   *testClock
	pub     *recordingPublisher
	factory *stubFactory
	tracker *indicator.Tracker
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		repo:    memory.NewJobRepository(),
		clock:   &testClock{now: fixedNow},
		pub:     &recordingPublisher{},
		factory: &stubFactory{},
	}
	h.tracker = indicator.NewTracker(h.factory, manualScheduler{}, time.Second)
	t.Cleanup(h.tracker.Shutdown)

	opts = append([]Option{WithClock(h.clock.Now)}, opts...)
	h.svc = NewService(h.repo, testCatalog(), h.tracker, h.pub, opts...)
	return h
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	playerID := uuid.New()

	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	rec, err := h.repo.GetJobRecord(ctx, playerID, "miner")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Active)
	assert.Equal(t, int64(0), rec.Experience)
	assert.Equal(t, fixedNow, rec.LastUsed)

	has, err := h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.True(t, has)

	_, err = h.svc.AwardExperience(ctx, playerID, doublingConfig, 300)
	require.NoError(t, err)

	require.NoError(t, h.svc.LeaveJob(ctx, playerID, "miner"))
	has, err = h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.False(t, has)

	h.clock.Advance(48 * time.Hour)
	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	rec, err = h.repo.GetJobRecord(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.True(t, rec.Active)
	assert.Equal(t, int64(300), rec.Experience, "experience survives leave and rejoin")
	assert.Equal(t, fixedNow.Add(48*time.Hour), rec.LastUsed)

	assert.Equal(t, []event.Type{event.JobJoined, event.JobXPAwarded, event.JobLevelUp, event.JobLeft, event.JobJoined}, h.pub.Types())
}

func TestLeaveJob_NeverJoined(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	playerID := uuid.New()

	require.NoError(t, h.svc.LeaveJob(ctx, playerID, "miner"))

	rec, err := h.repo.GetJobRecord(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Nil(t, rec, "leaving must not create a record")
}

func TestJobCount_Integration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, WithReadCache(16, time.Minute))
	playerID := uuid.New()

	count, err := h.svc.JobCount(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))
	require.NoError(t, h.svc.JoinJob(ctx, playerID, "hunter"))
	count, err = h.svc.JobCount(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, h.svc.LeaveJob(ctx, playerID, "hunter"))
	count, err = h.svc.JobCount(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCooldown_Integration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, WithReadCache(16, time.Hour))
	playerID := uuid.New()

	minutes, err := h.svc.GetCooldownMinutes(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	minutes, err = h.svc.GetCooldownMinutes(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Equal(t, 24*60, minutes)
	assert.ErrorIs(t, h.svc.CheckJobCooldown(ctx, playerID, "miner"), domain.ErrOnCooldown)

	h.clock.Advance(23*time.Hour + 59*time.Minute + 30*time.Second)
	minutes, err = h.svc.GetCooldownMinutes(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes, "less than a minute left truncates to zero")
	assert.NoError(t, h.svc.CheckJobCooldown(ctx, playerID, "miner"))

	h.clock.Advance(2 * time.Hour)
	minutes, err = h.svc.GetCooldownMinutes(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Less(t, minutes, 0)

	require.NoError(t, h.svc.LeaveJob(ctx, playerID, "miner"))
	minutes, err = h.svc.GetCooldownMinutes(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes, "inactive jobs have no cooldown")
}

func TestAwardExperience_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("no record", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()

		view, err := h.svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 50)

		require.NoError(t, err)
		require.NotNil(t, view)
		assert.False(t, view.Enrolled)
		assert.Equal(t, domain.LevelOutcomeNoChange, view.Outcome)

		require.Len(t, h.factory.created, 1)
		assert.Equal(t, "Miner | Level 0 (0 / 100)", h.factory.created[0].title)
		assert.True(t, h.factory.created[0].visible)
		assert.Equal(t, 1, h.tracker.Active())

		rec, err := h.repo.GetJobRecord(ctx, playerID, "miner")
		require.NoError(t, err)
		assert.Nil(t, rec, "presenting does not enroll the player")
		assert.Empty(t, h.pub.Types())
	})

	t.Run("crosses first threshold", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		require.NoError(t, h.svc.JoinJob(ctx, playerID, "hunter"))

		outcome, err := h.svc.AwardExperience(ctx, playerID, exampleConfig, 95)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelOutcomeNoChange, outcome)

		view, err := h.svc.AwardExperienceAndPresent(ctx, playerID, exampleConfig, 10)
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, domain.LevelOutcomeLeveledUp, view.Outcome)
		assert.Equal(t, 1, view.Level)
		assert.Equal(t, int64(105), view.Experience)
		assert.Equal(t, int64(100), view.LevelFloor)
		assert.Equal(t, int64(130), view.NextLevelExperience)
	})

	t.Run("inactive record still earns", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))
		require.NoError(t, h.svc.LeaveJob(ctx, playerID, "miner"))

		outcome, err := h.svc.AwardExperience(ctx, playerID, doublingConfig, 150)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelOutcomeLeveledUp, outcome)
	})

	t.Run("max level reported once", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

		var maxReached int
		for i := 0; i < 40; i++ {
			outcome, err := h.svc.AwardExperience(ctx, playerID, doublingConfig, 100)
			require.NoError(t, err)
			if outcome == domain.LevelOutcomeMaxLevelReached {
				maxReached++
			}
		}
		assert.Equal(t, 1, maxReached)

		var maxEvents int
		for _, typ := range h.pub.Types() {
			if typ == event.JobMaxLevel {
				maxEvents++
			}
		}
		assert.Equal(t, 1, maxEvents)
	})
}

func TestAwardExperience_ConcurrentAwards(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	playerID := uuid.New()
	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	const workers = 20
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := h.svc.AwardExperience(ctx, playerID, doublingConfig, 3)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	rec, err := h.repo.GetJobRecord(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker*3), rec.Experience)
}

func TestPresenter_Integration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	playerID := uuid.New()
	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	_, err := h.svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 55)
	require.NoError(t, err)
	_, err = h.svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 100)
	require.NoError(t, err)

	require.Len(t, h.factory.created, 1, "one indicator per player")
	first := h.factory.created[0]
	assert.Equal(t, 2, first.renders)
	assert.True(t, first.visible)
	assert.Equal(t, "Miner | Level 1 (155 / 210)", first.title)

	h.svc.PlayerDisconnected(ctx, playerID)
	assert.True(t, first.destroyed)
	assert.Equal(t, 0, h.tracker.Active())

	_, err = h.svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 1)
	require.NoError(t, err)
	require.Len(t, h.factory.created, 2, "reconnecting player gets a fresh indicator")
	assert.False(t, h.factory.created[1].destroyed)
}

func TestReadCache_InvalidatedOnMembershipChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, WithReadCache(16, time.Hour))
	playerID := uuid.New()

	has, err := h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))
	has, err = h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, h.svc.LeaveJob(ctx, playerID, "miner"))
	has, err = h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGetPlayerJobs_ReflectsAwards(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, WithReadCache(16, time.Hour))
	playerID := uuid.New()
	require.NoError(t, h.svc.JoinJob(ctx, playerID, "miner"))

	// warm the cache before the award
	_, err := h.svc.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)

	_, err = h.svc.AwardExperience(ctx, playerID, doublingConfig, 420)
	require.NoError(t, err)

	infos, err := h.svc.GetPlayerJobs(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, int64(420), infos[0].View.Experience)
	assert.Equal(t, 2, infos[0].View.Level)
}

// hookedRepository runs beforeUpdate ahead of every UpdateJobRecord
type hookedRepository struct {
	*memory.JobRepository
	beforeUpdate func()
}

func (r *hookedRepository) UpdateJobRecord(ctx context.Context, playerID uuid.UUID, jobKey string, fn repository.JobRecordMutator) (*domain.JobRecord, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	return r.JobRepository.UpdateJobRecord(ctx, playerID, jobKey, fn)
}

func TestAwardExperienceAndPresent_DisconnectDuringAward(t *testing.T) {
	ctx := context.Background()
	factory := &stubFactory{}
	tracker := indicator.NewTracker(factory, manualScheduler{}, time.Second)
	t.Cleanup(tracker.Shutdown)

	repo := &hookedRepository{JobRepository: memory.NewJobRepository()}
	svc := NewService(repo, testCatalog(), tracker, nil, WithClock(func() time.Time { return fixedNow }))
	playerID := uuid.New()
	require.NoError(t, svc.JoinJob(ctx, playerID, "miner"))

	repo.beforeUpdate = func() { svc.PlayerDisconnected(ctx, playerID) }
	view, err := svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 150)

	require.NoError(t, err)
	assert.Equal(t, domain.LevelOutcomeLeveledUp, view.Outcome, "the award itself is kept")
	assert.Empty(t, factory.created, "no indicator for a player who left mid-award")
	assert.Equal(t, 0, tracker.Active())

	repo.beforeUpdate = nil
	_, err = svc.AwardExperienceAndPresent(ctx, playerID, doublingConfig, 1)
	require.NoError(t, err)
	assert.Len(t, factory.created, 1, "the next session shows again")
}

func TestReadCache_SharedStoreRefreshesAfterTTL(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewJobRepository()
	cached := NewService(repo, testCatalog(), nil, nil, WithReadCache(16, 50*time.Millisecond))
	other := NewService(repo, testCatalog(), nil, nil)
	playerID := uuid.New()

	has, err := cached.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, other.JoinJob(ctx, playerID, "miner"))

	has, err = cached.HasJob(ctx, playerID, "miner")
	require.NoError(t, err)
	assert.False(t, has, "a join by another service is not seen before the ttl")

	assert.Eventually(t, func() bool {
		has, err := cached.HasJob(ctx, playerID, "miner")
		return err == nil && has
	}, time.Second, 10*time.Millisecond)
}
