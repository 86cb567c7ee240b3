package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"reliabot/internal/analytics"
	"reliabot/internal/model"
	"reliabot/internal/repository"
	"reliabot/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLister struct{}

func (failingLister) ListByUser(context.Context, string) ([]model.Task, error) {
	return nil, fmt.Errorf("list tasks: %w", repository.ErrStoreUnavailable)
}

func seed(t *testing.T, store *memory.Store, tasks ...model.Task) {
	t.Helper()
	for i := range tasks {
		require.NoError(t, store.Create(context.Background(), &tasks[i]))
	}
}

func newEngine(store analytics.TaskLister) *analytics.Engine {
	return analytics.NewEngine(store, analytics.DefaultLeveling).WithClock(func() time.Time { return now })
}

func TestEngine_ScopesByUser(t *testing.T) {
	store := memory.New()
	seed(t, store,
		done("alice", daysAgo(2), daysAgo(1)),
		done("alice", daysAgo(1), now),
		done("bob", daysAgo(9), daysAgo(8)),
		pending("alice", daysAgo(1)),
	)
	engine := newEngine(store)
	ctx := context.Background()

	summary, err := engine.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &analytics.FullSummary{
		Streak:  2,
		Summary: analytics.Summary{CompletedThisWeek: 2, TotalCompleted: 2},
	}, summary)

	xp, err := engine.XP(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &analytics.XPState{XP: 20, Level: 1, Progress: 20}, xp)

	counts, err := engine.DailyCounts(ctx, "bob", 7)
	require.NoError(t, err)
	assert.Empty(t, counts)

	streak, err := engine.Streak(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestEngine_XPFollowsTaskHistory(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	engine := newEngine(store)

	var created []model.Task
	for i := 0; i < 12; i++ {
		task := done("u", daysAgo(i+1), daysAgo(i))
		require.NoError(t, store.Create(ctx, &task))
		created = append(created, task)
	}
	require.NoError(t, store.Delete(ctx, "u", created[0].ID))
	require.NoError(t, store.Delete(ctx, "u", created[5].ID))

	xp, err := engine.XP(ctx, "u")
	require.NoError(t, err)
	summary, err := engine.Summary(ctx, "u")
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalCompleted)
	assert.Equal(t, summary.TotalCompleted*analytics.DefaultLeveling.PerCompletion, xp.XP)
	assert.Equal(t, 2, xp.Level)
}

func TestEngine_ReportAndHeatmap(t *testing.T) {
	store := memory.New()
	seed(t, store,
		done("u", now.Add(-30*time.Minute), now),
		done("u", daysAgo(100).Add(-time.Hour), daysAgo(100)),
	)
	engine := newEngine(store)

	report, err := engine.Report(context.Background(), "u", 90)
	require.NoError(t, err)
	assert.Equal(t, analytics.DailyCounts{"2026-10-14": 1}, report.DailyCounts)
	assert.Equal(t, map[string]float64{"2026-10-14": 30}, report.CompletionTimeMinutes)

	heat, err := engine.XPHeatmap(context.Background(), "u", 180)
	require.NoError(t, err)
	assert.Len(t, heat, 2)
	assert.Equal(t, 10, heat["2026-10-14"])
}

func TestEngine_StoreFailureFailsWholeComputation(t *testing.T) {
	engine := newEngine(failingLister{})
	ctx := context.Background()

	summary, err := engine.Summary(ctx, "u")
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, repository.ErrStoreUnavailable))

	streak, err := engine.Streak(ctx, "u")
	assert.Equal(t, 0, streak)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	xp, err := engine.XP(ctx, "u")
	assert.Nil(t, xp)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	report, err := engine.Report(ctx, "u", 7)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}
