package analytics

import (
	"context"
	"fmt"
	"time"

	"reliabot/internal/model"
)

// TaskLister is the single read the engine needs from the task store.
type TaskLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.Task, error)
}

// Report is the payload of the analytics endpoint.
type Report struct {
	DailyCounts           DailyCounts        `json:"daily_counts"`
	CompletionTimeMinutes map[string]float64 `json:"completion_time_minutes"`
}

// FullSummary is the weekly summary together with the current streak.
type FullSummary struct {
	Streak int `json:"streak"`
	Summary
}

// Engine binds the reductions to a task store. Each call reads the store once
// and fails as a whole if the read fails.
type Engine struct {
	tasks    TaskLister
	leveling Leveling
	now      func() time.Time
}

func NewEngine(tasks TaskLister, leveling Leveling) *Engine {
	return &Engine{
		tasks:    tasks,
		leveling: leveling,
		now:      time.Now,
	}
}

// WithClock replaces the engine clock; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) snapshot(ctx context.Context, userID string) ([]model.Task, time.Time, error) {
	tasks, err := e.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load tasks for %s: %w", userID, err)
	}
	return tasks, e.now().UTC(), nil
}

// DailyCounts returns completions per day over the trailing window (0 = all history).
func (e *Engine) DailyCounts(ctx context.Context, userID string, days int) (DailyCounts, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CountDaily(tasks, now, days), nil
}

// Report returns daily counts and average completion times over the window.
func (e *Engine) Report(ctx context.Context, userID string, days int) (*Report, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Report{
		DailyCounts:           CountDaily(tasks, now, days),
		CompletionTimeMinutes: CompletionTimes(tasks, now, days),
	}, nil
}

func (e *Engine) Streak(ctx context.Context, userID string) (int, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Streak(CountDaily(tasks, now, 0), now), nil
}

func (e *Engine) Summary(ctx context.Context, userID string) (*FullSummary, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FullSummary{
		Streak:  Streak(CountDaily(tasks, now, 0), now),
		Summary: WeeklySummary(tasks, now),
	}, nil
}

func (e *Engine) XP(ctx context.Context, userID string) (*XPState, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := e.leveling.State(WeeklySummary(tasks, now).TotalCompleted)
	return &state, nil
}

// XPHeatmap returns XP earned per day over the trailing window (0 = all history).
func (e *Engine) XPHeatmap(ctx context.Context, userID string, days int) (map[string]int, error) {
	tasks, now, err := e.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.leveling.Heatmap(CountDaily(tasks, now, days)), nil
}
