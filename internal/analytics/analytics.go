// Package analytics derives read-only views from a user's tasks: daily
// completion counts, the completion streak, the weekly summary and XP.
//
// Every function is a pure reduction over one task snapshot. Calendar days are
// UTC days keyed as "2006-01-02"; weeks start on Monday 00:00 UTC.
package analytics

import (
	"math"
	"time"

	"reliabot/internal/model"
)

// DateLayout is the key format of every date-keyed map.
const DateLayout = "2006-01-02"

// DailyCounts maps a date to the number of tasks completed that day. It is
// sparse: days without completions are absent, consumers fill the gaps.
type DailyCounts map[string]int

// Summary is the weekly/total completion summary.
type Summary struct {
	CompletedThisWeek int `json:"completed_this_week"`
	TotalCompleted    int `json:"total_completed"`
}

// XPState is the gamification level derived from the completion count.
type XPState struct {
	XP       int `json:"xp"`
	Level    int `json:"level"`
	Progress int `json:"progress"`
}

// Leveling is the XP curve: every completion is worth PerCompletion XP and
// every PerLevel XP is one level.
type Leveling struct {
	PerCompletion int
	PerLevel      int
}

// DefaultLeveling awards 10 XP per completed task and levels up every 100 XP.
var DefaultLeveling = Leveling{PerCompletion: 10, PerLevel: 100}

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the UTC calendar day of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// WeekStart returns Monday 00:00 UTC of the week containing now.
func WeekStart(now time.Time) time.Time {
	today := Day(now)
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset)
}

// inWindow reports whether completedAt falls within the trailing window of
// days ending today. days <= 0 means all history.
func inWindow(completedAt, now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	first := Day(now).AddDate(0, 0, -(days - 1))
	day := Day(completedAt)
	return !day.Before(first) && !day.After(Day(now))
}

// CountDaily buckets completed tasks by the UTC day of completed_at.
func CountDaily(tasks []model.Task, now time.Time, days int) DailyCounts {
	counts := make(DailyCounts)
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		if !inWindow(*t.CompletedAt, now, days) {
			continue
		}
		counts[DateKey(*t.CompletedAt)]++
	}
	return counts
}

// Streak counts consecutive days with at least one completion. Today never
// breaks the streak while it is still running: the walk starts at yesterday
// and today adds one only if it already has a completion.
func Streak(counts DailyCounts, now time.Time) int {
	today := Day(now)
	streak := 0
	for day := today.AddDate(0, 0, -1); counts[DateKey(day)] > 0; day = day.AddDate(0, 0, -1) {
		streak++
	}
	if counts[DateKey(today)] > 0 {
		streak++
	}
	return streak
}

// WeeklySummary counts completions in the current week and over all time.
func WeeklySummary(tasks []model.Task, now time.Time) Summary {
	start := WeekStart(now)
	var s Summary
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		s.TotalCompleted++
		if !t.CompletedAt.Before(start) {
			s.CompletedThisWeek++
		}
	}
	return s
}

// State converts a completion count into XP, level and progress.
func (l Leveling) State(totalCompleted int) XPState {
	xp := totalCompleted * l.PerCompletion
	return XPState{
		XP:       xp,
		Level:    xp/l.PerLevel + 1,
		Progress: xp % l.PerLevel,
	}
}

// Heatmap converts daily counts into XP earned per day.
func (l Leveling) Heatmap(counts DailyCounts) map[string]int {
	out := make(map[string]int, len(counts))
	for date, n := range counts {
		out[date] = n * l.PerCompletion
	}
	return out
}

// CompletionTimes maps a date to the average number of minutes between
// creation and completion of the tasks completed that day, to one decimal.
func CompletionTimes(tasks []model.Task, now time.Time, days int) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil || !inWindow(*t.CompletedAt, now, days) {
			continue
		}
		minutes := t.CompletedAt.Sub(t.CreatedAt).Minutes()
		if minutes < 0 {
			minutes = 0
		}
		key := DateKey(*t.CompletedAt)
		sums[key] += minutes
		counts[key]++
	}

	out := make(map[string]float64, len(sums))
	for key, sum := range sums {
		out[key] = math.Round(sum/float64(counts[key])*10) / 10
	}
	return out
}
