package service_test

import (
	"testing"
	"time"

	"todoapp/internal/model"
	"todoapp/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	todos := []model.Todo{
		{Title: "done high", IsCompleted: true, Priority: model.PriorityHigh},
		{Title: "done high 2", IsCompleted: true, Priority: model.PriorityHigh},
		{Title: "done medium", IsCompleted: true, Priority: model.PriorityMedium},
		{Title: "pending overdue", IsCompleted: false, Priority: model.PriorityLow, DueDate: &yesterday},
		{Title: "pending future", IsCompleted: false, Priority: model.PriorityLow, DueDate: &tomorrow},
	}

	stats := service.Summarize(todos, now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 60, stats.CompletionRate)
	assert.Equal(t, 2, stats.PriorityStats.High)
	assert.Equal(t, 1, stats.PriorityStats.Medium)
	assert.Equal(t, 2, stats.PriorityStats.Low)
	assert.Equal(t, 1, stats.OverdueCount)
}

func TestSummarize_Empty(t *testing.T) {
	stats := service.Summarize(nil, time.Now())

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.CompletionRate)
	assert.Equal(t, 0, stats.OverdueCount)
}

func TestSummarize_CompletionRateTruncates(t *testing.T) {
	todos := []model.Todo{
		{IsCompleted: true, Priority: model.PriorityMedium},
		{IsCompleted: false, Priority: model.PriorityMedium},
		{IsCompleted: false, Priority: model.PriorityMedium},
	}

	stats := service.Summarize(todos, time.Now())

	assert.Equal(t, 33, stats.CompletionRate)
}

func TestSummarize_DueTodayIsNotOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	earlierToday := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	todos := []model.Todo{
		{IsCompleted: false, Priority: model.PriorityHigh, DueDate: &earlierToday},
	}

	stats := service.Summarize(todos, now)

	assert.Equal(t, 0, stats.OverdueCount)
}

func TestSummarize_CompletedTodosAreNeverOverdue(t *testing.T) {
	now := time.Now()
	lastWeek := now.AddDate(0, 0, -7)

	todos := []model.Todo{
		{IsCompleted: true, Priority: model.PriorityHigh, DueDate: &lastWeek},
	}

	stats := service.Summarize(todos, now)

	assert.Equal(t, 0, stats.OverdueCount)
}
