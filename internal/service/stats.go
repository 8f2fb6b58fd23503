package service

import (
	"time"

	"todoapp/internal/model"
)

type PriorityStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Statistics struct {
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Pending        int           `json:"pending"`
	CompletionRate int           `json:"completionRate"`
	PriorityStats  PriorityStats `json:"priorityStats"`
	OverdueCount   int           `json:"overdueCount"`
}

// Summarize reduces a snapshot of todos into aggregate statistics in a
// single pass. A todo counts as overdue when it is incomplete and its due
// date lies strictly before now's calendar date; time of day is ignored.
func Summarize(todos []model.Todo, now time.Time) Statistics {
	stats := Statistics{Total: len(todos)}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, todo := range todos {
		if todo.IsCompleted {
			stats.Completed++
		}

		switch todo.Priority {
		case model.PriorityHigh:
			stats.PriorityStats.High++
		case model.PriorityMedium:
			stats.PriorityStats.Medium++
		case model.PriorityLow:
			stats.PriorityStats.Low++
		}

		if !todo.IsCompleted && todo.DueDate != nil {
			due := *todo.DueDate
			dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, today.Location())
			if dueDay.Before(today) {
				stats.OverdueCount++
			}
		}
	}

	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = stats.Completed * 100 / stats.Total
	}
	return stats
}
