package repository

import "errors"

// Common repository errors
var (
	// ErrTodoNotFound is returned when a todo is not found
	ErrTodoNotFound = errors.New("todo not found")

	// ErrSubTaskNotFound is returned when a subtask is not found
	ErrSubTaskNotFound = errors.New("subtask not found")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")
)
