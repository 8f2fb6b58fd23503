package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"todoapp/internal/model"
	"todoapp/internal/repository"

	"github.com/google/uuid"
)

// TodoService owns the todo aggregate: a todo together with its subtasks.
// Every subtask mutation commits in the same storage transaction as the
// recomputed progress value, and every write that touches a todo row runs
// under that todo's lock, so concurrent mutations against the same todo
// cannot persist a progress value based on a stale subtask set. Mutations
// against different todos proceed independently.
type TodoService struct {
	todos    repository.TodoRepositoryInterface
	subtasks repository.SubTaskRepositoryInterface

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewTodoService(todos repository.TodoRepositoryInterface, subtasks repository.SubTaskRepositoryInterface) *TodoService {
	return &TodoService{
		todos:    todos,
		subtasks: subtasks,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

type CreateTodoInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	HasReminder bool
	CategoryID  *uuid.UUID
	Subtasks    []string
}

// UpdateTodoInput carries a partial update; nil fields are left untouched.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
	Priority    *string
	DueDate     *time.Time
	HasReminder *bool
	CategoryID  *uuid.UUID
}

// lockTodo acquires the todo's mutex and returns its release func.
func (s *TodoService) lockTodo(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// lockTodos acquires the todos' mutexes in a fixed order, so two overlapping
// batches cannot deadlock, and returns a release func. Repeated ids are
// locked once.
func (s *TodoService) lockTodos(ids []uuid.UUID) func() {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	unlocks := make([]func(), 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		unlocks = append(unlocks, s.lockTodo(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// ownedTodo loads a todo and hides its existence from non-owners.
func (s *TodoService) ownedTodo(ctx context.Context, userID, todoID uuid.UUID) (*model.Todo, error) {
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo.UserID != userID {
		return nil, repository.ErrTodoNotFound
	}
	return todo, nil
}

// CreateTodo creates a todo together with its initial subtask batch in one
// storage transaction; a failed insert leaves no partial aggregate behind.
func (s *TodoService) CreateTodo(ctx context.Context, userID uuid.UUID, input CreateTodoInput) (*model.Todo, error) {
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	todo := &model.Todo{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		HasReminder: input.HasReminder,
		CategoryID:  input.CategoryID,
		UserID:      userID,
	}

	// New subtasks start incomplete, so the aggregate begins at progress 0
	// with or without an initial batch.
	subtasks := make([]model.SubTask, 0, len(input.Subtasks))
	for _, title := range input.Subtasks {
		subtasks = append(subtasks, model.SubTask{
			ID:     uuid.New(),
			Title:  title,
			TodoID: todo.ID,
		})
	}

	if err := s.todos.CreateWithSubtasks(ctx, todo, subtasks); err != nil {
		return nil, err
	}

	return s.todos.GetByID(ctx, todo.ID)
}

func (s *TodoService) GetTodo(ctx context.Context, userID, todoID uuid.UUID) (*model.Todo, error) {
	return s.ownedTodo(ctx, userID, todoID)
}

func (s *TodoService) ListTodos(ctx context.Context, userID uuid.UUID, filter repository.TodoFilter) ([]model.Todo, error) {
	return s.todos.ListByUser(ctx, userID, filter)
}

// UpdateTodo applies a partial update. Save writes the whole row, progress
// included, so the load-save sequence runs under the todo's lock.
func (s *TodoService) UpdateTodo(ctx context.Context, userID, todoID uuid.UUID, input UpdateTodoInput) (*model.Todo, error) {
	unlock := s.lockTodo(todoID)
	defer unlock()

	todo, err := s.ownedTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.IsCompleted != nil {
		todo.IsCompleted = *input.IsCompleted
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.HasReminder != nil {
		todo.HasReminder = *input.HasReminder
	}
	if input.CategoryID != nil {
		todo.CategoryID = input.CategoryID
	}

	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) ToggleTodo(ctx context.Context, userID, todoID uuid.UUID) (*model.Todo, error) {
	unlock := s.lockTodo(todoID)
	defer unlock()

	todo, err := s.ownedTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.IsCompleted = !todo.IsCompleted
	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteTodo removes a todo together with its subtasks.
func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	if _, err := s.ownedTodo(ctx, userID, todoID); err != nil {
		return err
	}

	unlock := s.lockTodo(todoID)
	defer unlock()

	return s.todos.Delete(ctx, todoID)
}

func (s *TodoService) BatchDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	unlock := s.lockTodos(ids)
	defer unlock()

	return s.todos.DeleteBatch(ctx, userID, ids)
}

func (s *TodoService) BatchUpdate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isCompleted bool) ([]model.Todo, error) {
	unlock := s.lockTodos(ids)
	defer unlock()

	todos, err := s.todos.ListByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	for i := range todos {
		todos[i].IsCompleted = isCompleted
		if err := s.todos.Save(ctx, &todos[i]); err != nil {
			return nil, err
		}
	}
	return todos, nil
}

// Statistics summarizes the user's current todo set.
func (s *TodoService) Statistics(ctx context.Context, userID uuid.UUID) (Statistics, error) {
	todos, err := s.todos.ListByUser(ctx, userID, repository.TodoFilter{})
	if err != nil {
		return Statistics{}, err
	}
	return Summarize(todos, time.Now()), nil
}

// CreateSubTask adds a subtask to a todo; the insert and the recomputed
// progress commit together.
func (s *TodoService) CreateSubTask(ctx context.Context, userID, todoID uuid.UUID, title string) (*model.SubTask, error) {
	if _, err := s.ownedTodo(ctx, userID, todoID); err != nil {
		return nil, err
	}

	unlock := s.lockTodo(todoID)
	defer unlock()

	existing, err := s.subtasks.ListByTodoID(ctx, todoID)
	if err != nil {
		return nil, err
	}

	subtask := &model.SubTask{
		ID:     uuid.New(),
		Title:  title,
		TodoID: todoID,
	}

	progress := progressOf(append(existing, *subtask))
	if err := s.subtasks.CreateWithProgress(ctx, subtask, progress); err != nil {
		return nil, err
	}
	return subtask, nil
}

// ToggleSubTask flips a subtask's completion state; the flip and the parent
// todo's recomputed progress commit together.
func (s *TodoService) ToggleSubTask(ctx context.Context, userID, subtaskID uuid.UUID) (*model.SubTask, error) {
	subtask, err := s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedTodo(ctx, userID, subtask.TodoID); err != nil {
		return nil, err
	}

	unlock := s.lockTodo(subtask.TodoID)
	defer unlock()

	// Re-read under the lock so the flip is based on the committed state.
	subtask, err = s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	subtask.IsCompleted = !subtask.IsCompleted

	all, err := s.subtasks.ListByTodoID(ctx, subtask.TodoID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == subtask.ID {
			all[i].IsCompleted = subtask.IsCompleted
		}
	}

	if err := s.subtasks.SaveWithProgress(ctx, subtask, progressOf(all)); err != nil {
		return nil, err
	}
	return subtask, nil
}

// DeleteSubTask removes a subtask; the delete and the parent todo's
// recomputed progress commit together.
func (s *TodoService) DeleteSubTask(ctx context.Context, userID, subtaskID uuid.UUID) error {
	subtask, err := s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return err
	}
	if _, err := s.ownedTodo(ctx, userID, subtask.TodoID); err != nil {
		return err
	}

	unlock := s.lockTodo(subtask.TodoID)
	defer unlock()

	all, err := s.subtasks.ListByTodoID(ctx, subtask.TodoID)
	if err != nil {
		return err
	}
	remaining := make([]model.SubTask, 0, len(all))
	for _, st := range all {
		if st.ID != subtaskID {
			remaining = append(remaining, st)
		}
	}

	return s.subtasks.DeleteWithProgress(ctx, subtaskID, subtask.TodoID, progressOf(remaining))
}

// progressOf is the completion percentage of a subtask set, truncated toward
// zero. A todo with no subtasks is at 0.
func progressOf(subtasks []model.SubTask) int {
	if len(subtasks) == 0 {
		return 0
	}

	completed := 0
	for _, subtask := range subtasks {
		if subtask.IsCompleted {
			completed++
		}
	}
	return completed * 100 / len(subtasks)
}
