package repository

import (
	"context"
	"errors"

	"todoapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoFilter narrows ListByUser results. Nil fields are ignored.
type TodoFilter struct {
	Search      string
	Priority    string
	CategoryID  *uuid.UUID
	IsCompleted *bool
}

type TodoRepository struct {
	db *gorm.DB
}

type TodoRepositoryInterface interface {
	CreateWithSubtasks(ctx context.Context, todo *model.Todo, subtasks []model.SubTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter TodoFilter) ([]model.Todo, error)
	ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Todo, error)
	Save(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

var _ TodoRepositoryInterface = (*TodoRepository)(nil)

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// CreateWithSubtasks inserts a todo and its initial subtask batch in one
// transaction; a failed subtask insert rolls the todo back too.
func (r *TodoRepository) CreateWithSubtasks(ctx context.Context, todo *model.Todo, subtasks []model.SubTask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(todo).Error; err != nil {
			return err
		}
		if len(subtasks) == 0 {
			return nil
		}
		return tx.Create(&subtasks).Error
	})
}

// GetByID retrieves a todo with its category and subtasks
func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	var todo model.Todo
	result := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		First(&todo, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, result.Error
	}
	return &todo, nil
}

// ListByUser retrieves a user's todos, newest first, applying the filter
func (r *TodoRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter TodoFilter) ([]model.Todo, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subtasks").
		Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	var todos []model.Todo
	result := query.Order("created_at DESC").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// ListByIDs retrieves the user's todos among the given ids
func (r *TodoRepository) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Todo, error) {
	var todos []model.Todo
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// Save persists all fields of an existing todo
func (r *TodoRepository) Save(ctx context.Context, todo *model.Todo) error {
	result := r.db.WithContext(ctx).Save(todo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// setTodoProgress persists a recomputed progress value inside the caller's
// transaction, refreshing updated_at.
func setTodoProgress(tx *gorm.DB, id uuid.UUID, progress int) error {
	result := tx.Model(&model.Todo{}).
		Where("id = ?", id).
		Update("progress", progress)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Delete removes a todo and its subtasks in one transaction
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.SubTask{}, "todo_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Todo{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTodoNotFound
		}
		return nil
	})
}

// DeleteBatch removes the user's todos among the given ids, with their subtasks
func (r *TodoRepository) DeleteBatch(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM sub_tasks WHERE todo_id IN (SELECT id FROM todos WHERE user_id = ? AND id IN ?)",
			userID, ids,
		).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Todo{}, "user_id = ? AND id IN ?", userID, ids).Error
	})
}
