package repository

import (
	"context"
	"errors"

	"todoapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubTaskRepository struct {
	db *gorm.DB
}

// SubTaskRepositoryInterface pairs every subtask mutation with the parent
// todo's recomputed progress value; both commit in the same transaction, so
// readers never observe a subtask set with a stale progress.
type SubTaskRepositoryInterface interface {
	CreateWithProgress(ctx context.Context, subtask *model.SubTask, progress int) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SubTask, error)
	ListByTodoID(ctx context.Context, todoID uuid.UUID) ([]model.SubTask, error)
	SaveWithProgress(ctx context.Context, subtask *model.SubTask, progress int) error
	DeleteWithProgress(ctx context.Context, id uuid.UUID, todoID uuid.UUID, progress int) error
}

var _ SubTaskRepositoryInterface = (*SubTaskRepository)(nil)

func NewSubTaskRepository(db *gorm.DB) *SubTaskRepository {
	return &SubTaskRepository{db: db}
}

func (r *SubTaskRepository) CreateWithProgress(ctx context.Context, subtask *model.SubTask, progress int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subtask).Error; err != nil {
			return err
		}
		return setTodoProgress(tx, subtask.TodoID, progress)
	})
}

func (r *SubTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubTask, error) {
	var subtask model.SubTask
	result := r.db.WithContext(ctx).First(&subtask, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, result.Error
	}
	return &subtask, nil
}

func (r *SubTaskRepository) ListByTodoID(ctx context.Context, todoID uuid.UUID) ([]model.SubTask, error) {
	var subtasks []model.SubTask
	result := r.db.WithContext(ctx).Where("todo_id = ?", todoID).Order("created_at").Find(&subtasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return subtasks, nil
}

func (r *SubTaskRepository) SaveWithProgress(ctx context.Context, subtask *model.SubTask, progress int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(subtask)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubTaskNotFound
		}
		return setTodoProgress(tx, subtask.TodoID, progress)
	})
}

func (r *SubTaskRepository) DeleteWithProgress(ctx context.Context, id uuid.UUID, todoID uuid.UUID, progress int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.SubTask{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubTaskNotFound
		}
		return setTodoProgress(tx, todoID, progress)
	})
}
