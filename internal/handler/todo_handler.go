package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"todoapp/internal/middleware"
	"todoapp/internal/model"
	"todoapp/internal/repository"
	"todoapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TodoHandler struct {
	service *service.TodoService
}

func NewTodoHandler(service *service.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

type SubTaskCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

type CreateTodoRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Priority    string                 `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time             `json:"due_date"`
	HasReminder bool                   `json:"has_reminder"`
	CategoryID  *string                `json:"category_id" binding:"omitempty,uuid"`
	Subtasks    []SubTaskCreateRequest `json:"subtasks" binding:"omitempty,dive"`
}

type UpdateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	IsCompleted *bool      `json:"is_completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"due_date"`
	HasReminder *bool      `json:"has_reminder"`
	CategoryID  *string    `json:"category_id" binding:"omitempty,uuid"`
}

type BatchDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

type BatchUpdateRequest struct {
	IDs         []string `json:"ids" binding:"required,min=1,dive,uuid"`
	IsCompleted *bool    `json:"is_completed" binding:"required"`
}

type SubTaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	TodoID      string `json:"todo_id"`
	CreatedAt   string `json:"created_at"`
}

type TodoResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsCompleted bool              `json:"is_completed"`
	Priority    string            `json:"priority"`
	DueDate     *string           `json:"due_date,omitempty"`
	HasReminder bool              `json:"has_reminder"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Progress    int               `json:"progress"`
	Subtasks    []SubTaskResponse `json:"subtasks"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toSubTaskResponse(subtask *model.SubTask) SubTaskResponse {
	return SubTaskResponse{
		ID:          subtask.ID.String(),
		Title:       subtask.Title,
		IsCompleted: subtask.IsCompleted,
		TodoID:      subtask.TodoID.String(),
		CreatedAt:   subtask.CreatedAt.Format(time.RFC3339),
	}
}

func toTodoResponse(todo *model.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID.String(),
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		Priority:    todo.Priority,
		HasReminder: todo.HasReminder,
		Progress:    todo.Progress,
		Subtasks:    make([]SubTaskResponse, 0, len(todo.Subtasks)),
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}

	if todo.DueDate != nil {
		due := todo.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	if todo.CategoryID != nil {
		id := todo.CategoryID.String()
		resp.CategoryID = &id
	}
	if todo.Category != nil {
		category := toCategoryResponse(todo.Category)
		resp.Category = &category
	}
	for i := range todo.Subtasks {
		resp.Subtasks = append(resp.Subtasks, toSubTaskResponse(&todo.Subtasks[i]))
	}
	return resp
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, repository.ErrSubTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
	}
}

// Create creates a new todo, optionally with an initial subtask batch
func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	input := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		HasReminder: req.HasReminder,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
			return
		}
		input.CategoryID = &categoryID
	}
	for _, subtask := range req.Subtasks {
		input.Subtasks = append(input.Subtasks, subtask.Title)
	}

	todo, err := h.service.CreateTodo(c.Request.Context(), userID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// GetAll lists the user's todos, filtered by the query parameters
func (h *TodoHandler) GetAll(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	filter := repository.TodoFilter{
		Search:   c.Query("search"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("is_completed"); raw != "" {
		isCompleted, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_completed value"})
			return
		}
		filter.IsCompleted = &isCompleted
	}

	todos, err := h.service.ListTodos(c.Request.Context(), userID, filter)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toTodoResponse(&todos[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Statistics summarizes the user's todo set
func (h *TodoHandler) Statistics(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetByID returns one todo with its category and subtasks
func (h *TodoHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	todo, err := h.service.GetTodo(c.Request.Context(), userID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Update applies a partial update to a todo
func (h *TodoHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	input := service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		HasReminder: req.HasReminder,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
			return
		}
		input.CategoryID = &categoryID
	}

	todo, err := h.service.UpdateTodo(c.Request.Context(), userID, todoID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Toggle flips a todo's completion state
func (h *TodoHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	todo, err := h.service.ToggleTodo(c.Request.Context(), userID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Delete removes a todo and its subtasks
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	if err := h.service.DeleteTodo(c.Request.Context(), userID, todoID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BatchDelete removes several of the user's todos at once
func (h *TodoHandler) BatchDelete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	if err := h.service.BatchDelete(c.Request.Context(), userID, ids); err != nil {
		respondTodoError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BatchUpdate sets the completion state of several todos at once
func (h *TodoHandler) BatchUpdate(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	todos, err := h.service.BatchUpdate(c.Request.Context(), userID, ids, *req.IsCompleted)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toTodoResponse(&todos[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateSubTask adds a subtask to a todo
func (h *TodoHandler) CreateSubTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID format"})
		return
	}

	var req SubTaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	subtask, err := h.service.CreateSubTask(c.Request.Context(), userID, todoID, req.Title)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubTaskResponse(subtask))
}

// ToggleSubTask flips a subtask's completion state
func (h *TodoHandler) ToggleSubTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	subtaskID, err := uuid.Parse(c.Param("subtask_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask ID format"})
		return
	}

	subtask, err := h.service.ToggleSubTask(c.Request.Context(), userID, subtaskID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubTaskResponse(subtask))
}

// DeleteSubTask removes a subtask
func (h *TodoHandler) DeleteSubTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	subtaskID, err := uuid.Parse(c.Param("subtask_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask ID format"})
		return
	}

	if err := h.service.DeleteSubTask(c.Request.Context(), userID, subtaskID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
