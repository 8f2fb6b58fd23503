package handler

import (
	"errors"
	"net/http"
	"time"

	"todoapp/internal/middleware"
	"todoapp/internal/model"
	"todoapp/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	repo repository.CategoryRepositoryInterface
}

func NewCategoryHandler(repo repository.CategoryRepositoryInterface) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
	Icon  string `json:"icon"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
	Icon  *string `json:"icon"`
}

type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	CreatedAt string `json:"created_at"`
}

func toCategoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
	}
}

// ownedCategory loads a category and hides its existence from non-owners.
func (h *CategoryHandler) ownedCategory(c *gin.Context, userID uuid.UUID) (*model.Category, bool) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return nil, false
	}

	category, err := h.repo.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		}
		return nil, false
	}
	if category.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, false
	}
	return category, true
}

// Create creates a new category for the authenticated user
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	color := req.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		ID:     uuid.New(),
		Name:   req.Name,
		Color:  color,
		Icon:   req.Icon,
		UserID: userID,
	}

	if err := h.repo.Create(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetAll lists the user's categories, newest first
func (h *CategoryHandler) GetAll(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	categories, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, toCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetByID returns one category
func (h *CategoryHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	category, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Update applies a partial update to a category
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	category, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := h.repo.Save(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete removes a category; todos that referenced it are kept
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	category, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), category.ID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
