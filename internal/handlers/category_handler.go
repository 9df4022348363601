package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required,max=100"`
	Type     models.CategoryType `json:"type" binding:"required,category_type"`
	ParentID uint                `json:"parent_id"`
	Tag      string              `json:"tag" binding:"max=10"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// The category type is fixed at creation and cannot be changed.
type UpdateCategoryRequest struct {
	Name     string  `json:"name" binding:"omitempty,max=100"`
	ParentID *uint   `json:"parent_id"`
	Tag      *string `json:"tag" binding:"omitempty,max=10"`
	IsActive *bool   `json:"is_active"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new transaction category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} map[string]interface{} "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Type, req.ParentID, req.Tag)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "category", category.ID, map[string]any{"name": category.Name, "type": string(category.Type)})
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetUserCategories handles the retrieval of categories for a user
// @Summary     List categories
// @Description Get categories for the authenticated user, optionally scoped by type
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by category type (income/expense)"
// @Success     200 {object} map[string]interface{} "List of categories"
// @Failure     400 {object} ErrorResponse "Invalid category type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categories []models.Category
	switch categoryType := c.Query("type"); categoryType {
	case "":
		categories, err = h.categoryService.GetUserCategories(userID)
	case string(models.CategoryTypeIncome), string(models.CategoryTypeExpense):
		categories, err = h.categoryService.GetUserCategoriesByType(userID, models.CategoryType(categoryType))
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category type"))
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a specific transaction category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} map[string]interface{} "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Update an existing transaction category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} map[string]interface{} "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.ParentID, req.Tag, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "category", category.ID, nil)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category; child categories are deleted with it
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} map[string]interface{} "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deletedChildren, err := h.categoryService.DeleteCategory(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "category", categoryID, map[string]any{"deleted_children": deletedChildren})
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "deleted_children": deletedChildren})
}
