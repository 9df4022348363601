package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn         func(userID uint, name string, categoryType models.CategoryType, parentID uint, tag string) (*models.Category, error)
	getUserCategoriesFn      func(userID uint) ([]models.Category, error)
	getUserCategoriesByTypeFn func(userID uint, categoryType models.CategoryType) ([]models.Category, error)
	getCategoryByIDFn        func(userID, categoryID uint) (*models.Category, error)
	updateCategoryFn         func(userID, categoryID uint, name string, parentID *uint, tag *string, isActive *bool) (*models.Category, error)
	deleteCategoryFn         func(userID, categoryID uint) (int64, error)
}

func (m *mockCategoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType, parentID uint, tag string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, categoryType, parentID, tag)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(userID uint) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategoriesByType(userID uint, categoryType models.CategoryType) ([]models.Category, error) {
	if m.getUserCategoriesByTypeFn != nil {
		return m.getUserCategoriesByTypeFn(userID, categoryType)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, name string, parentID *uint, tag *string, isActive *bool) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, parentID, tag, isActive)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) (int64, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return 0, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetUserCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PATCH("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(userID uint, name string, categoryType models.CategoryType, parentID uint, tag string) (*models.Category, error) {
				return &models.Category{
					Base: models.Base{ID: 1}, UserID: userID, Name: name,
					Type: categoryType, ParentID: parentID, Tag: tag, IsActive: true,
				}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Food","type":"expense","parent_id":0}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Food" || category["type"] != "expense" {
			t.Errorf("unexpected category %v", category)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","type":"misc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
	})

	t.Run("returns 400 with a field detail on name too long", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"`+strings.Repeat("a", 101)+`","type":"expense"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		errObj := result["error"].(map[string]interface{})
		details, ok := errObj["details"].([]interface{})
		if !ok || len(details) == 0 {
			t.Fatalf("expected field details, got %v", errObj)
		}
		first := details[0].(map[string]interface{})
		if first["field"] != "name" {
			t.Errorf("expected the name field flagged, got %v", first)
		}
	})

	t.Run("returns 400 on non-root parent", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(uint, string, models.CategoryType, uint, string) (*models.Category, error) {
				return nil, apperrors.ErrNonRootParent
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Deep","type":"expense","parent_id":5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NON_ROOT_PARENT")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/categories", handler.CreateCategory)

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","type":"expense"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("returns 200 with all categories", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getUserCategoriesFn: func(uint) ([]models.Category, error) {
				return []models.Category{{Base: models.Base{ID: 1}, Name: "Food"}}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		categories := result["categories"].([]interface{})
		if len(categories) != 1 {
			t.Errorf("expected 1 category, got %d", len(categories))
		}
	})

	t.Run("scopes by type", func(t *testing.T) {
		var gotType models.CategoryType
		catSvc := &mockCategoryService{
			getUserCategoriesByTypeFn: func(_ uint, categoryType models.CategoryType) ([]models.Category, error) {
				gotType = categoryType
				return []models.Category{}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?type=income", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotType != models.CategoryTypeIncome {
			t.Errorf("expected income scope, got %q", gotType)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?type=misc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty list is 200, not an error", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if _, ok := result["categories"]; !ok {
			t.Error("expected a categories array even when empty")
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID uint, name string, _ *uint, _ *string, _ *bool) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: categoryID}, Name: name}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PATCH", "/categories/3", `{"name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on self parent", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ string, _ *uint, _ *string, _ *bool) (*models.Category, error) {
				return nil, apperrors.ErrSelfParentCategory
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PATCH", "/categories/3", `{"parent_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SELF_PARENT_CATEGORY")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PATCH", "/categories/abc", `{"name":"x"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 with the cascade count", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) (int64, error) { return 2, nil },
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["deleted_children"] != float64(2) {
			t.Errorf("expected deleted_children 2, got %v", result["deleted_children"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) (int64, error) {
				return 0, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
