package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// validateParent checks that parentID names an existing root category of
// the same type owned by the user. RootParentID is always valid.
func (s *categoryService) validateParent(userID uint, categoryType models.CategoryType, parentID uint) error {
	if parentID == models.RootParentID {
		return nil
	}

	var parent models.Category
	if err := s.db.Where("id = ? AND user_id = ?", parentID, userID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !parent.IsRoot() {
		return apperrors.ErrNonRootParent
	}
	if parent.Type != categoryType {
		return apperrors.ErrParentTypeMismatch
	}
	return nil
}

// CreateCategory creates a new category.
func (s *categoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType, parentID uint, tag string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.validateParent(userID, categoryType, parentID); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:   userID,
		Name:     name,
		Type:     categoryType,
		ParentID: parentID,
		Tag:      tag,
		IsActive: true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves all categories for a user.
func (s *categoryService) GetUserCategories(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetUserCategoriesByType retrieves all categories of one type for a user.
func (s *categoryService) GetUserCategoriesByType(userID uint, categoryType models.CategoryType) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND type = ?", userID, categoryType).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category. The type is fixed at
// creation; expense and income partitions never mix.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string, parentID *uint, tag *string, isActive *bool) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if *parentID == categoryID {
			return nil, apperrors.ErrSelfParentCategory
		}
		if err := s.validateParent(userID, category.Type, *parentID); err != nil {
			return nil, err
		}
		// The tree is two levels deep: a root that already has
		// children can never itself become a child.
		if *parentID != models.RootParentID {
			var childCount int64
			if err := s.db.Model(&models.Category{}).
				Where("parent_id = ? AND user_id = ?", categoryID, userID).
				Count(&childCount).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if childCount > 0 {
				return nil, apperrors.ErrCategoryHasChildren
			}
		}
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if parentID != nil {
		updates["parent_id"] = *parentID
	}
	if tag != nil {
		updates["tag"] = *tag
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a category and cascades to its children in a
// single database transaction. Returns the number of deleted children.
func (s *categoryService) DeleteCategory(userID, categoryID uint) (int64, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return 0, err
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ? AND user_id = ?", categoryID, userID).
		Count(&childCount).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if childCount > 0 {
			if err := tx.Where("parent_id = ? AND user_id = ?", categoryID, userID).
				Delete(&models.Category{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return childCount, nil
}
