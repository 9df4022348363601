package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
)

// currencyService handles currency lookups.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// GetCurrencies retrieves all supported currencies ordered by code.
func (s *currencyService) GetCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrencyByID retrieves a currency by ID.
func (s *currencyService) GetCurrencyByID(id uint) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.First(&currency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}
