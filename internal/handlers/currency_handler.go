package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finbook/internal/services"
)

// CurrencyHandler handles currency-related requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// GetCurrencies handles the retrieval of all supported currencies
// @Summary     List currencies
// @Description Get all supported currencies
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "List of currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.GetCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}
