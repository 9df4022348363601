package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbook/internal/errors"
	"finbook/internal/pagination"
	"finbook/internal/services"
	"finbook/internal/validator"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionWriteRequest is the payload shared by create and update.
// Amount is the positive magnitude; the stored sign follows the category
// type. Date is an ISO-8601 instant.
type TransactionWriteRequest struct {
	Date       string          `json:"date" binding:"required"`
	AccountID  uint            `json:"account_id" binding:"required"`
	CategoryID uint            `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment" binding:"max=255"`
}

// ListTransactionsQuery holds the query parameters for the transaction list.
type ListTransactionsQuery struct {
	pagination.PageRequest
	Sort            string `form:"sort" binding:"omitempty,sort_option"`
	AccountID       *uint  `form:"account_id"`
	CategoryID      *uint  `form:"category_id"`
	DateFrom        string `form:"date_from"`
	DateTo          string `form:"date_to"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
}

// parseFlexibleTime accepts an RFC 3339 instant or a plain date.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (r *TransactionWriteRequest) toCommand() (services.TransactionCommand, error) {
	date, err := parseFlexibleTime(r.Date)
	if err != nil {
		return services.TransactionCommand{}, apperrors.WithDetails(apperrors.ErrValidation,
			[]apperrors.FieldError{{Field: "date", Message: "must be an ISO-8601 date"}})
	}
	return services.TransactionCommand{
		Date:       date,
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		Comment:    r.Comment,
	}, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create a new transaction; the account balance is adjusted atomically
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionWriteRequest true "Transaction details"
// @Success     201 {object} map[string]interface{} "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionWriteRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	cmd, err := req.toCommand()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID, map[string]any{"amount": transaction.Amount.String()})
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the paginated transaction listing
// @Summary     List transactions
// @Description Get a paginated, sorted, filtered page of transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (1-based)"
// @Param       limit query int false "Page size"
// @Param       sort query string false "Sort option, e.g. date:desc or amount:asc"
// @Param       account_id query int false "Filter by account"
// @Param       category_id query int false "Filter by category"
// @Param       date_from query string false "Filter from date (inclusive)"
// @Param       date_to query string false "Filter to date (inclusive)"
// @Param       search query string false "Free-text search on the comment"
// @Param       include_inactive query bool false "Include inactive transactions"
// @Success     200 {object} map[string]interface{} "Page of transactions"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithDetails(apperrors.ErrValidation, validator.Details(err)))
		return
	}

	sort, err := pagination.ParseSort(query.Sort)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		AccountID:       query.AccountID,
		CategoryID:      query.CategoryID,
		Search:          query.Search,
		IncludeInactive: query.IncludeInactive,
	}
	if query.DateFrom != "" {
		from, parseErr := parseFlexibleTime(query.DateFrom)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date_from"))
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, parseErr := parseFlexibleTime(query.DateTo)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date_to"))
			return
		}
		filter.DateTo = &to
	}

	result, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, sort, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating a transaction
// @Summary     Update transaction
// @Description Rewrite a transaction; balance effects are reversed and reapplied
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body TransactionWriteRequest true "Updated transaction details"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionWriteRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	cmd, err := req.toCommand()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "transaction", transaction.ID, nil)
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction and reverse its balance effect
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", transactionID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
