package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/export"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/services"
	"cashmesh/internal/validator"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the request payload for creating or replacing a transaction
type TransactionRequest struct {
	CategoryID      *uint                  `json:"category_id" example:"1"`
	Amount          decimal.Decimal        `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"5000.50"`
	Type            models.TransactionType `json:"transaction_type" binding:"required,transaction_type" enums:"income,expense"`
	Description     *string                `json:"description" binding:"omitempty,max=255"`
	TransactionDate string                 `json:"transaction_date" binding:"required,datetime=2006-01-02" example:"2025-10-23"`
}

func (r TransactionRequest) input() (services.TransactionInput, error) {
	day, err := models.ParseDate(r.TransactionDate)
	if err != nil {
		return services.TransactionInput{}, apperrors.WithDetails(apperrors.ErrValidationFailed,
			map[string]string{"transaction_date": "transaction_date must be a YYYY-MM-DD date"})
	}
	return services.TransactionInput{
		CategoryID:      r.CategoryID,
		Amount:          r.Amount,
		Type:            r.Type,
		Description:     r.Description,
		TransactionDate: day,
	}, nil
}

// TransactionQuery holds the list and export filters.
type TransactionQuery struct {
	pagination.PageRequest
	Type       string `form:"transaction_type" binding:"omitempty,transaction_type"`
	CategoryID *uint  `form:"category_id" binding:"omitempty,min=1"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

func (q TransactionQuery) filter() services.TransactionFilter {
	var f services.TransactionFilter
	if q.Type != "" {
		kind := models.TransactionType(q.Type)
		f.Type = &kind
	}
	f.CategoryID = q.CategoryID
	f.StartDate = parseOptionalDate(q.StartDate)
	f.EndDate = parseOptionalDate(q.EndDate)
	return f
}

// parseOptionalDate parses an already validated date, nil when empty.
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	day, err := models.ParseDate(s)
	if err != nil {
		return nil
	}
	return &day
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense, optionally in one of the user's categories
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category owned by another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /transactions/ [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.StringFixed(models.AmountScale)})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles listing the user's transactions
// @Summary     List transactions
// @Description Newest transaction date first; rows sharing a date are ordered by descending ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       skip             query int    false "Rows to skip" default(0)
// @Param       limit            query int    false "Page size (max 1000)" default(100)
// @Param       transaction_type query string false "income or expense"
// @Param       category_id      query int    false "Category ID"
// @Param       start_date       query string false "Earliest date (YYYY-MM-DD), inclusive"
// @Param       end_date         query string false "Latest date (YYYY-MM-DD), inclusive"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /transactions/ [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, q.PageRequest, q.filter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportTransactions streams the user's transactions as a spreadsheet
// @Summary     Export transactions
// @Tags        transactions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       transaction_type query string false "income or expense"
// @Param       category_id      query int    false "Category ID"
// @Param       start_date       query string false "Earliest date (YYYY-MM-DD), inclusive"
// @Param       end_date         query string false "Latest date (YYYY-MM-DD), inclusive"
// @Success     200 {file} file
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}

	var buf bytes.Buffer
	if err := h.transactionService.ExportTransactions(c.Request.Context(), userID, q.filter(), &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     403 {object} ErrorResponse "Owned by another user"
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

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles replacing a transaction
// @Summary     Update a transaction
// @Description Replaces every editable field; omitting category_id or description clears it
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction
// @Failure     403 {object} ErrorResponse "Owned by another user"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /transactions/{id} [put]
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

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.StringFixed(models.AmountScale)})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse
// @Failure     403 {object} ErrorResponse "Owned by another user"
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

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
