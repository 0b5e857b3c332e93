package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
	"coinbuddy/internal/pagination"
	"coinbuddy/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the transaction creation payload.
// Amount is in cents and must be positive; the type decides the direction.
type CreateTransactionRequest struct {
	WalletID    string    `json:"wallet_id" binding:"required,uuid"`
	Type        string    `json:"type" binding:"required,transaction_type"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	Category    string    `json:"category" binding:"required,max=100"`
	Description string    `json:"description" binding:"omitempty,max=500"`
	Image       string    `json:"image" binding:"omitempty,max=2048"`
	Date        time.Time `json:"date" binding:"required"`
}

// ListTransactionsRequest holds the query parameters for listing transactions.
type ListTransactionsRequest struct {
	pagination.PageRequest
	From     string `form:"from" binding:"omitempty"`
	To       string `form:"to" binding:"omitempty"`
	Type     string `form:"type" binding:"omitempty,transaction_type"`
	Category string `form:"category" binding:"omitempty,max=100"`
	WalletID string `form:"wallet_id" binding:"omitempty,uuid"`
}

// CreateTransaction records a new transaction and applies it to its wallet.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		req.WalletID,
		models.TransactionType(req.Type),
		req.Amount,
		req.Category,
		req.Description,
		req.Image,
		req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_transaction", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"wallet_id": req.WalletID,
		"type":      req.Type,
		"amount":    req.Amount,
	})
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions lists the authenticated user's transactions with
// optional date, type, category and wallet filters.
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := req.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, req.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID returns a single transaction owned by the authenticated user.
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction and reverses its wallet effect.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete_transaction", "transaction", transactionID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func (r *ListTransactionsRequest) filter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if r.From != "" {
		from, err := time.Parse(time.RFC3339, r.From)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid 'from' date, expected RFC3339")
		}
		filter.FromDate = &from
	}
	if r.To != "" {
		to, err := time.Parse(time.RFC3339, r.To)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid 'to' date, expected RFC3339")
		}
		filter.ToDate = &to
	}
	if r.Type != "" {
		t := models.TransactionType(r.Type)
		filter.Type = &t
	}
	if r.Category != "" {
		filter.Category = &r.Category
	}
	if r.WalletID != "" {
		filter.WalletID = &r.WalletID
	}
	return filter, nil
}
