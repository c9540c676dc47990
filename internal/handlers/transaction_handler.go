package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/planning"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a
// transaction. The amount may be given as signed integer cents or as a
// signed decimal string ("-12.50"); exactly one of the two.
type CreateTransactionRequest struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	AmountCents *int64 `json:"amount_cents"`
	Amount      string `json:"amount" binding:"omitempty"`
	TxnDate     string `json:"txn_date" binding:"required,dateformat"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateTransaction handles the creation of a new transaction.
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

	var amount int64
	switch {
	case req.AmountCents != nil && req.Amount != "":
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"provide amount_cents or amount, not both"))
		return
	case req.AmountCents != nil:
		amount = *req.AmountCents
	case req.Amount != "":
		amount, err = planning.ParseAmount(req.Amount)
		if err != nil {
			respondWithError(c, err)
			return
		}
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"amount_cents or amount is required"))
		return
	}

	txnDate, err := parseDate("txn_date", req.TxnDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.CreateTransaction(
		userID, req.AccountID, req.CategoryID, amount, req.Description, txnDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// GetTransactions handles listing transactions with optional filters.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if v := c.Query("from"); v != "" {
		from, err := parseDate("from", v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := parseDate("to", v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &to
	}
	if v := c.Query("category_id"); v != "" {
		id, err := parseQueryID("category_id", v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.CategoryID = &id
	}
	if v := c.Query("account_id"); v != "" {
		id, err := parseQueryID("account_id", v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.AccountID = &id
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a specific transaction.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
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

	txn, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction handles deleting a transaction.
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

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
