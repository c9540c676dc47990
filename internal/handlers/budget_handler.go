package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/pagination"
	"fintrack/internal/planning"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetItemRequest is one planned line in a create or update payload.
// The planned amount may be given as integer cents or as a decimal
// string; exactly one of the two.
type BudgetItemRequest struct {
	CategoryID   uint   `json:"category_id" binding:"required"`
	PlannedCents *int64 `json:"planned_cents"`
	Planned      string `json:"planned" binding:"omitempty"`
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=100"`
	PeriodStart string              `json:"period_start" binding:"required,dateformat"`
	PeriodEnd   string              `json:"period_end" binding:"required,dateformat"`
	Currency    string              `json:"currency" binding:"omitempty,iso4217"`
	Items       []BudgetItemRequest `json:"items" binding:"required,dive"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// A nil items field leaves the item set untouched.
type UpdateBudgetRequest struct {
	Name        string              `json:"name" binding:"omitempty,min=1,max=100"`
	PeriodStart string              `json:"period_start" binding:"omitempty,dateformat"`
	PeriodEnd   string              `json:"period_end" binding:"omitempty,dateformat"`
	Items       []BudgetItemRequest `json:"items" binding:"omitempty,dive"`
}

// resolveItems converts item payloads to service inputs, parsing
// decimal planned amounts through the shared money parser.
func resolveItems(items []BudgetItemRequest) ([]services.BudgetItemInput, error) {
	if items == nil {
		return nil, nil
	}
	inputs := make([]services.BudgetItemInput, 0, len(items))
	for _, item := range items {
		var planned int64
		switch {
		case item.PlannedCents != nil && item.Planned != "":
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"provide planned_cents or planned, not both")
		case item.PlannedCents != nil:
			planned = *item.PlannedCents
		case item.Planned != "":
			var err error
			planned, err = planning.ParseAmount(item.Planned)
			if err != nil {
				return nil, err
			}
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"each item needs planned_cents or planned")
		}
		inputs = append(inputs, services.BudgetItemInput{
			CategoryID:   item.CategoryID,
			PlannedCents: planned,
		})
	}
	return inputs, nil
}

// CreateBudget handles the creation of a new budget.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := parseDate("period_start", req.PeriodStart)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate("period_end", req.PeriodEnd)
	if err != nil {
		respondWithError(c, err)
		return
	}
	items, err := resolveItems(req.Items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	budget, err := h.budgetService.CreateBudget(userID, req.Name, start, end, currency, items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.IncrementBudgetsCreated()
	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	result, err := h.budgetService.GetUserBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetCurrentBudget handles retrieving the budget covering today.
// Having none is a valid state and returns a null budget.
func (h *BudgetHandler) GetCurrentBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetCurrentBudget(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var start, end *time.Time
	if req.PeriodStart != "" {
		t, err := parseDate("period_start", req.PeriodStart)
		if err != nil {
			respondWithError(c, err)
			return
		}
		start = &t
	}
	if req.PeriodEnd != "" {
		t, err := parseDate("period_end", req.PeriodEnd)
		if err != nil {
			respondWithError(c, err)
			return
		}
		end = &t
	}
	items, err := resolveItems(req.Items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, req.Name, start, end, items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetProgress handles retrieving the progress view for a budget.
// ?include_unbudgeted=true adds the aggregate spend outside the
// budget's category set.
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeUnbudgeted := c.Query("include_unbudgeted") == "true"

	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), userID, budgetID, includeUnbudgeted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// GetDashboard handles retrieving progress for all of the user's budgets.
func (h *BudgetHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.budgetService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": dashboard})
}
