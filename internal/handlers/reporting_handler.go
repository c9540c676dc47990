package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/planning"
	"fintrack/internal/services"
)

// ReportingHandler handles read-only report requests.
type ReportingHandler struct {
	reportingService services.ReportingServicer
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(reportingService services.ReportingServicer) *ReportingHandler {
	return &ReportingHandler{reportingService: reportingService}
}

// parseRange reads optional from/to query parameters, falling back to
// the given defaults.
func parseRange(c *gin.Context, defaultFrom, defaultTo time.Time) (time.Time, time.Time, error) {
	from, to := defaultFrom, defaultTo
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = parseDate("from", v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = parseDate("to", v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

// GetSpendSummary handles the per-category spending breakdown. The
// range defaults to the current calendar month.
func (h *ReportingHandler) GetSpendSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from, to, err := parseRange(c, monthStart, monthStart.AddDate(0, 1, -1))
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportingService.GetSpendSummary(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCashflow handles the income versus expense series. The range
// defaults to the trailing twelve months, bucketed by month.
func (h *ReportingHandler) GetCashflow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().UTC()
	from, to, err := parseRange(c, now.AddDate(0, -12, 0), now)
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupBy := c.DefaultQuery("group_by", planning.GroupByMonth)

	report, err := h.reportingService.GetCashflow(userID, from, to, groupBy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAccountBalances handles listing every account balance with its
// transaction count.
func (h *ReportingHandler) GetAccountBalances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportingService.GetAccountBalances(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetMonthlyTrends handles the per-month income and savings series
// over the trailing months, default twelve.
func (h *ReportingHandler) GetMonthlyTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 12
	if v := c.Query("months"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a positive integer"))
			return
		}
		months = m
	}

	trends, err := h.reportingService.GetMonthlyTrends(userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months, "trends": trends})
}

// GetTopMerchants handles ranking expense descriptions by total spend,
// default ten rows.
func (h *ReportingHandler) GetTopMerchants(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	merchants, err := h.reportingService.GetTopMerchants(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_merchants": merchants})
}
