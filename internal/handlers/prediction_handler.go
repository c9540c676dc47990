package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// PredictionHandler handles next-budget suggestion requests.
type PredictionHandler struct {
	predictionService services.PredictionServicer
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService services.PredictionServicer) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// PredictNextBudget handles suggesting planned amounts for a target
// period. Month and year default to the month after the current one.
func (h *PredictionHandler) PredictNextBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	next := time.Now().AddDate(0, 1, 0)
	month := int(next.Month())
	year := next.Year()

	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be 1-12"))
			return
		}
		month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2200 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range"))
			return
		}
		year = y
	}

	predictions, err := h.predictionService.PredictNextBudget(c.Request.Context(), userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": predictions,
		"target":      gin.H{"month": month, "year": year},
	})
}
