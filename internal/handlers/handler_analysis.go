package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/middleware"
)

// analysisHandler handles the model-backed analysis routes.
type analysisHandler struct {
	spendingService  portssvc.SpendingAnalysisSvcFacade
	recurringService portssvc.RecurringSvcFacade
	forecastService  portssvc.ForecastSvcFacade
}

func newAnalysisHandler(ss portssvc.SpendingAnalysisSvcFacade, rs portssvc.RecurringSvcFacade, fs portssvc.ForecastSvcFacade) *analysisHandler {
	return &analysisHandler{
		spendingService:  ss,
		recurringService: rs,
		forecastService:  fs,
	}
}

func registerAnalysisRoutes(rg *gin.RouterGroup, spendingService portssvc.SpendingAnalysisSvcFacade, recurringService portssvc.RecurringSvcFacade, forecastService portssvc.ForecastSvcFacade) {
	h := newAnalysisHandler(spendingService, recurringService, forecastService)

	analysis := rg.Group("/analysis")
	{
		analysis.POST("/spending", h.analyzeSpending)
		analysis.POST("/recurring", h.detectRecurring)
		analysis.POST("/purchase-plan", h.analyzePurchase)
	}
}

// respondAnalysisError maps agent failures to a French error payload.
func respondAnalysisError(c *gin.Context, logger *slog.Logger, err error, what string) {
	switch {
	case errors.Is(err, apperrors.ErrAnalysisParse):
		logger.Error("Model returned an unusable analysis", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "L'analyse n'a pas pu être interprétée"})
	case errors.Is(err, apperrors.ErrExternalService):
		logger.Error("Model call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Le service d'analyse est indisponible"})
	default:
		logger.Error("Analysis failed", slog.String("analysis", what), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'analyse"})
	}
}

func (h *analysisHandler) analyzeSpending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request for spending analysis")

	analysis, err := h.spendingService.AnalyzeSpending(c.Request.Context())
	if err != nil {
		respondAnalysisError(c, logger, err, "spending")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *analysisHandler) detectRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request for recurring payment detection")

	payments, err := h.recurringService.DetectRecurringPayments(c.Request.Context())
	if err != nil {
		respondAnalysisError(c, logger, err, "recurring")
		return
	}
	c.JSON(http.StatusOK, dto.RecurringResponse{RecurringPayments: payments})
}

func (h *analysisHandler) analyzePurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PurchasePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for purchase plan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	feasibility, err := h.forecastService.AnalyzePurchase(c.Request.Context(), req)
	if err != nil {
		respondAnalysisError(c, logger, err, "forecast")
		return
	}
	c.JSON(http.StatusOK, feasibility)
}
