package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/domain"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/middleware"
)

// statisticsHandler handles the analytics and statistics routes.
type statisticsHandler struct {
	statisticsService portssvc.StatisticsSvcFacade
}

func newStatisticsHandler(ss portssvc.StatisticsSvcFacade) *statisticsHandler {
	return &statisticsHandler{statisticsService: ss}
}

func registerStatisticsRoutes(rg *gin.RouterGroup, statisticsService portssvc.StatisticsSvcFacade) {
	h := newStatisticsHandler(statisticsService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/monthly-stats", h.monthlyStats)
		analytics.GET("/expenses-distribution", h.expensesDistribution)
		analytics.GET("/expenses-evolution", h.expensesEvolution)
	}

	statistics := rg.Group("/statistics")
	{
		statistics.GET("", h.overview)
		statistics.GET("/balance-evolution", h.balanceEvolution)
	}
}

// resolvePeriodFromQuery reads the month/year or start/end query parameters.
func resolvePeriodFromQuery(c *gin.Context) (domain.Period, error) {
	return domain.ResolvePeriod(
		c.Query("month"),
		c.Query("year"),
		c.Query("start"),
		c.Query("end"),
		time.Now(),
	)
}

func (h *statisticsHandler) monthlyStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := resolvePeriodFromQuery(c)
	if err != nil {
		logger.Warn("Invalid period for monthly stats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Période invalide"})
		return
	}

	stats, err := h.statisticsService.MonthlyStats(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to compute monthly stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul des statistiques"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *statisticsHandler) expensesDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := resolvePeriodFromQuery(c)
	if err != nil {
		logger.Warn("Invalid period for expense distribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Période invalide"})
		return
	}

	distribution, err := h.statisticsService.ExpenseDistribution(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to compute expense distribution", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul de la répartition"})
		return
	}
	c.JSON(http.StatusOK, distribution)
}

func (h *statisticsHandler) expensesEvolution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	evolution, err := h.statisticsService.ExpenseEvolution(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute expense evolution", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul de l'évolution"})
		return
	}
	c.JSON(http.StatusOK, evolution)
}

func (h *statisticsHandler) overview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	overview, err := h.statisticsService.Overview(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute overview", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul des statistiques"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *statisticsHandler) balanceEvolution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currentYear := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("Invalid year for balance evolution", slog.String("year", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Année invalide"})
			return
		}
		currentYear = year
	}

	evolution, err := h.statisticsService.BalanceEvolution(c.Request.Context(), currentYear, currentYear-1)
	if err != nil {
		logger.Error("Failed to compute balance evolution", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul de l'évolution du solde"})
		return
	}
	c.JSON(http.StatusOK, evolution)
}
