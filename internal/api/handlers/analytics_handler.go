package handlers

import (
	"net/http"

	"github.com/alligatorO15/jalali-finance/internal/api/middleware"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// yearMonth year и month из query, по умолчанию текущие jalali
func yearMonth(c *gin.Context) (int, int, error) {
	now := today()
	year, err := queryInt(c, "year", now.Year)
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(c, "month", now.Month)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.analyticsService.DashboardStats(c.Request.Context(), middleware.GetUserID(c), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetMonthly(c *gin.Context) {
	year, err := queryInt(c, "year", today().Year)
	if err != nil {
		respondError(c, err)
		return
	}

	months, err := h.analyticsService.MonthlyBreakdown(c.Request.Context(), middleware.GetUserID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
}

func (h *AnalyticsHandler) GetYearly(c *gin.Context) {
	year, err := queryInt(c, "year", today().Year)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.analyticsService.YearlyReport(c.Request.Context(), middleware.GetUserID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetCategories(c *gin.Context) {
	year, err := queryInt(c, "year", today().Year)
	if err != nil {
		respondError(c, err)
		return
	}
	typ := models.TransactionType(c.DefaultQuery("type", string(models.TransactionTypeExpense)))

	buckets, err := h.analyticsService.CategoryBreakdown(c.Request.Context(), middleware.GetUserID(c), typ, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "type": typ, "categories": buckets})
}

func (h *AnalyticsHandler) GetHeatmap(c *gin.Context) {
	year, err := queryInt(c, "year", today().Year)
	if err != nil {
		respondError(c, err)
		return
	}

	cells, err := h.analyticsService.ExpenseHeatmap(c.Request.Context(), middleware.GetUserID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "days": cells})
}

func (h *AnalyticsHandler) GetCalendar(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.analyticsService.CalendarMonth(year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
