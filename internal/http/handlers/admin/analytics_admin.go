package admin

import (
	"time"

	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsSummary 销售概览
func (h *Handler) GetAnalyticsSummary(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"
	summary, err := h.AnalyticsService.Summary(c.Request.Context(), forceRefresh)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, summary)
}

// GetMonthlyProfitLoss 年度逐月损益，十二个月补零
func (h *Handler) GetMonthlyProfitLoss(c *gin.Context) {
	year := handlershared.QueryInt(c, "year", time.Now().Year())
	report, err := h.AnalyticsService.MonthlyProfitLoss(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, report)
}

// GetSalesTrend 销售趋势，窗口 7/30/90/365 天
func (h *Handler) GetSalesTrend(c *gin.Context) {
	days := handlershared.QueryInt(c, "days", 30)
	points, err := h.AnalyticsService.SalesTrend(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, points)
}

// GetBestSellers 销量榜
func (h *Handler) GetBestSellers(c *gin.Context) {
	limit := handlershared.QueryInt(c, "limit", 0)
	result, err := h.AnalyticsService.BestSellers(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// GetMonthlyBestSellers 某月畅销榜
func (h *Handler) GetMonthlyBestSellers(c *gin.Context) {
	now := time.Now()
	year := handlershared.QueryInt(c, "year", now.Year())
	month := handlershared.QueryInt(c, "month", int(now.Month()))
	items, err := h.AnalyticsService.MonthlyBestSellers(c.Request.Context(), year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetProductSales 逐商品销售汇总
func (h *Handler) GetProductSales(c *gin.Context) {
	items, err := h.AnalyticsService.ProductSales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetCategorySales 逐分类销售汇总
func (h *Handler) GetCategorySales(c *gin.Context) {
	items, err := h.AnalyticsService.CategorySales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}
