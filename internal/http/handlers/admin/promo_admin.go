package admin

import (
	"time"

	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

type flashSalePayload struct {
	Name          string       `json:"name" binding:"required"`
	ProductID     uint         `json:"product_id" binding:"required"`
	DiscountType  string       `json:"discount_type" binding:"required"`
	DiscountValue models.Money `json:"discount_value"`
	StockLimit    int          `json:"stock_limit"`
	StartTime     *time.Time   `json:"start_time" binding:"required"`
	EndTime       *time.Time   `json:"end_time" binding:"required"`
	IsActive      *bool        `json:"is_active"`
}

type freeShippingPayload struct {
	Name      string             `json:"name" binding:"required"`
	RuleType  string             `json:"rule_type" binding:"required"`
	MinAmount models.Money       `json:"min_amount"`
	Locations models.StringArray `json:"locations"`
	Category  string             `json:"category"`
	StartDate *time.Time         `json:"start_date"`
	EndDate   *time.Time         `json:"end_date"`
	IsActive  *bool              `json:"is_active"`
}

// GetFlashSales 抢购列表 (Admin)
func (h *Handler) GetFlashSales(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.FlashSaleListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		ProductID:   handlershared.QueryUint(c, "product_id"),
		OnlyRunning: c.Query("only_running") == "true",
		WithProduct: true,
	}
	sales, total, err := h.FlashSaleService.ListFlashSales(filter)
	if err != nil {
		requestLog(c).Warnw("admin_flash_sale_list_failed", "error", err)
		response.SuccessWithPage(c, []models.FlashSale{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, sales, response.NewPagination(page, pageSize, total))
}

// CreateFlashSale 创建抢购场次
func (h *Handler) CreateFlashSale(c *gin.Context) {
	var payload flashSalePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	sale := &models.FlashSale{
		Name:          payload.Name,
		ProductID:     payload.ProductID,
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
		StockLimit:    payload.StockLimit,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		IsActive:      payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.FlashSaleService.CreateFlashSale(sale); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, sale)
}

// UpdateFlashSale 更新抢购场次
func (h *Handler) UpdateFlashSale(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid flash sale id")
		return
	}
	var payload flashSalePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	sale, err := h.FlashSaleService.UpdateFlashSale(id, func(sale *models.FlashSale) {
		sale.Name = payload.Name
		sale.ProductID = payload.ProductID
		sale.DiscountType = payload.DiscountType
		sale.DiscountValue = payload.DiscountValue
		sale.StockLimit = payload.StockLimit
		sale.StartTime = payload.StartTime
		sale.EndTime = payload.EndTime
		if payload.IsActive != nil {
			sale.IsActive = *payload.IsActive
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, sale)
}

// DeleteFlashSale 删除抢购场次
func (h *Handler) DeleteFlashSale(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid flash sale id")
		return
	}
	if err := h.FlashSaleService.DeleteFlashSale(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Flash sale deleted", nil)
}

// GetFreeShippingPromotions 包邮活动列表 (Admin)
func (h *Handler) GetFreeShippingPromotions(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.FreeShippingListFilter{
		Page:       page,
		PageSize:   pageSize,
		RuleType:   c.Query("rule_type"),
		OnlyActive: c.Query("only_active") == "true",
	}
	promos, total, err := h.FreeShippingService.ListPromotions(filter)
	if err != nil {
		requestLog(c).Warnw("admin_free_shipping_list_failed", "error", err)
		response.SuccessWithPage(c, []models.FreeShippingPromotion{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, promos, response.NewPagination(page, pageSize, total))
}

// CreateFreeShippingPromotion 创建包邮活动
func (h *Handler) CreateFreeShippingPromotion(c *gin.Context) {
	var payload freeShippingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	promo := &models.FreeShippingPromotion{
		Name:      payload.Name,
		RuleType:  payload.RuleType,
		MinAmount: payload.MinAmount,
		Locations: payload.Locations,
		Category:  payload.Category,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		IsActive:  payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.FreeShippingService.CreatePromotion(promo); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, promo)
}

// UpdateFreeShippingPromotion 更新包邮活动
func (h *Handler) UpdateFreeShippingPromotion(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion id")
		return
	}
	var payload freeShippingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	promo, err := h.FreeShippingService.UpdatePromotion(id, func(promo *models.FreeShippingPromotion) {
		promo.Name = payload.Name
		promo.RuleType = payload.RuleType
		promo.MinAmount = payload.MinAmount
		promo.Locations = payload.Locations
		promo.Category = payload.Category
		promo.StartDate = payload.StartDate
		promo.EndDate = payload.EndDate
		if payload.IsActive != nil {
			promo.IsActive = *payload.IsActive
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, promo)
}

// DeleteFreeShippingPromotion 删除包邮活动
func (h *Handler) DeleteFreeShippingPromotion(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion id")
		return
	}
	if err := h.FreeShippingService.DeletePromotion(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Promotion deleted", nil)
}
