package admin

import (
	"time"

	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

type voucherPayload struct {
	Code          string       `json:"code" binding:"required"`
	DiscountType  string       `json:"discount_type" binding:"required"`
	DiscountValue models.Money `json:"discount_value"`
	MinPurchase   models.Money `json:"min_purchase"`
	MaxDiscount   models.Money `json:"max_discount"`
	UsageLimit    int          `json:"usage_limit"`
	StartDate     *time.Time   `json:"start_date"`
	EndDate       *time.Time   `json:"end_date"`
	IsActive      *bool        `json:"is_active"`
}

type productVoucherPayload struct {
	Code          string       `json:"code" binding:"required"`
	Scope         string       `json:"scope" binding:"required"`
	ProductID     *uint        `json:"product_id"`
	Category      string       `json:"category"`
	DiscountType  string       `json:"discount_type" binding:"required"`
	DiscountValue models.Money `json:"discount_value"`
	UsageLimit    int          `json:"usage_limit"`
	StartDate     *time.Time   `json:"start_date"`
	EndDate       *time.Time   `json:"end_date"`
	IsActive      *bool        `json:"is_active"`
}

// GetVouchers 店铺券列表 (Admin)
func (h *Handler) GetVouchers(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.VoucherListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
	}
	vouchers, total, err := h.VoucherService.ListVouchers(filter)
	if err != nil {
		requestLog(c).Warnw("admin_voucher_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Voucher{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, vouchers, response.NewPagination(page, pageSize, total))
}

// CreateVoucher 创建店铺券
func (h *Handler) CreateVoucher(c *gin.Context) {
	var payload voucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	voucher := &models.Voucher{
		Code:          payload.Code,
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
		MinPurchase:   payload.MinPurchase,
		MaxDiscount:   payload.MaxDiscount,
		UsageLimit:    payload.UsageLimit,
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
		IsActive:      payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.VoucherService.CreateVoucher(voucher); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, voucher)
}

// UpdateVoucher 更新店铺券
func (h *Handler) UpdateVoucher(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid voucher id")
		return
	}
	var payload voucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	voucher, err := h.VoucherService.UpdateVoucher(id, func(voucher *models.Voucher) {
		voucher.Code = payload.Code
		voucher.DiscountType = payload.DiscountType
		voucher.DiscountValue = payload.DiscountValue
		voucher.MinPurchase = payload.MinPurchase
		voucher.MaxDiscount = payload.MaxDiscount
		voucher.UsageLimit = payload.UsageLimit
		voucher.StartDate = payload.StartDate
		voucher.EndDate = payload.EndDate
		if payload.IsActive != nil {
			voucher.IsActive = *payload.IsActive
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, voucher)
}

// DeleteVoucher 删除店铺券
func (h *Handler) DeleteVoucher(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid voucher id")
		return
	}
	if err := h.VoucherService.DeleteVoucher(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Voucher deleted", nil)
}

// GetProductVouchers 商品券列表 (Admin)
func (h *Handler) GetProductVouchers(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.ProductVoucherListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Scope:      c.Query("scope"),
		ProductID:  handlershared.QueryUint(c, "product_id"),
		Category:   c.Query("category"),
		OnlyActive: c.Query("only_active") == "true",
	}
	vouchers, total, err := h.VoucherService.ListProductVouchers(filter)
	if err != nil {
		requestLog(c).Warnw("admin_product_voucher_list_failed", "error", err)
		response.SuccessWithPage(c, []models.ProductVoucher{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, vouchers, response.NewPagination(page, pageSize, total))
}

// CreateProductVoucher 创建商品券
func (h *Handler) CreateProductVoucher(c *gin.Context) {
	var payload productVoucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	voucher := &models.ProductVoucher{
		Code:          payload.Code,
		Scope:         payload.Scope,
		ProductID:     payload.ProductID,
		Category:      payload.Category,
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
		UsageLimit:    payload.UsageLimit,
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
		IsActive:      payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.VoucherService.CreateProductVoucher(voucher); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, voucher)
}

// UpdateProductVoucher 更新商品券
func (h *Handler) UpdateProductVoucher(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid voucher id")
		return
	}
	var payload productVoucherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	voucher, err := h.VoucherService.UpdateProductVoucher(id, func(voucher *models.ProductVoucher) {
		voucher.Code = payload.Code
		voucher.Scope = payload.Scope
		voucher.ProductID = payload.ProductID
		voucher.Category = payload.Category
		voucher.DiscountType = payload.DiscountType
		voucher.DiscountValue = payload.DiscountValue
		voucher.UsageLimit = payload.UsageLimit
		voucher.StartDate = payload.StartDate
		voucher.EndDate = payload.EndDate
		if payload.IsActive != nil {
			voucher.IsActive = *payload.IsActive
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, voucher)
}

// DeleteProductVoucher 删除商品券
func (h *Handler) DeleteProductVoucher(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid voucher id")
		return
	}
	if err := h.VoucherService.DeleteProductVoucher(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Voucher deleted", nil)
}
