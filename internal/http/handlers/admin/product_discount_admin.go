package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type productDiscountPayload struct {
	ProductID  uint         `json:"product_id"`
	PromoPrice models.Money `json:"promo_price"`
}

// GetProductDiscounts 直降商品列表 (Admin)
func (h *Handler) GetProductDiscounts(c *gin.Context) {
	items, err := h.ProductDiscountService.ListDiscounts()
	if err != nil {
		requestLog(c).Warnw("admin_product_discount_list_failed", "error", err)
		response.Success(c, []service.ProductDiscount{})
		return
	}
	response.Success(c, items)
}

// GetProductDiscount 单个商品折扣详情
func (h *Handler) GetProductDiscount(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	entry, err := h.ProductDiscountService.GetDiscount(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

// CreateProductDiscount 为商品设置直降价
func (h *Handler) CreateProductDiscount(c *gin.Context) {
	var payload productDiscountPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ProductID == 0 {
		response.BadRequest(c, "Invalid input")
		return
	}
	entry, err := h.ProductDiscountService.SetDiscount(service.ProductDiscountInput{
		ProductID:  payload.ProductID,
		PromoPrice: payload.PromoPrice,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, entry)
}

// UpdateProductDiscount 调整商品直降价
func (h *Handler) UpdateProductDiscount(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	var payload productDiscountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	entry, err := h.ProductDiscountService.SetDiscount(service.ProductDiscountInput{
		ProductID:  id,
		PromoPrice: payload.PromoPrice,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

// DeleteProductDiscount 取消商品直降
func (h *Handler) DeleteProductDiscount(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	if err := h.ProductDiscountService.RemoveDiscount(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product discount removed", nil)
}
