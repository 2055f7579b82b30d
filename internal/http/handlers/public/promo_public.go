package public

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type validateVoucherRequest struct {
	Code     string       `json:"code" binding:"required"`
	Subtotal models.Money `json:"subtotal"`
}

type freeShippingCheckRequest struct {
	Subtotal   models.Money `json:"subtotal"`
	Location   string       `json:"location"`
	Categories []string     `json:"categories"`
}

// GetActiveVouchers 前台可用店铺券
func (h *Handler) GetActiveVouchers(c *gin.Context) {
	vouchers, err := h.VoucherService.ListActiveVouchers()
	if err != nil {
		requestLog(c).Warnw("public_voucher_list_failed", "error", err)
		response.Success(c, []models.Voucher{})
		return
	}
	response.Success(c, vouchers)
}

// GetProductVouchers 某商品可用的商品券
func (h *Handler) GetProductVouchers(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	vouchers, err := h.VoucherService.ListVouchersForProduct(productID)
	if err != nil {
		requestLog(c).Warnw("public_product_voucher_list_failed", "product_id", productID, "error", err)
		response.Success(c, []models.ProductVoucher{})
		return
	}
	response.Success(c, vouchers)
}

// ValidateVoucher 下单前试算券折扣
func (h *Handler) ValidateVoucher(c *gin.Context) {
	var req validateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	result, err := h.VoucherService.Validate(req.Code, req.Subtotal.Decimal)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// GetRunningFlashSales 进行中的抢购
func (h *Handler) GetRunningFlashSales(c *gin.Context) {
	sales, err := h.FlashSaleService.ListRunningFlashSales()
	if err != nil {
		requestLog(c).Warnw("public_flash_sale_list_failed", "error", err)
		response.Success(c, []service.RunningFlashSale{})
		return
	}
	response.Success(c, sales)
}

// GetFreeShippingPromotions 生效中的包邮活动
func (h *Handler) GetFreeShippingPromotions(c *gin.Context) {
	promos, err := h.FreeShippingService.ListActivePromotions()
	if err != nil {
		requestLog(c).Warnw("public_free_shipping_list_failed", "error", err)
		response.Success(c, []models.FreeShippingPromotion{})
		return
	}
	response.Success(c, promos)
}

// CheckFreeShipping 订单包邮资格试算
func (h *Handler) CheckFreeShipping(c *gin.Context) {
	var req freeShippingCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	result, err := h.FreeShippingService.CheckEligibility(service.EligibilityInput{
		Subtotal:   req.Subtotal.Decimal,
		Location:   req.Location,
		Categories: req.Categories,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
