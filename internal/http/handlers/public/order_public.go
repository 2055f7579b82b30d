package public

import (
	"strings"

	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerEmail   string             `json:"customer_email" binding:"required"`
	CustomerPhone   string             `json:"customer_phone"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           string             `json:"notes"`
	VoucherCode     string             `json:"voucher_code"`
	Items           []orderItemRequest `json:"items" binding:"required"`
}

type submitReviewRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	OrderID       uint   `json:"order_id" binding:"required"`
	ProductID     uint   `json:"product_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
}

// CreateOrder 前台下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	items := make([]service.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		VoucherCode:     req.VoucherCode,
		Items:           items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// GetOrderByNo 按单号查单
func (h *Handler) GetOrderByNo(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		response.BadRequest(c, "Invalid order number")
		return
	}
	order, err := h.OrderService.GetOrderByNo(orderNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrdersByEmail 按邮箱查历史订单
func (h *Handler) GetOrdersByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.BadRequest(c, "Missing email")
		return
	}
	orders, err := h.OrderService.ListOrdersByCustomer(email)
	if err != nil {
		requestLog(c).Warnw("public_order_history_failed", "error", err)
		response.Success(c, []models.Order{})
		return
	}
	response.Success(c, orders)
}

// SubmitReview 提交商品评价
func (h *Handler) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	review, err := h.ReviewService.SubmitReview(service.SubmitReviewInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		OrderID:       req.OrderID,
		ProductID:     req.ProductID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, review)
}

// GetCustomerStatus 按邮箱查询客户状态
func (h *Handler) GetCustomerStatus(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.BadRequest(c, "Missing email")
		return
	}
	status, err := h.CustomerService.GetCustomerStatus(email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"status": status})
}
