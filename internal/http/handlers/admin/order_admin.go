package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type orderStatusPayload struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}

// GetOrders 订单列表 (Admin)
func (h *Handler) GetOrders(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		Status:        c.Query("status"),
		CustomerEmail: c.Query("customer_email"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
		WithItems:     true,
	}
	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		requestLog(c).Warnw("admin_order_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Order{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情 (Admin)
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order id")
		return
	}
	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态，别名写法归一化后入库
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order id")
		return
	}
	var payload orderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	order, err := h.OrderService.UpdateStatus(id, service.UpdateStatusInput{
		Status:         payload.Status,
		TrackingNumber: payload.TrackingNumber,
		Notes:          payload.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// DeleteOrder 删除订单及其明细
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order id")
		return
	}
	if err := h.OrderService.DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Order deleted", nil)
}
