package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

type customerPayload struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type customerStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// GetCustomers 客户列表 (Admin)
func (h *Handler) GetCustomers(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.CustomerListFilter{
		Page:      page,
		PageSize:  pageSize,
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	customers, total, err := h.CustomerService.ListCustomers(filter)
	if err != nil {
		requestLog(c).Warnw("admin_customer_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Customer{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, customers, response.NewPagination(page, pageSize, total))
}

// GetCustomer 客户详情 (Admin)
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}
	customer, err := h.CustomerService.GetCustomer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, customer)
}

// GetCustomerOrders 客户订单 (Admin)
func (h *Handler) GetCustomerOrders(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}
	orders, err := h.CustomerService.CustomerOrders(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// CreateCustomer 手工建档
func (h *Handler) CreateCustomer(c *gin.Context) {
	var payload customerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	customer := &models.Customer{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Address: payload.Address,
		Status:  payload.Status,
	}
	if err := h.CustomerService.CreateCustomer(customer); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, customer)
}

// UpdateCustomer 更新客户档案
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}
	var payload customerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	customer, err := h.CustomerService.UpdateCustomer(id, func(customer *models.Customer) {
		customer.Name = payload.Name
		customer.Email = payload.Email
		customer.Phone = payload.Phone
		customer.Address = payload.Address
		if payload.Status != "" {
			customer.Status = payload.Status
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, customer)
}

// UpdateCustomerStatus 调整客户状态
func (h *Handler) UpdateCustomerStatus(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}
	var payload customerStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	customer, err := h.CustomerService.ChangeStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, customer)
}

// DeleteCustomer 删除客户档案
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}
	if err := h.CustomerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Customer deleted", nil)
}
