package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

type widgetPayload struct {
	Type      string `json:"type" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	ImagePath string `json:"image_path"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// GetWidgets 挂件列表 (Admin)
func (h *Handler) GetWidgets(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.WidgetListFilter{
		Page:       page,
		PageSize:   pageSize,
		Type:       c.Query("type"),
		OnlyActive: c.Query("only_active") == "true",
	}
	widgets, total, err := h.WidgetService.ListWidgets(filter)
	if err != nil {
		requestLog(c).Warnw("admin_widget_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Widget{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, widgets, response.NewPagination(page, pageSize, total))
}

// CreateWidget 创建挂件
func (h *Handler) CreateWidget(c *gin.Context) {
	var payload widgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	widget := &models.Widget{
		Type:      payload.Type,
		Title:     payload.Title,
		Content:   payload.Content,
		ImagePath: payload.ImagePath,
		LinkURL:   payload.LinkURL,
		SortOrder: payload.SortOrder,
		IsActive:  payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.WidgetService.CreateWidget(widget); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, widget)
}

// UpdateWidget 更新挂件
func (h *Handler) UpdateWidget(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid widget id")
		return
	}
	var payload widgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	widget, err := h.WidgetService.UpdateWidget(id, func(widget *models.Widget) {
		widget.Type = payload.Type
		widget.Title = payload.Title
		widget.Content = payload.Content
		widget.ImagePath = payload.ImagePath
		widget.LinkURL = payload.LinkURL
		widget.SortOrder = payload.SortOrder
		if payload.IsActive != nil {
			widget.IsActive = *payload.IsActive
		}
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, widget)
}

// DeleteWidget 删除挂件
func (h *Handler) DeleteWidget(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid widget id")
		return
	}
	if err := h.WidgetService.DeleteWidget(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Widget deleted", nil)
}
