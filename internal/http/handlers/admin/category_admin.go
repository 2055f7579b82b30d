package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

type categoryPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	SortOrder   int    `json:"sort_order"`
}

// GetCategories 分类列表 (Admin)
func (h *Handler) GetCategories(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	categories, total, err := h.CategoryService.ListCategories(filter)
	if err != nil {
		requestLog(c).Warnw("admin_category_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Category{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, categories, response.NewPagination(page, pageSize, total))
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	category := &models.Category{
		Name:        payload.Name,
		Description: payload.Description,
		ImagePath:   payload.ImagePath,
		SortOrder:   payload.SortOrder,
	}
	if err := h.CategoryService.CreateCategory(category); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid category id")
		return
	}
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	category, err := h.CategoryService.UpdateCategory(id, func(category *models.Category) {
		category.Name = payload.Name
		category.Description = payload.Description
		category.ImagePath = payload.ImagePath
		category.SortOrder = payload.SortOrder
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid category id")
		return
	}
	if err := h.CategoryService.DeleteCategory(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Category deleted", nil)
}
