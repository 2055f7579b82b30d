package public

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetProducts 前台商品列表，仅含上架商品
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.ProductListFilter{
		Page:      page,
		PageSize:  pageSize,
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	products, total, err := h.ProductService.ListActiveProducts(filter)
	if err != nil {
		requestLog(c).Warnw("public_product_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Product{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 前台商品详情，附评分汇总与评价
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	detail, err := h.ProductService.GetProductDetail(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	reviews, err := h.ReviewService.ListProductReviews(id)
	if err != nil {
		requestLog(c).Warnw("public_product_reviews_failed", "product_id", id, "error", err)
		reviews = []models.Review{}
	}
	response.Success(c, gin.H{
		"product": detail,
		"reviews": reviews,
	})
}

// GetTopProducts 销量榜
func (h *Handler) GetTopProducts(c *gin.Context) {
	limit := handlershared.QueryInt(c, "limit", 8)
	products, err := h.ProductService.TopSellingProducts(limit)
	if err != nil {
		requestLog(c).Warnw("public_top_products_failed", "error", err)
		response.Success(c, []models.Product{})
		return
	}
	response.Success(c, products)
}

// GetCategories 前台分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListAllCategories()
	if err != nil {
		requestLog(c).Warnw("public_category_list_failed", "error", err)
		response.Success(c, []models.Category{})
		return
	}
	response.Success(c, categories)
}

// GetWidgets 前台启用挂件
func (h *Handler) GetWidgets(c *gin.Context) {
	widgets, err := h.WidgetService.ListActiveWidgets(c.Query("type"))
	if err != nil {
		requestLog(c).Warnw("public_widget_list_failed", "error", err)
		response.Success(c, []models.Widget{})
		return
	}
	response.Success(c, widgets)
}
