package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type productImagePayload struct {
	ImagePath string `json:"image_path" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type productVariantPayload struct {
	Name  string       `json:"name" binding:"required"`
	Price models.Money `json:"price"`
	Stock int          `json:"stock"`
}

type productPayload struct {
	Name         string                  `json:"name" binding:"required"`
	Category     string                  `json:"category"`
	RegularPrice models.Money            `json:"regular_price"`
	PromoPrice   models.Money            `json:"promo_price"`
	Stock        int                     `json:"stock"`
	Status       string                  `json:"status"`
	Description  string                  `json:"description"`
	Images       []productImagePayload   `json:"images"`
	Variants     []productVariantPayload `json:"variants"`
}

func (p *productPayload) toInput() service.ProductInput {
	images := make([]models.ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, models.ProductImage{ImagePath: img.ImagePath, SortOrder: img.SortOrder})
	}
	variants := make([]models.ProductVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, models.ProductVariant{Name: v.Name, Price: v.Price, Stock: v.Stock})
	}
	return service.ProductInput{
		Name:         p.Name,
		Category:     p.Category,
		RegularPrice: p.RegularPrice,
		PromoPrice:   p.PromoPrice,
		Stock:        p.Stock,
		Status:       p.Status,
		Description:  p.Description,
		Images:       images,
		Variants:     variants,
	}
}

// GetProducts 商品列表 (Admin)。查询失败降级为空列表，不阻塞后台页面。
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		WithAssets: true,
	}
	products, total, err := h.ProductService.ListProducts(filter)
	if err != nil {
		requestLog(c).Warnw("admin_product_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Product{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情 (Admin)
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	product, err := h.ProductService.GetProduct(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	product, err := h.ProductService.CreateProduct(payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	product, err := h.ProductService.UpdateProduct(id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}
	if err := h.ProductService.DeleteProduct(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product deleted", nil)
}
