package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetReviews 评价列表 (Admin)
func (h *Handler) GetReviews(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: handlershared.QueryUint(c, "product_id"),
		OrderID:   handlershared.QueryUint(c, "order_id"),
		Rating:    handlershared.QueryInt(c, "rating", 0),
		Search:    c.Query("search"),
	}
	reviews, total, err := h.ReviewService.ListReviews(filter)
	if err != nil {
		requestLog(c).Warnw("admin_review_list_failed", "error", err)
		response.SuccessWithPage(c, []models.Review{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// DeleteReview 删除评价
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid review id")
		return
	}
	if err := h.ReviewService.DeleteReview(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Review deleted", nil)
}
