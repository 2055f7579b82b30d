package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建商品评价服务实例
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// SubmitReviewInput 提交评价输入
type SubmitReviewInput struct {
	CustomerName  string
	CustomerEmail string
	OrderID       uint
	ProductID     uint
	Rating        int
	Comment       string
}

// SubmitReview 提交或覆盖评价。
// 同一 (邮箱, 订单, 商品) 只保留一条，重复提交视为修改。
// 订单必须属于该邮箱且包含该商品。
func (s *ReviewService) SubmitReview(input SubmitReviewInput) (*models.Review, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidInput
	}

	order, err := s.orderRepo.GetByIDWithItems(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil || !strings.EqualFold(order.CustomerEmail, email) {
		return nil, ErrNotFound
	}
	found := false
	for _, item := range order.Items {
		if item.ProductID != nil && *item.ProductID == input.ProductID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	review := &models.Review{
		CustomerName:  name,
		CustomerEmail: email,
		OrderID:       input.OrderID,
		ProductID:     input.ProductID,
		Rating:        input.Rating,
		Comment:       strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Upsert(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview 删除评价
func (s *ReviewService) DeleteReview(id uint) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrNotFound
	}
	return s.reviewRepo.Delete(id)
}

// ListReviews 后台评价列表
func (s *ReviewService) ListReviews(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// ListProductReviews 前台商品评价
func (s *ReviewService) ListProductReviews(productID uint) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

// ProductRating 商品评分汇总
func (s *ReviewService) ProductRating(productID uint) (float64, int64, error) {
	return s.reviewRepo.ProductRatingSummary(productID)
}
