package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

// NewProductService 创建商品服务实例
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name         string
	Category     string
	RegularPrice models.Money
	PromoPrice   models.Money
	Stock        int
	Status       string
	Description  string
	Images       []models.ProductImage
	Variants     []models.ProductVariant
}

// ProductDetail 商品详情，含评分汇总
type ProductDetail struct {
	models.Product
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// CreateProduct 创建商品及其图片、规格
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         input.Name,
		Category:     input.Category,
		RegularPrice: input.RegularPrice,
		PromoPrice:   input.PromoPrice,
		Stock:        input.Stock,
		Status:       input.Status,
		Description:  input.Description,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	if len(input.Images) > 0 {
		if err := s.productRepo.ReplaceImages(product.ID, input.Images); err != nil {
			return nil, err
		}
	}
	if len(input.Variants) > 0 {
		if err := s.productRepo.ReplaceVariants(product.ID, input.Variants); err != nil {
			return nil, err
		}
	}
	return s.productRepo.GetByIDWithAssets(product.ID)
}

// UpdateProduct 更新商品，图片与规格整组替换
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Category = input.Category
	product.RegularPrice = input.RegularPrice
	product.PromoPrice = input.PromoPrice
	product.Stock = input.Stock
	product.Status = input.Status
	product.Description = input.Description
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	if input.Images != nil {
		if err := s.productRepo.ReplaceImages(id, input.Images); err != nil {
			return nil, err
		}
	}
	if input.Variants != nil {
		if err := s.productRepo.ReplaceVariants(id, input.Variants); err != nil {
			return nil, err
		}
	}
	return s.productRepo.GetByIDWithAssets(id)
}

// DeleteProduct 删除商品（软删除）
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.productRepo.Delete(id)
}

// GetProduct 获取商品及图片、规格
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByIDWithAssets(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetProductDetail 获取商品详情并汇总评分
func (s *ProductService) GetProductDetail(id uint) (*ProductDetail, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.reviewRepo.ProductRatingSummary(id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *product, AverageRating: avg, ReviewCount: count}, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// ListActiveProducts 前台商品列表，只含上架商品
func (s *ProductService) ListActiveProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithAssets = true
	return s.productRepo.List(filter)
}

// TopSellingProducts 销量榜
func (s *ProductService) TopSellingProducts(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.productRepo.TopSelling(limit)
}

func validateProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = constants.ProductStatusActive
	}
	if input.Name == "" {
		return ErrInvalidInput
	}
	if input.Status != constants.ProductStatusActive && input.Status != constants.ProductStatusInactive {
		return ErrInvalidStatus
	}
	if input.RegularPrice.Decimal.IsNegative() || input.PromoPrice.Decimal.IsNegative() {
		return ErrInvalidInput
	}
	if input.Stock < 0 {
		return ErrInvalidInput
	}
	return nil
}
