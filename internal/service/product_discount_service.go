package service

import (
	"time"

	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// ProductDiscountService 商品直降管理。
// 直降价写在 product.promo_price 上，这里同时汇总抢购与商品券，
// 方便后台在一个页面看到某商品当前叠加了哪些优惠。
type ProductDiscountService struct {
	productRepo        repository.ProductRepository
	flashSaleRepo      repository.FlashSaleRepository
	productVoucherRepo repository.ProductVoucherRepository
}

// NewProductDiscountService 创建商品直降服务实例
func NewProductDiscountService(
	productRepo repository.ProductRepository,
	flashSaleRepo repository.FlashSaleRepository,
	productVoucherRepo repository.ProductVoucherRepository,
) *ProductDiscountService {
	return &ProductDiscountService{
		productRepo:        productRepo,
		flashSaleRepo:      flashSaleRepo,
		productVoucherRepo: productVoucherRepo,
	}
}

// ProductDiscount 某商品的折扣视图
type ProductDiscount struct {
	ProductID       uint                    `json:"product_id"`
	Name            string                  `json:"name"`
	Category        string                  `json:"category"`
	RegularPrice    models.Money            `json:"regular_price"`
	PromoPrice      models.Money            `json:"promo_price"`
	DiscountPercent float64                 `json:"discount_percent"`
	FlashSale       *models.FlashSale       `json:"flash_sale,omitempty"`
	Vouchers        []models.ProductVoucher `json:"vouchers,omitempty"`
}

// ProductDiscountInput 设置直降价输入
type ProductDiscountInput struct {
	ProductID  uint
	PromoPrice models.Money
}

// ListDiscounts 列出所有设置了直降价的商品，并附上正在进行的抢购场次。
func (s *ProductDiscountService) ListDiscounts() ([]ProductDiscount, error) {
	products, err := s.productRepo.ListDiscounted()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	runningByProduct := map[uint]*models.FlashSale{}
	if running, err := s.flashSaleRepo.ListRunning(now); err != nil {
		logger.Warnw("product_discount_flash_sale_lookup_failed", "error", err)
	} else {
		for i := range running {
			sale := running[i]
			runningByProduct[sale.ProductID] = &sale
		}
	}

	items := make([]ProductDiscount, 0, len(products))
	for i := range products {
		entry := buildProductDiscount(&products[i])
		entry.FlashSale = runningByProduct[products[i].ID]
		items = append(items, entry)
	}
	return items, nil
}

// GetDiscount 查看单个商品的折扣详情，没设直降价的商品也能查。
func (s *ProductDiscountService) GetDiscount(productID uint) (*ProductDiscount, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	entry := buildProductDiscount(product)
	if sale, err := s.flashSaleRepo.GetRunningForProduct(productID, time.Now()); err != nil {
		logger.Warnw("product_discount_flash_sale_lookup_failed", "product_id", productID, "error", err)
	} else {
		entry.FlashSale = sale
	}
	if vouchers, err := s.productVoucherRepo.ListActiveForProduct(productID, product.Category); err != nil {
		logger.Warnw("product_discount_voucher_lookup_failed", "product_id", productID, "error", err)
	} else {
		entry.Vouchers = vouchers
	}
	return &entry, nil
}

// SetDiscount 设置或调整直降价，促销价必须低于原价。
func (s *ProductDiscountService) SetDiscount(input ProductDiscountInput) (*ProductDiscount, error) {
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	promo := input.PromoPrice.Decimal
	if !promo.IsPositive() {
		return nil, ErrInvalidInput
	}
	if promo.GreaterThanOrEqual(product.RegularPrice.Decimal) {
		return nil, ErrInvalidInput
	}
	if err := s.productRepo.UpdatePromoPrice(input.ProductID, input.PromoPrice); err != nil {
		return nil, err
	}
	return s.GetDiscount(input.ProductID)
}

// RemoveDiscount 取消直降，促销价归零。
func (s *ProductDiscountService) RemoveDiscount(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.productRepo.UpdatePromoPrice(productID, models.NewMoneyFromInt(0))
}

func buildProductDiscount(product *models.Product) ProductDiscount {
	entry := ProductDiscount{
		ProductID:    product.ID,
		Name:         product.Name,
		Category:     product.Category,
		RegularPrice: product.RegularPrice,
		PromoPrice:   product.PromoPrice,
	}
	regular := product.RegularPrice.Decimal
	promo := product.PromoPrice.Decimal
	if regular.IsPositive() && promo.IsPositive() && promo.LessThan(regular) {
		ratio, _ := regular.Sub(promo).Div(regular).Float64()
		entry.DiscountPercent = round1(ratio * 100)
	}
	return entry
}
