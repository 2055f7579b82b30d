package service

import (
	"strings"
	"time"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// FlashSaleService 限时抢购服务
type FlashSaleService struct {
	flashSaleRepo repository.FlashSaleRepository
	productRepo   repository.ProductRepository
}

// NewFlashSaleService 创建限时抢购服务实例
func NewFlashSaleService(flashSaleRepo repository.FlashSaleRepository, productRepo repository.ProductRepository) *FlashSaleService {
	return &FlashSaleService{flashSaleRepo: flashSaleRepo, productRepo: productRepo}
}

// RunningFlashSale 进行中的抢购场次及抢购价
type RunningFlashSale struct {
	models.FlashSale
	SalePrice models.Money `json:"sale_price"`
	Remaining int          `json:"remaining"`
}

// CreateFlashSale 创建抢购场次
func (s *FlashSaleService) CreateFlashSale(sale *models.FlashSale) error {
	if err := s.validateFlashSale(sale); err != nil {
		return err
	}
	return s.flashSaleRepo.Create(sale)
}

// UpdateFlashSale 更新抢购场次
func (s *FlashSaleService) UpdateFlashSale(id uint, apply func(*models.FlashSale)) (*models.FlashSale, error) {
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrNotFound
	}
	apply(sale)
	if err := s.validateFlashSale(sale); err != nil {
		return nil, err
	}
	if err := s.flashSaleRepo.Update(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteFlashSale 删除抢购场次
func (s *FlashSaleService) DeleteFlashSale(id uint) error {
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrNotFound
	}
	return s.flashSaleRepo.Delete(id)
}

// GetFlashSale 获取抢购场次
func (s *FlashSaleService) GetFlashSale(id uint) (*models.FlashSale, error) {
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrNotFound
	}
	return sale, nil
}

// ListFlashSales 后台抢购列表
func (s *FlashSaleService) ListFlashSales(filter repository.FlashSaleListFilter) ([]models.FlashSale, int64, error) {
	return s.flashSaleRepo.List(filter)
}

// ListRunningFlashSales 前台进行中的抢购，带抢购价与剩余名额
func (s *FlashSaleService) ListRunningFlashSales() ([]RunningFlashSale, error) {
	now := time.Now()
	sales, err := s.flashSaleRepo.ListRunning(now)
	if err != nil {
		return nil, err
	}

	result := make([]RunningFlashSale, 0, len(sales))
	for _, sale := range sales {
		basePrice := models.Money{}
		if sale.Product != nil {
			basePrice = sale.Product.RegularPrice
		}
		salePrice := models.NewMoneyFromDecimal(applyDiscount(basePrice.Decimal, sale.DiscountType, sale.DiscountValue.Decimal))
		remaining := 0
		if sale.StockLimit > 0 {
			remaining = sale.StockLimit - sale.SoldCount
			if remaining < 0 {
				remaining = 0
			}
		}
		result = append(result, RunningFlashSale{FlashSale: sale, SalePrice: salePrice, Remaining: remaining})
	}
	return result, nil
}

func (s *FlashSaleService) validateFlashSale(sale *models.FlashSale) error {
	sale.Name = strings.TrimSpace(sale.Name)
	sale.DiscountType = strings.ToLower(strings.TrimSpace(sale.DiscountType))
	if sale.Name == "" {
		return ErrInvalidInput
	}
	if !validDiscount(sale.DiscountType, sale.DiscountValue.Decimal) {
		return ErrInvalidInput
	}
	if sale.StockLimit < 0 {
		return ErrInvalidInput
	}
	if sale.StartTime == nil || sale.EndTime == nil || !sale.EndTime.After(*sale.StartTime) {
		return ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(sale.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return nil
}
