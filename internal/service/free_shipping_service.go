package service

import (
	"strings"
	"time"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/shopspring/decimal"
)

// FreeShippingService 包邮活动服务
type FreeShippingService struct {
	freeShippingRepo repository.FreeShippingRepository
}

// NewFreeShippingService 创建包邮活动服务实例
func NewFreeShippingService(freeShippingRepo repository.FreeShippingRepository) *FreeShippingService {
	return &FreeShippingService{freeShippingRepo: freeShippingRepo}
}

// EligibilityInput 包邮资格判定输入
type EligibilityInput struct {
	Subtotal   decimal.Decimal
	Location   string
	Categories []string
}

// EligibilityResult 包邮资格判定结果
type EligibilityResult struct {
	Eligible  bool   `json:"eligible"`
	PromoID   uint   `json:"promo_id,omitempty"`
	PromoName string `json:"promo_name,omitempty"`
	RuleType  string `json:"rule_type,omitempty"`
}

// CreatePromotion 创建包邮活动
func (s *FreeShippingService) CreatePromotion(promo *models.FreeShippingPromotion) error {
	if err := validateFreeShipping(promo); err != nil {
		return err
	}
	return s.freeShippingRepo.Create(promo)
}

// UpdatePromotion 更新包邮活动
func (s *FreeShippingService) UpdatePromotion(id uint, apply func(*models.FreeShippingPromotion)) (*models.FreeShippingPromotion, error) {
	promo, err := s.freeShippingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrNotFound
	}
	apply(promo)
	if err := validateFreeShipping(promo); err != nil {
		return nil, err
	}
	if err := s.freeShippingRepo.Update(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// DeletePromotion 删除包邮活动
func (s *FreeShippingService) DeletePromotion(id uint) error {
	promo, err := s.freeShippingRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promo == nil {
		return ErrNotFound
	}
	return s.freeShippingRepo.Delete(id)
}

// GetPromotion 获取包邮活动
func (s *FreeShippingService) GetPromotion(id uint) (*models.FreeShippingPromotion, error) {
	promo, err := s.freeShippingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrNotFound
	}
	return promo, nil
}

// ListPromotions 后台包邮活动列表
func (s *FreeShippingService) ListPromotions(filter repository.FreeShippingListFilter) ([]models.FreeShippingPromotion, int64, error) {
	return s.freeShippingRepo.List(filter)
}

// ListActivePromotions 前台生效中的包邮活动
func (s *FreeShippingService) ListActivePromotions() ([]models.FreeShippingPromotion, error) {
	return s.freeShippingRepo.ListActive(time.Now())
}

// CheckEligibility 判定订单是否命中任一生效包邮规则，命中即止
func (s *FreeShippingService) CheckEligibility(input EligibilityInput) (*EligibilityResult, error) {
	promos, err := s.freeShippingRepo.ListActive(time.Now())
	if err != nil {
		return nil, err
	}
	for _, promo := range promos {
		if s.matches(&promo, input) {
			return &EligibilityResult{
				Eligible:  true,
				PromoID:   promo.ID,
				PromoName: promo.Name,
				RuleType:  promo.RuleType,
			}, nil
		}
	}
	return &EligibilityResult{Eligible: false}, nil
}

func (s *FreeShippingService) matches(promo *models.FreeShippingPromotion, input EligibilityInput) bool {
	switch promo.RuleType {
	case constants.FreeShippingRuleMinAmount:
		return promo.MinAmount.Decimal.IsPositive() && !input.Subtotal.LessThan(promo.MinAmount.Decimal)
	case constants.FreeShippingRuleLocation:
		location := strings.ToLower(strings.TrimSpace(input.Location))
		if location == "" {
			return false
		}
		for _, candidate := range promo.Locations {
			if strings.Contains(location, strings.ToLower(strings.TrimSpace(candidate))) {
				return true
			}
		}
		return false
	case constants.FreeShippingRuleCategory:
		for _, category := range input.Categories {
			if strings.EqualFold(strings.TrimSpace(category), promo.Category) {
				return true
			}
		}
		return false
	}
	return false
}

func validateFreeShipping(promo *models.FreeShippingPromotion) error {
	promo.Name = strings.TrimSpace(promo.Name)
	promo.RuleType = strings.ToLower(strings.TrimSpace(promo.RuleType))
	if promo.Name == "" {
		return ErrInvalidInput
	}
	switch promo.RuleType {
	case constants.FreeShippingRuleMinAmount:
		if !promo.MinAmount.Decimal.IsPositive() {
			return ErrInvalidInput
		}
	case constants.FreeShippingRuleLocation:
		if len(promo.Locations) == 0 {
			return ErrInvalidInput
		}
	case constants.FreeShippingRuleCategory:
		if strings.TrimSpace(promo.Category) == "" {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
