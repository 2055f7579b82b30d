package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tokoline/tokoline/internal/cache"
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	flashSaleRepo repository.FlashSaleRepository
	voucherSvc    *VoucherService
	customerRepo  repository.CustomerRepository
	emailService  *EmailService
	queueClient   *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	flashSaleRepo repository.FlashSaleRepository,
	voucherSvc *VoucherService,
	customerRepo repository.CustomerRepository,
	emailService *EmailService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		flashSaleRepo: flashSaleRepo,
		voucherSvc:    voucherSvc,
		customerRepo:  customerRepo,
		emailService:  emailService,
		queueClient:   queueClient,
	}
}

// CreateOrderItemInput 下单明细输入
type CreateOrderItemInput struct {
	ProductID uint
	VariantID uint
	Quantity  int
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Notes           string
	VoucherCode     string
	Items           []CreateOrderItemInput
}

// CreateOrder 创建订单。
// 订单头、全部明细与库存/券核销在同一事务内落库，任一环节失败整单回滚。
// total_amount 在此一次性定价，之后状态流转不再重算。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if name == "" || email == "" || len(input.Items) == 0 {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))

	type saleReservation struct {
		saleID   uint
		quantity int
	}
	reservations := make([]saleReservation, 0)
	soldCounts := make(map[uint]int)

	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		product, err := s.productRepo.GetByIDWithAssets(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.Status != constants.ProductStatusActive {
			return nil, ErrNotFound
		}
		if product.Stock < line.Quantity {
			return nil, ErrInsufficientStock
		}

		unitPrice := product.RegularPrice.Decimal
		if product.PromoPrice.Decimal.IsPositive() {
			unitPrice = product.PromoPrice.Decimal
		}
		variantName := ""
		if line.VariantID > 0 {
			variant := findVariant(product.Variants, line.VariantID)
			if variant == nil {
				return nil, ErrNotFound
			}
			if variant.Stock < line.Quantity {
				return nil, ErrInsufficientStock
			}
			variantName = variant.Name
			if variant.Price.Decimal.IsPositive() {
				unitPrice = variant.Price.Decimal
			}
		}

		// 进行中的抢购价优先于促销价
		if sale, err := s.flashSaleRepo.GetRunningForProduct(product.ID, now); err != nil {
			return nil, err
		} else if sale != nil && sale.Running(now) {
			unitPrice = applyDiscount(unitPrice, sale.DiscountType, sale.DiscountValue.Decimal)
			reservations = append(reservations, saleReservation{saleID: sale.ID, quantity: line.Quantity})
		}

		imagePath := ""
		if len(product.Images) > 0 {
			imagePath = product.Images[0].ImagePath
		}
		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID:    &productID,
			ProductName:  product.Name,
			ProductImage: imagePath,
			VariantName:  variantName,
			Quantity:     line.Quantity,
			Price:        models.NewMoneyFromDecimal(unitPrice),
		})
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		soldCounts[product.ID] += line.Quantity
	}

	discount := decimal.Zero
	var redeemVoucher *voucherRedemption
	if strings.TrimSpace(input.VoucherCode) != "" {
		applied, err := s.voucherSvc.Apply(input.VoucherCode, subtotal, items, now)
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		redeemVoucher = applied
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(total),
		VoucherCode:     strings.ToUpper(strings.TrimSpace(input.VoucherCode)),
		DiscountAmount:  models.NewMoneyFromDecimal(discount),
		Notes:           strings.TrimSpace(input.Notes),
	}

	err := s.orderRepo.CreateWithItems(order, items, func(tx *gorm.DB) error {
		for productID, quantity := range soldCounts {
			if err := tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
				"sold_count": gorm.Expr("sold_count + ?", quantity),
				"stock":      gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", quantity, quantity),
			}).Error; err != nil {
				return err
			}
		}
		for _, r := range reservations {
			ok, err := s.flashSaleRepo.ReserveTx(tx, r.saleID, r.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrFlashSaleSoldOut
			}
		}
		if redeemVoucher != nil {
			ok, err := redeemVoucher.Redeem(tx)
			if err != nil {
				return err
			}
			if !ok {
				return ErrVoucherExhausted
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ensureCustomer(order)
	return order, nil
}

// ensureCustomer 下单后登记客户档案，已存在邮箱不重复建档
func (s *OrderService) ensureCustomer(order *models.Order) {
	existing, err := s.customerRepo.GetByEmail(order.CustomerEmail)
	if err != nil {
		logger.Warnw("customer_lookup_failed", "email", order.CustomerEmail, "error", err)
		return
	}
	if existing != nil {
		return
	}
	customer := &models.Customer{
		Name:    order.CustomerName,
		Email:   order.CustomerEmail,
		Phone:   order.CustomerPhone,
		Address: order.ShippingAddress,
		Status:  constants.CustomerStatusPending,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		logger.Warnw("customer_autocreate_failed", "email", order.CustomerEmail, "error", err)
	}
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// GetOrderByNo 按订单号获取订单
func (s *OrderService) GetOrderByNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = listquery.NormalizeStatus(filter.Status)
	return s.orderRepo.List(filter)
}

// ListOrdersByCustomer 客户订单查询，前台使用
func (s *OrderService) ListOrdersByCustomer(email string) ([]models.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.orderRepo.ListByCustomerEmail(email)
}

// UpdateStatusInput 订单状态更新输入
type UpdateStatusInput struct {
	Status         string
	TrackingNumber *string
	Notes          *string
}

// UpdateStatus 更新订单状态。
// 历史别名（delivered/shipping/canceled 等）统一归一后校验，
// total_amount 保持下单时定价不动。
func (s *OrderService) UpdateStatus(id uint, input UpdateStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	status := listquery.NormalizeStatus(input.Status)
	if !validOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	updates := map[string]interface{}{"status": status}
	if input.TrackingNumber != nil {
		updates["tracking_number"] = strings.TrimSpace(*input.TrackingNumber)
	}
	if input.Notes != nil {
		updates["notes"] = strings.TrimSpace(*input.Notes)
	}
	if err := s.orderRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}

	if status != order.Status {
		s.notifyStatusChange(order, status)
		// 状态变化会影响报表口径，顺手把 analytics 缓存清掉
		if err := cache.DelPrefix(context.Background(), "analytics:"); err != nil {
			logger.Warnw("invalidate_analytics_cache_failed", "order_id", order.ID, "error", err)
		}
	}

	return s.orderRepo.GetByIDWithItems(id)
}

// DeleteOrder 删除订单
func (s *OrderService) DeleteOrder(id uint) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrNotFound
	}
	return s.orderRepo.Delete(id)
}

// notifyStatusChange 推送订单状态邮件，队列不可用时同步发送
func (s *OrderService) notifyStatusChange(order *models.Order, status string) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: order.ID,
			Status:  status,
		})
		if err == nil {
			return
		}
		logger.Warnw("enqueue_order_status_email_failed", "order_id", order.ID, "error", err)
	}
	err := s.emailService.SendOrderStatusEmail(order.CustomerEmail, OrderStatusEmailInput{
		OrderNo:        order.OrderNo,
		Status:         status,
		Amount:         order.TotalAmount,
		TrackingNumber: order.TrackingNumber,
	})
	if err != nil {
		logger.Warnw("send_order_status_email_failed", "order_id", order.ID, "error", err)
	}
}

func validOrderStatus(status string) bool {
	for _, s := range constants.OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

func findVariant(variants []models.ProductVariant, id uint) *models.ProductVariant {
	for i := range variants {
		if variants[i].ID == id {
			return &variants[i]
		}
	}
	return nil
}

// applyDiscount 按折扣类型计算折后单价，下限为零
func applyDiscount(price decimal.Decimal, discountType string, value decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal
	switch discountType {
	case constants.DiscountTypeFixed:
		discounted = price.Sub(value)
	default:
		discounted = price.Mul(decimal.NewFromInt(100).Sub(value)).Div(decimal.NewFromInt(100))
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TL%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
