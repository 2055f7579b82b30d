package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// orderSortColumns 订单列表允许排序的列
var orderSortColumns = map[string]string{
	"created_at":   "created_at",
	"total_amount": "total_amount",
	"status":       "status",
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByIDWithItems(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	CreateWithItems(order *models.Order, items []models.OrderItem, afterCreate func(tx *gorm.DB) error) error
	Update(order *models.Order) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListByCustomerEmail(email string) ([]models.Order, error)
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDWithItems 根据 ID 获取订单并预载明细
func (r *GormOrderRepository) GetByIDWithItems(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// CreateWithItems 在单个事务内创建订单头与全部明细。
// afterCreate 用于在同一事务内执行库存扣减、优惠券核销等附带写入，
// 任意一步失败则整单回滚。
func (r *GormOrderRepository) CreateWithItems(order *models.Order, items []models.OrderItem, afterCreate func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		if afterCreate != nil {
			return afterCreate(tx)
		}
		return nil
	})
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateFields 部分更新订单字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除订单及其明细
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.Search != "" {
		// LOWER 两侧都做，postgres 的 LIKE 区分大小写
		like := strings.ToLower(listquery.LikePattern(filter.Search))
		cond := "LOWER(order_no) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?" +
			" OR LOWER(shipping_address) LIKE ? OR LOWER(tracking_number) LIKE ?"
		args := []interface{}{like, like, like, like, like}
		if id, err := strconv.ParseUint(strings.TrimSpace(filter.Search), 10, 64); err == nil {
			cond += " OR id = ?"
			args = append(args, id)
		}
		query = query.Where(cond, args...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerEmail != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", filter.CustomerEmail)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)
	if filter.WithItems {
		query = query.Preload("Items")
	}

	order := listquery.OrderClause(filter.SortBy, filter.SortOrder, orderSortColumns, "id DESC")
	var orders []models.Order
	if err := query.Order(order).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByCustomerEmail 查询客户全部订单，前台订单查询使用
func (r *GormOrderRepository) ListByCustomerEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("LOWER(customer_email) = LOWER(?)", email).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
