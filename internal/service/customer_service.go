package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// CustomerService 客户管理服务
type CustomerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
}

// NewCustomerService 创建客户管理服务实例
func NewCustomerService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, orderRepo: orderRepo}
}

// CreateCustomer 手工建档，邮箱唯一
func (s *CustomerService) CreateCustomer(customer *models.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.Name == "" || customer.Email == "" {
		return ErrInvalidInput
	}
	if customer.Status == "" {
		customer.Status = constants.CustomerStatusPending
	}
	if !validCustomerStatus(customer.Status) {
		return ErrInvalidStatus
	}
	existing, err := s.customerRepo.GetByEmail(customer.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	return s.customerRepo.Create(customer)
}

// UpdateCustomer 更新客户档案
func (s *CustomerService) UpdateCustomer(id uint, apply func(*models.Customer)) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	apply(customer)
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.Name == "" || customer.Email == "" {
		return nil, ErrInvalidInput
	}
	if !validCustomerStatus(customer.Status) {
		return nil, ErrInvalidStatus
	}
	existing, err := s.customerRepo.GetByEmail(customer.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrEmailTaken
	}
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ChangeStatus 调整客户状态（pending/active/blocked）
func (s *CustomerService) ChangeStatus(id uint, status string) (*models.Customer, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validCustomerStatus(status) {
		return nil, ErrInvalidStatus
	}
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	customer.Status = status
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer 删除客户档案，历史订单保留
func (s *CustomerService) DeleteCustomer(id uint) error {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrNotFound
	}
	return s.customerRepo.Delete(id)
}

// GetCustomer 获取客户档案
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

// GetCustomerStatus 前台按邮箱查询客户状态
func (s *CustomerService) GetCustomerStatus(email string) (string, error) {
	customer, err := s.customerRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", ErrNotFound
	}
	return customer.Status, nil
}

// ListCustomers 客户列表
func (s *CustomerService) ListCustomers(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.customerRepo.List(filter)
}

// CustomerOrders 客户的历史订单
func (s *CustomerService) CustomerOrders(id uint) ([]models.Order, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return s.orderRepo.ListByCustomerEmail(customer.Email)
}

func validCustomerStatus(status string) bool {
	switch status {
	case constants.CustomerStatusPending, constants.CustomerStatusActive, constants.CustomerStatusBlocked:
		return true
	}
	return false
}
