package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory 创建分类，名称唯一
func (s *CategoryService) CreateCategory(category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return ErrInvalidInput
	}
	existing, err := s.categoryRepo.GetByName(category.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrNameTaken
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory 更新分类
func (s *CategoryService) UpdateCategory(id uint, apply func(*models.Category)) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	apply(category)
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.categoryRepo.GetByName(category.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrNameTaken
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory 删除分类
func (s *CategoryService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	return s.categoryRepo.Delete(id)
}

// GetCategory 获取分类
func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// ListCategories 分类列表
func (s *CategoryService) ListCategories(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.categoryRepo.List(filter)
}

// ListAllCategories 全量分类，按排序值升序
func (s *CategoryService) ListAllCategories() ([]models.Category, error) {
	return s.categoryRepo.ListAll()
}
