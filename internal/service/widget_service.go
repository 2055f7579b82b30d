package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
)

// 前台可渲染的挂件类型
var allowedWidgetTypes = map[string]struct{}{
	"banner":       {},
	"announcement": {},
	"promo_card":   {},
	"link_block":   {},
}

// WidgetService 页面挂件服务
type WidgetService struct {
	widgetRepo repository.WidgetRepository
}

// NewWidgetService 创建页面挂件服务实例
func NewWidgetService(widgetRepo repository.WidgetRepository) *WidgetService {
	return &WidgetService{widgetRepo: widgetRepo}
}

// CreateWidget 创建挂件
func (s *WidgetService) CreateWidget(widget *models.Widget) error {
	if err := validateWidget(widget); err != nil {
		return err
	}
	return s.widgetRepo.Create(widget)
}

// UpdateWidget 更新挂件
func (s *WidgetService) UpdateWidget(id uint, apply func(*models.Widget)) (*models.Widget, error) {
	widget, err := s.widgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if widget == nil {
		return nil, ErrNotFound
	}
	apply(widget)
	if err := validateWidget(widget); err != nil {
		return nil, err
	}
	if err := s.widgetRepo.Update(widget); err != nil {
		return nil, err
	}
	return widget, nil
}

// DeleteWidget 删除挂件
func (s *WidgetService) DeleteWidget(id uint) error {
	widget, err := s.widgetRepo.GetByID(id)
	if err != nil {
		return err
	}
	if widget == nil {
		return ErrNotFound
	}
	return s.widgetRepo.Delete(id)
}

// GetWidget 获取挂件
func (s *WidgetService) GetWidget(id uint) (*models.Widget, error) {
	widget, err := s.widgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if widget == nil {
		return nil, ErrNotFound
	}
	return widget, nil
}

// ListWidgets 后台挂件列表
func (s *WidgetService) ListWidgets(filter repository.WidgetListFilter) ([]models.Widget, int64, error) {
	return s.widgetRepo.List(filter)
}

// ListActiveWidgets 前台启用挂件，按排序值升序
func (s *WidgetService) ListActiveWidgets(widgetType string) ([]models.Widget, error) {
	return s.widgetRepo.ListActive(strings.ToLower(strings.TrimSpace(widgetType)))
}

func validateWidget(widget *models.Widget) error {
	widget.Type = strings.ToLower(strings.TrimSpace(widget.Type))
	widget.Title = strings.TrimSpace(widget.Title)
	if widget.Title == "" {
		return ErrInvalidInput
	}
	if _, ok := allowedWidgetTypes[widget.Type]; !ok {
		return ErrInvalidInput
	}
	return nil
}
