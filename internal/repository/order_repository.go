package repository

import (
	"context"
	"errors"

	"github.com/bookcart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByOrderNoAndUser(ctx context.Context, orderNo string, userID uint) (*models.Order, error)
	ListByUser(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByOrderNoAndUser 获取用户订单详情
func (r *GormOrderRepository) GetByOrderNoAndUser(ctx context.Context, orderNo string, userID uint) (*models.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("order_no = ? AND user_id = ?", orderNo, userID))
}

func (r *GormOrderRepository) first(ctx context.Context, query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachItems(ctx, []*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser 获取用户订单列表，新订单在前
func (r *GormOrderRepository) ListByUser(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", filter.UserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	refs := make([]*models.Order, 0, len(orders))
	for i := range orders {
		refs = append(refs, &orders[i])
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountByUser 统计用户订单数
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id asc").Find(&items).Error; err != nil {
		return err
	}
	byOrder := make(map[uint][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for _, order := range orders {
		order.Items = byOrder[order.ID]
	}
	return nil
}
