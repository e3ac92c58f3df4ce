package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bookcart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	AddQuantity(ctx context.Context, userID, bookID uint, quantity, maxQuantity int) (*models.CartEntry, error)
	SetQuantity(ctx context.Context, userID, entryID uint, quantity int) (int64, error)
	DeleteEntry(ctx context.Context, userID, entryID uint) (int64, error)
	GetEntry(ctx context.Context, userID, bookID uint) (*models.CartEntry, error)
	ListLines(ctx context.Context, userID uint) ([]CartLine, error)
	LockLines(ctx context.Context, userID uint) ([]CartLine, error)
	DeleteEntries(ctx context.Context, userID uint, entryIDs []uint) (int64, error)
	ClearByUser(ctx context.Context, userID uint) error
	CountByBook(ctx context.Context, bookID uint) (int64, error)
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)
	MoveToUser(ctx context.Context, fromUserID, toUserID uint, maxQuantity int) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// AddQuantity 在 (user, book) 条目上累加数量，条目不存在时插入。
// 单条 INSERT ... ON CONFLICT 语句完成，累加结果封顶 maxQuantity。
func (r *GormCartRepository) AddQuantity(ctx context.Context, userID, bookID uint, quantity, maxQuantity int) (*models.CartEntry, error) {
	if quantity > maxQuantity {
		quantity = maxQuantity
	}
	now := time.Now()
	entry := &models.CartEntry{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr(
				"CASE WHEN cart_entries.quantity > ? - excluded.quantity THEN ? ELSE cart_entries.quantity + excluded.quantity END",
				maxQuantity, maxQuantity,
			),
			"updated_at": now,
		}),
	}).Create(entry).Error
	if err != nil {
		return nil, err
	}
	return r.GetEntry(ctx, userID, bookID)
}

// SetQuantity 设置条目数量，仅作用于属于该用户的条目
func (r *GormCartRepository) SetQuantity(ctx context.Context, userID, entryID uint, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.CartEntry{}).
		Where("id = ? AND user_id = ?", entryID, userID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteEntry 删除条目，仅作用于属于该用户的条目
func (r *GormCartRepository) DeleteEntry(ctx context.Context, userID, entryID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.CartEntry{})
	return result.RowsAffected, result.Error
}

// GetEntry 获取 (user, book) 条目
func (r *GormCartRepository) GetEntry(ctx context.Context, userID, bookID uint) (*models.CartEntry, error) {
	var entry models.CartEntry
	if err := r.db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormCartRepository) linesQuery(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).Table("cart_entries").
		Select("cart_entries.id AS entry_id, cart_entries.book_id AS book_id, cart_entries.quantity AS quantity, " +
			"books.name AS name, books.author AS author, books.price AS price, books.rating AS rating, books.image_url AS image_url").
		Joins("JOIN books ON books.id = cart_entries.book_id").
		Where("cart_entries.user_id = ?", userID).
		Order("cart_entries.id asc")
}

// ListLines 获取用户购物车（联表当前图书信息）
func (r *GormCartRepository) ListLines(ctx context.Context, userID uint) ([]CartLine, error) {
	lines := make([]CartLine, 0)
	if err := r.linesQuery(ctx, userID).Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// LockLines 在事务内读取并锁定用户购物车
func (r *GormCartRepository) LockLines(ctx context.Context, userID uint) ([]CartLine, error) {
	lines := make([]CartLine, 0)
	if err := lockForUpdate(r.linesQuery(ctx, userID)).Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteEntries 批量删除用户的指定条目
func (r *GormCartRepository) DeleteEntries(ctx context.Context, userID uint, entryIDs []uint) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, entryIDs).Delete(&models.CartEntry{})
	return result.RowsAffected, result.Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error
}

// CountByBook 统计引用某本书的条目数
func (r *GormCartRepository) CountByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartEntry{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// DeleteByBook 删除引用某本书的全部条目
func (r *GormCartRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&models.CartEntry{})
	return result.RowsAffected, result.Error
}

// MoveToUser 将 fromUser 的条目合并到 toUser，同一本书数量相加
func (r *GormCartRepository) MoveToUser(ctx context.Context, fromUserID, toUserID uint, maxQuantity int) error {
	if fromUserID == toUserID {
		return nil
	}
	var entries []models.CartEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", fromUserID).Order("id asc").Find(&entries).Error; err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := r.AddQuantity(ctx, toUserID, entry.BookID, entry.Quantity, maxQuantity); err != nil {
			return err
		}
	}
	return r.ClearByUser(ctx, fromUserID)
}
