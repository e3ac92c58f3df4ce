package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bookcart/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	DeleteGuest(ctx context.Context, id uint, createdBefore time.Time) (int64, error)
	ListGuestIDsBefore(ctx context.Context, cutoff time.Time, limit int) ([]uint, error)
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户，邮箱冲突返回 gorm.ErrDuplicatedKey（需开启 TranslateError）
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteGuest 仅在账号仍为访客时删除；createdBefore 非零时还要求创建早于该时间
func (r *GormUserRepository) DeleteGuest(ctx context.Context, id uint, createdBefore time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.UserStatusGuest)
	if !createdBefore.IsZero() {
		query = query.Where("created_at < ?", createdBefore)
	}
	result := query.Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// ListGuestIDsBefore 列出早于 cutoff 创建的访客账号 ID
func (r *GormUserRepository) ListGuestIDsBefore(ctx context.Context, cutoff time.Time, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("status = ? AND created_at < ?", models.UserStatusGuest, cutoff).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
