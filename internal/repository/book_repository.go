package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bookcart/internal/models"

	"gorm.io/gorm"
)

// BookRepository 图书数据访问接口
type BookRepository interface {
	List(ctx context.Context, filter BookListFilter) ([]models.Book, int64, error)
	ListAll(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) BookRepository
}

// GormBookRepository GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓库
func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookRepository) WithTx(tx *gorm.DB) BookRepository {
	if tx == nil {
		return r
	}
	return &GormBookRepository{db: tx}
}

// Transaction 执行事务
func (r *GormBookRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// List 图书列表，按目录顺序（id 升序）返回
func (r *GormBookRepository) List(ctx context.Context, filter BookListFilter) ([]models.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Book{})
	if keyword := strings.TrimSpace(filter.Query); keyword != "" {
		query = query.Where(containsFoldedCondition("search_key"), containsPattern(keyword))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	books := make([]models.Book, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id asc").Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListAll 不分页返回全部图书，按目录顺序
func (r *GormBookRepository) ListAll(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// GetByID 根据 ID 获取图书
func (r *GormBookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// Create 创建图书
func (r *GormBookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Update 更新图书
func (r *GormBookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete 删除图书，返回受影响行数
func (r *GormBookRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	return result.RowsAffected, result.Error
}
