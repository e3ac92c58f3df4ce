package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bookcart/internal/constants"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"gorm.io/gorm"
)

const maxBookRating = 5.0

// BookInput 图书表单输入，价格与评分保留原始文本以便校验
type BookInput struct {
	Name     string `json:"name" form:"name"`
	Author   string `json:"author" form:"author"`
	Price    string `json:"price" form:"price"`
	Rating   string `json:"rating" form:"rating"`
	ImageURL string `json:"image_url" form:"image_url"`
}

// BookListResult 图书列表结果
type BookListResult struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
}

// CatalogService 图书目录服务
type CatalogService struct {
	bookRepo     repository.BookRepository
	cartRepo     repository.CartRepository
	deletePolicy string
}

// NewCatalogService 创建目录服务
func NewCatalogService(bookRepo repository.BookRepository, cartRepo repository.CartRepository, deletePolicy string) *CatalogService {
	policy := strings.ToLower(strings.TrimSpace(deletePolicy))
	if policy != constants.BookDeletePolicyReject {
		policy = constants.BookDeletePolicyCascade
	}
	return &CatalogService{
		bookRepo:     bookRepo,
		cartRepo:     cartRepo,
		deletePolicy: policy,
	}
}

// ListBooks 按目录顺序列出图书，Query 非空时按书名子串过滤
func (s *CatalogService) ListBooks(ctx context.Context, filter repository.BookListFilter) (*BookListResult, error) {
	books, total, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapStorage("list books", err)
	}
	return &BookListResult{Books: books, Total: total}, nil
}

// GetBook 获取单本图书
func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorage("get book", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// CreateBook 新增图书
func (s *CatalogService) CreateBook(ctx context.Context, input BookInput) (*models.Book, error) {
	book := &models.Book{}
	if err := applyBookInput(book, input); err != nil {
		return nil, err
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, wrapStorage("create book", err)
	}
	logger.Ctx(ctx).Infow("book_created", "book_id", book.ID, "name", book.Name)
	return book, nil
}

// UpdateBook 修改图书全部字段
func (s *CatalogService) UpdateBook(ctx context.Context, id uint, input BookInput) (*models.Book, error) {
	var book *models.Book
	err := s.bookRepo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.bookRepo.WithTx(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookNotFound
		}
		if err := applyBookInput(current, input); err != nil {
			return err
		}
		current.UpdatedAt = time.Now()
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		book = current
		return nil
	})
	if err != nil {
		return nil, wrapStorage("update book", err)
	}
	return book, nil
}

// DeleteBook 删除图书；仍被购物车引用时按策略级联删除或拒绝
func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	err := s.bookRepo.Transaction(ctx, func(tx *gorm.DB) error {
		books := s.bookRepo.WithTx(tx)
		carts := s.cartRepo.WithTx(tx)

		book, err := books.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}

		if s.deletePolicy == constants.BookDeletePolicyReject {
			refs, err := carts.CountByBook(ctx, id)
			if err != nil {
				return err
			}
			if refs > 0 {
				return ErrBookInUse
			}
		} else {
			removed, err := carts.DeleteByBook(ctx, id)
			if err != nil {
				return err
			}
			if removed > 0 {
				logger.Ctx(ctx).Infow("book_delete_cascade_cart", "book_id", id, "entries", removed)
			}
		}

		affected, err := books.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBookNotFound
		}
		return nil
	})
	return wrapStorage("delete book", err)
}

func applyBookInput(book *models.Book, input BookInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrBookNameRequired
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		return ErrBookAuthorRequired
	}
	price, err := models.ParseMoney(input.Price)
	if err != nil || price.IsNegative() || !price.Storable() {
		return ErrBookPriceInvalid
	}
	rating, err := parseRating(input.Rating)
	if err != nil {
		return err
	}
	book.Name = name
	book.Author = author
	book.Price = price
	book.Rating = rating
	book.ImageURL = strings.TrimSpace(input.ImageURL)
	return nil
}

func parseRating(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrBookRatingInvalid
	}
	rating, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(rating) || rating < 0 || rating > maxBookRating {
		return 0, ErrBookRatingInvalid
	}
	return rating, nil
}
