package service

import (
	"context"

	"github.com/bookcart/internal/constants"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine 购物车行（按当前图书价格计算）
type CartLine struct {
	EntryID   uint         `json:"entry_id"`
	BookID    uint         `json:"book_id"`
	Name      string       `json:"name"`
	Author    string       `json:"author"`
	ImageURL  string       `json:"image_url"`
	Rating    float64      `json:"rating"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
}

// CartView 购物车视图
type CartView struct {
	Lines      []CartLine   `json:"lines"`
	TotalItems int          `json:"total_items"`
	Total      models.Money `json:"total"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// AddToCart 将图书加入购物车，已存在时累加数量
func (s *CartService) AddToCart(ctx context.Context, sess *SessionContext, bookID uint, quantity int) (*models.CartEntry, error) {
	if sess == nil || sess.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var entry *models.CartEntry
	err := s.cartRepo.Transaction(ctx, func(tx *gorm.DB) error {
		book, err := s.bookRepo.WithTx(tx).GetByID(ctx, bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}
		entry, err = s.cartRepo.WithTx(tx).AddQuantity(ctx, sess.UserID, bookID, quantity, constants.MaxCartQuantity)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Ctx(ctx).Errorw("cart_add_failed", "user_id", sess.UserID, "book_id", bookID, "error", err)
		}
		return nil, wrapStorage("add to cart", err)
	}
	return entry, nil
}

// UpdateQuantity 设置条目数量；不属于当前用户的条目视为不存在
func (s *CartService) UpdateQuantity(ctx context.Context, sess *SessionContext, entryID uint, quantity int) error {
	if sess == nil || sess.UserID == 0 {
		return ErrUnauthenticated
	}
	if quantity <= 0 || quantity > constants.MaxCartQuantity {
		return ErrInvalidQuantity
	}
	affected, err := s.cartRepo.SetQuantity(ctx, sess.UserID, entryID, quantity)
	if err != nil {
		logger.Ctx(ctx).Errorw("cart_update_failed", "user_id", sess.UserID, "entry_id", entryID, "error", err)
		return wrapStorage("update cart", err)
	}
	if affected == 0 {
		return ErrCartEntryNotFound
	}
	return nil
}

// RemoveEntry 删除条目，条目不存在或属于他人时同样成功
func (s *CartService) RemoveEntry(ctx context.Context, sess *SessionContext, entryID uint) error {
	if sess == nil || sess.UserID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.cartRepo.DeleteEntry(ctx, sess.UserID, entryID); err != nil {
		logger.Ctx(ctx).Errorw("cart_remove_failed", "user_id", sess.UserID, "entry_id", entryID, "error", err)
		return wrapStorage("remove cart entry", err)
	}
	return nil
}

// ViewCart 获取购物车及合计
func (s *CartService) ViewCart(ctx context.Context, sess *SessionContext) (*CartView, error) {
	if sess == nil || sess.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	rows, err := s.cartRepo.ListLines(ctx, sess.UserID)
	if err != nil {
		return nil, wrapStorage("view cart", err)
	}
	return buildCartView(rows), nil
}

func buildCartView(rows []repository.CartLine) *CartView {
	view := &CartView{
		Lines: make([]CartLine, 0, len(rows)),
		Total: models.NewMoneyFromDecimal(decimal.Zero),
	}
	for _, row := range rows {
		lineTotal := row.Price.Times(row.Quantity)
		view.Lines = append(view.Lines, CartLine{
			EntryID:   row.EntryID,
			BookID:    row.BookID,
			Name:      row.Name,
			Author:    row.Author,
			ImageURL:  row.ImageURL,
			Rating:    row.Rating,
			UnitPrice: row.Price,
			Quantity:  row.Quantity,
			LineTotal: lineTotal,
		})
		view.TotalItems += row.Quantity
		view.Total = view.Total.Plus(lineTotal)
	}
	return view
}
