package repository

import "github.com/bookcart/internal/models"

// BookListFilter 查询图书列表的过滤条件
type BookListFilter struct {
	Page     int
	PageSize int
	// Query 书名关键字，大小写不敏感的子串匹配；为空时返回全部
	Query string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
}

// CartLine 购物车条目与图书的联表结果
type CartLine struct {
	EntryID  uint         `gorm:"column:entry_id"`
	BookID   uint         `gorm:"column:book_id"`
	Quantity int          `gorm:"column:quantity"`
	Name     string       `gorm:"column:name"`
	Author   string       `gorm:"column:author"`
	Price    models.Money `gorm:"column:price"`
	Rating   float64      `gorm:"column:rating"`
	ImageURL string       `gorm:"column:image_url"`
}
