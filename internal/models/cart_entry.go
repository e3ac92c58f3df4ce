package models

import (
	"time"
)

// CartEntry 购物车条目，(user_id, book_id) 唯一
type CartEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                         // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"user_id"`       // 用户ID
	BookID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_book;index" json:"book_id"` // 图书ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                     // 数量
	CreatedAt time.Time `json:"created_at"`                                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                   // 更新时间
}

// TableName 指定表名
func (CartEntry) TableName() string {
	return "cart_entries"
}
