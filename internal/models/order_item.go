package models

import (
	"time"
)

// OrderItem 订单项表，保存下单时的图书快照
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	BookID     uint      `gorm:"index;not null" json:"book_id"`                            // 图书ID（图书删除后仍保留）
	BookName   string    `gorm:"type:varchar(255);not null" json:"book_name"`              // 书名快照
	BookAuthor string    `gorm:"type:varchar(255);not null" json:"book_author"`            // 作者快照
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity   int       `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt  time.Time `json:"created_at"`                                               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
