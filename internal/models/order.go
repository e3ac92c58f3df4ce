package models

import (
	"time"
)

// Order 订单表，一次结算生成一条
type Order struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string    `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID          uint      `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status          string    `gorm:"index;not null" json:"status"`                              // 订单状态
	PaymentMode     string    `gorm:"type:varchar(32);not null" json:"payment_mode"`             // 支付方式
	ShippingName    string    `gorm:"type:varchar(255);not null" json:"shipping_name"`           // 收货人
	ShippingAddress string    `gorm:"type:text;not null" json:"shipping_address"`                // 收货地址
	ShippingPhone   string    `gorm:"type:varchar(64);not null" json:"shipping_phone"`           // 联系电话
	TotalAmount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                // 更新时间

	Items []OrderItem `gorm:"-" json:"items,omitempty"` // 订单项，由仓库显式加载
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// 订单状态
const (
	OrderStatusConfirmed = "confirmed"
)
