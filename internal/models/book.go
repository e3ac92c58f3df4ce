package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Book 图书表
type Book struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`            // 书名
	Author    string    `gorm:"type:varchar(255);not null" json:"author"`                // 作者
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 售价
	Rating    float64   `gorm:"not null;default:0" json:"rating"`                        // 评分 0~5
	ImageURL  string    `gorm:"type:varchar(1024);not null;default:''" json:"image_url"` // 封面地址
	SearchKey string    `gorm:"type:varchar(255);not null;default:'';index" json:"-"`    // 书名小写检索键
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// BeforeSave 写入前刷新检索键；折叠在 Go 侧完成，sqlite 的 LOWER 只处理 ASCII
func (b *Book) BeforeSave(tx *gorm.DB) error {
	b.SearchKey = FoldSearchKey(b.Name)
	return nil
}

// FoldSearchKey 书名检索键，Unicode 小写
func FoldSearchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
