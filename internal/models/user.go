package models

import (
	"time"
)

// User 用户表，访客会话同样落在此表（Status = guest）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                    // 主键
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`       // 邮箱（小写归一化）
	PasswordHash string     `gorm:"not null;default:''" json:"-"`            // bcrypt 哈希，访客为空
	Status       string     `gorm:"not null;default:'active'" json:"status"` // active / guest / disabled
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`             // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`                           // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsGuest 是否为访客占位用户
func (u *User) IsGuest() bool {
	return u != nil && u.Status == UserStatusGuest
}

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusGuest    = "guest"
	UserStatusDisabled = "disabled"
)
