package models

import (
	"github.com/bookcart/internal/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoBooks 演示目录
func DemoBooks() []Book {
	return []Book{
		{Name: "The Pragmatic Programmer", Author: "Andrew Hunt", Price: NewMoneyFromDecimal(decimal.RequireFromString("39.99")), Rating: 4.7},
		{Name: "Clean Code", Author: "Robert C. Martin", Price: NewMoneyFromDecimal(decimal.RequireFromString("32.50")), Rating: 4.4},
		{Name: "The Go Programming Language", Author: "Alan Donovan", Price: NewMoneyFromDecimal(decimal.RequireFromString("41.00")), Rating: 4.8},
		{Name: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: NewMoneyFromDecimal(decimal.RequireFromString("45.90")), Rating: 4.9},
		{Name: "Refactoring", Author: "Martin Fowler", Price: NewMoneyFromDecimal(decimal.RequireFromString("29.95")), Rating: 4.3},
	}
}

// SeedCatalog 目录为空时写入演示图书，返回写入数量
func SeedCatalog(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Infow("seed_catalog_skipped", "existing_books", count)
		return 0, nil
	}
	books := DemoBooks()
	if err := db.Create(&books).Error; err != nil {
		return 0, err
	}
	logger.Infow("seed_catalog_done", "books", len(books))
	return len(books), nil
}
